package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
)

func TestRenderer_RenderGames(t *testing.T) {
	t.Parallel()

	selection := NewSelection()
	selection.Add(match.Match{ID: "up-2"})

	var out bytes.Buffer
	if err := NewRenderer(time.UTC).RenderGames(&out, sampleTree(), selection); err != nil {
		t.Fatalf("render games: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"== Football ==",
		"-- NFL --",
		"Live:\n    [live-1] A 3 @ B 7 (Q2)",
		"  + [up-2] E at F  starts 20:00",
		"[done-1] G 14 @ H 21 * (Final - 14:00)",
		"== Basketball ==",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRenderer_RenderGamesEmpty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := NewRenderer(time.UTC).RenderGames(&out, nil, nil); err != nil {
		t.Fatalf("render games: %v", err)
	}
	if out.String() != "No games available.\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRenderer_RenderDashboard(t *testing.T) {
	t.Parallel()

	selected := map[string]struct{}{"done-1": {}, "up-3": {}}
	partition := Reconcile(sampleTree(), selected, testNow)

	var out bytes.Buffer
	if err := NewRenderer(time.UTC).RenderDashboard(&out, partition); err != nil {
		t.Fatalf("render dashboard: %v", err)
	}
	got := out.String()

	if !strings.Contains(got, "[done-1] G 14 @ H 21 * Start Time: 14:00") {
		t.Fatalf("expected completed card with start time:\n%s", got)
	}
	if !strings.Contains(got, "Upcoming:\n    [up-3] I at J  starts 19:00") {
		t.Fatalf("expected upcoming card:\n%s", got)
	}
	if strings.Contains(got, "Live:") {
		t.Fatalf("empty sections should be omitted:\n%s", got)
	}
}

func TestRenderer_RenderDashboardEmpty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := NewRenderer(time.UTC).RenderDashboard(&out, match.EmptyPartition()); err != nil {
		t.Fatalf("render dashboard: %v", err)
	}
	if !strings.Contains(out.String(), "No matches selected.") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
