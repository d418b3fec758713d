package usecase

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
	"github.com/neilpattanaik/ParlayWatch/internal/domain/scoreboard"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
)

type recordingMetrics struct {
	mu        sync.Mutex
	malformed map[string]int
	builds    map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{malformed: map[string]int{}, builds: map[string]int{}}
}

func (m *recordingMetrics) RecordMalformed(unit string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.malformed[unit]++
}

func (m *recordingMetrics) ObserveBuild(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds[outcome]++
}

func (m *recordingMetrics) malformedCount(unit string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.malformed[unit]
}

func mustEvent(t *testing.T, raw string) scoreboard.RawEvent {
	t.Helper()
	event, err := scoreboard.DecodeEvent([]byte(raw))
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return event
}

func TestNormalizer_Normalize_FullEvent(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(logging.NewNop(), nil)
	got, err := n.Normalize(context.Background(), mustEvent(t, `{
		"id": "401",
		"name": "Lakers at Celtics",
		"date": "2024-10-22T23:30Z",
		"fullStatus": {"type": {"completed": false, "detail": "Q3 4:12"}},
		"competitors": [
			{"homeAway": "away", "displayName": "Los Angeles Lakers", "score": "71", "logo": "https://cdn/lal.png"},
			{"homeAway": "home", "displayName": "Boston Celtics", "score": "80"}
		]
	}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if got.ID != "401" || got.Name != "Lakers at Celtics" {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if want := time.Date(2024, 10, 22, 23, 30, 0, 0, time.UTC); !got.Date.Equal(want) {
		t.Fatalf("unexpected date: got=%s want=%s", got.Date, want)
	}
	if got.Completed || got.Status != "Q3 4:12" {
		t.Fatalf("unexpected status: completed=%v status=%q", got.Completed, got.Status)
	}
	if got.HomeTeam.Name != "Boston Celtics" || got.HomeTeam.Score != 80 || got.HomeTeam.Logo != nil {
		t.Fatalf("unexpected home team: %+v", got.HomeTeam)
	}
	if got.AwayTeam.Name != "Los Angeles Lakers" || got.AwayTeam.Score != 71 {
		t.Fatalf("unexpected away team: %+v", got.AwayTeam)
	}
	if got.AwayTeam.Logo == nil || *got.AwayTeam.Logo != "https://cdn/lal.png" {
		t.Fatalf("unexpected away logo: %v", got.AwayTeam.Logo)
	}
}

func TestNormalizer_Normalize_MissingCompetitorDefaults(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(logging.NewNop(), nil)
	got, err := n.Normalize(context.Background(), mustEvent(t, `{
		"id": "7",
		"date": "2024-10-22T23:30:00Z",
		"competitors": [{"homeAway": "home", "displayName": "Only Home", "score": "2"}]
	}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	want := match.Team{Name: "Unknown", Score: 0, Logo: nil}
	if got.AwayTeam != want {
		t.Fatalf("unexpected away team: got=%+v want=%+v", got.AwayTeam, want)
	}
	if got.Completed || got.Status != "" {
		t.Fatalf("missing status must default: completed=%v status=%q", got.Completed, got.Status)
	}
}

func TestNormalizer_Normalize_BlankFieldsDefault(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(logging.NewNop(), nil)
	got, err := n.Normalize(context.Background(), mustEvent(t, `{
		"id": 12,
		"date": "2024-10-22T23:30Z",
		"competitors": [{"homeAway": "home", "displayName": "   ", "score": "abc", "logo": ""}]
	}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if got.ID != "12" {
		t.Fatalf("numeric id must be kept as text, got=%q", got.ID)
	}
	if got.HomeTeam.Name != "Unknown" || got.HomeTeam.Score != 0 || got.HomeTeam.Logo != nil {
		t.Fatalf("unexpected home team: %+v", got.HomeTeam)
	}
}

func TestNormalizer_Normalize_MissingIDIsMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`{"name":"no id"}`, `{"id":"  "}`, `{"id":null}`} {
		n := NewNormalizer(logging.NewNop(), nil)
		_, err := n.Normalize(context.Background(), mustEvent(t, raw))
		if err == nil {
			t.Fatalf("expected error for %s", raw)
		}
		if !IsMalformedRecord(err) {
			t.Fatalf("expected malformed record marker for %s, got %v", raw, err)
		}
	}
}

func TestNormalizer_Normalize_UnparseableDateKeepsMatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	metrics := newRecordingMetrics()
	n := NewNormalizer(logging.New(&buf, logging.LevelDebug), metrics)

	got, err := n.Normalize(context.Background(), mustEvent(t, `{"id":"9","date":"tomorrow-ish"}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !got.Date.IsZero() {
		t.Fatalf("expected zero date, got %s", got.Date)
	}
	if metrics.malformedCount("date") != 1 {
		t.Fatalf("expected one malformed date to be counted")
	}
	if !strings.Contains(buf.String(), `"event_id":"9"`) {
		t.Fatalf("expected warning with event id, got %s", buf.String())
	}
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"3":                    3,
		"12 (4)":               12,
		" 7 ":                  7,
		"-2":                   -2,
		"+5":                   5,
		"3.9":                  3,
		"abc":                  0,
		"":                     0,
		"-":                    0,
		"99999999999999999999": 0,
	}
	for input, want := range tests {
		if got := parseScore(input); got != want {
			t.Fatalf("parseScore(%q): got=%d want=%d", input, got, want)
		}
	}
}

func TestParseEventDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 10, 17, 23, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-10-17T23:00Z",
		"2024-10-17T23:00:00Z",
		"2024-10-17T23:00:00.000Z",
		"2024-10-18T01:00+02:00",
	} {
		got, err := parseEventDate(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parse %q: got=%s want=%s", raw, got, want)
		}
	}

	if _, err := parseEventDate("17/10/2024"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}
