package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/dashboard"
	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
)

type fakeSession struct {
	selection *dashboard.Selection
	known     map[string]match.Match
	refreshes int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		selection: dashboard.NewSelection(),
		known: map[string]match.Match{
			"1": {ID: "1", Name: "A at B", Date: time.Now().Add(time.Hour)},
		},
	}
}

func (f *fakeSession) Add(id string) (match.Match, error) {
	m, ok := f.known[id]
	if !ok {
		return match.Match{}, dashboard.ErrUnknownMatch
	}
	f.selection.Add(m)
	return m, nil
}

func (f *fakeSession) Remove(id string) bool {
	return f.selection.Remove(match.Match{ID: id})
}

func (f *fakeSession) Refresh(context.Context) { f.refreshes++ }

func (f *fakeSession) Games() []match.Sport { return nil }

func (f *fakeSession) Dashboard() match.Partition {
	selected := f.selection.Set()
	var out []match.Match
	for id := range selected {
		out = append(out, f.known[id])
	}
	return match.Classify(out, time.Now())
}

func (f *fakeSession) Selection() *dashboard.Selection { return f.selection }

func TestRunCommands_AddShowRemove(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	in := strings.NewReader("add 1\nadd 9\nshow\nremove 1\nremove 1\nbogus\nquit\nadd 1\n")
	var out bytes.Buffer

	runCommands(context.Background(), in, &out, session, dashboard.NewRenderer(time.UTC))

	got := out.String()
	for _, want := range []string{
		"added 1 (A at B)",
		"cannot add 9",
		"[1] A at B  starts",
		"removed 1",
		"1 is not on the dashboard",
		`unknown command "bogus"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
	if session.selection.Len() != 0 {
		t.Fatalf("commands after quit must not run, selection=%v", session.selection.IDs())
	}
}

func TestRunCommands_Refresh(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	var out bytes.Buffer
	runCommands(context.Background(), strings.NewReader("refresh\nr\n"), &out, session, dashboard.NewRenderer(time.UTC))

	if session.refreshes != 2 {
		t.Fatalf("expected 2 refreshes, got %d", session.refreshes)
	}
	if !strings.Contains(out.String(), "refreshing") {
		t.Fatalf("expected refresh acknowledgement, got:\n%s", out.String())
	}
}

func TestRunCommands_StopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		runCommands(ctx, blockingReader{}, &bytes.Buffer{}, newFakeSession(), dashboard.NewRenderer(time.UTC))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("runCommands did not return")
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

