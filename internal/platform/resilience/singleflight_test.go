package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight[string]
	var calls int32

	const callers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do(context.Background(), "live-matches", func(context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(50 * time.Millisecond)
				return "tree", nil
			})
			if err != nil || got != "tree" {
				t.Errorf("unexpected result %q err=%v", got, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one call, got %d", got)
	}
}

func TestSingleFlight_WaiterLeavesOnContext(t *testing.T) {
	var g SingleFlight[string]
	release := make(chan struct{})
	running := make(chan struct{})

	go func() {
		_, _, _ = g.Do(context.Background(), "k", func(context.Context) (string, error) {
			close(running)
			<-release
			return "late", nil
		})
	}()
	<-running

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err, shared := g.Do(ctx, "k", func(context.Context) (string, error) {
		t.Errorf("waiter must not start a second call")
		return "", nil
	})
	close(release)

	if !shared || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected shared deadline error, got shared=%v err=%v", shared, err)
	}
}

func TestSingleFlight_KeyIsReleasedAfterCall(t *testing.T) {
	var g SingleFlight[int]
	for i := 1; i <= 2; i++ {
		got, _, shared := g.Do(context.Background(), "k", func(context.Context) (int, error) { return i, nil })
		if got != i || shared {
			t.Fatalf("call %d: got %d shared=%v", i, got, shared)
		}
	}
}
