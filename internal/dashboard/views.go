package dashboard

import (
	"sync"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
)

// FeedView keeps the latest full tree for the All Games page.
type FeedView struct {
	mu        sync.RWMutex
	sports    []match.Sport
	updatedAt time.Time
	now       func() time.Time
}

func NewFeedView(now func() time.Time) *FeedView {
	if now == nil {
		now = time.Now
	}
	return &FeedView{sports: []match.Sport{}, now: now}
}

func (v *FeedView) Apply(sports []match.Sport) {
	if sports == nil {
		sports = []match.Sport{}
	}
	v.mu.Lock()
	v.sports = sports
	v.updatedAt = v.now()
	v.mu.Unlock()
}

func (v *FeedView) Sports() []match.Sport {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sports
}

func (v *FeedView) UpdatedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.updatedAt
}

func (v *FeedView) FindMatch(id string) (match.Match, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for _, m := range match.Flatten(v.sports) {
		if m.ID == id {
			return m, true
		}
	}
	return match.Match{}, false
}

// DashboardView holds the selected matches, re-bucketed each time a tree arrives.
type DashboardView struct {
	selection *Selection
	now       func() time.Time

	mu        sync.RWMutex
	partition match.Partition
}

func NewDashboardView(selection *Selection, now func() time.Time) *DashboardView {
	if now == nil {
		now = time.Now
	}
	return &DashboardView{
		selection: selection,
		now:       now,
		partition: match.EmptyPartition(),
	}
}

// Apply replaces the previous partition wholesale.
func (v *DashboardView) Apply(sports []match.Sport) {
	partition := Reconcile(sports, v.selection.Set(), v.now())

	v.mu.Lock()
	v.partition = partition
	v.mu.Unlock()
}

func (v *DashboardView) Partition() match.Partition {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.partition
}

// Reconcile flattens the tree, keeps the selected matches and classifies them
// against now rather than trusting the server's buckets.
func Reconcile(sports []match.Sport, selected map[string]struct{}, now time.Time) match.Partition {
	all := match.Flatten(sports)
	kept := make([]match.Match, 0, len(selected))
	for _, m := range all {
		if _, ok := selected[m.ID]; ok {
			kept = append(kept, m)
		}
	}
	return match.Classify(kept, now)
}
