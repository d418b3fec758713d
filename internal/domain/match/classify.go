package match

import (
	"sort"
	"time"
)

type Bucket string

const (
	BucketLive      Bucket = "live"
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
)

// Partition is the three-way split of a match list. Upcoming is ordered soonest
// first, Completed most recent first, Live keeps input order.
type Partition struct {
	Live      []Match `json:"live"`
	Upcoming  []Match `json:"upcoming"`
	Completed []Match `json:"completed"`
}

func EmptyPartition() Partition {
	return Partition{
		Live:      []Match{},
		Upcoming:  []Match{},
		Completed: []Match{},
	}
}

func (p Partition) Len() int {
	return len(p.Live) + len(p.Upcoming) + len(p.Completed)
}

// BucketOf applies the precedence completed, then future start, then live.
func BucketOf(m Match, now time.Time) Bucket {
	if m.Completed {
		return BucketCompleted
	}
	if m.Date.After(now) {
		return BucketUpcoming
	}
	return BucketLive
}

// Classify partitions matches as of now. It does not modify the input and keeps
// no state, so the result only depends on (matches, now).
func Classify(matches []Match, now time.Time) Partition {
	out := EmptyPartition()
	for _, m := range matches {
		switch BucketOf(m, now) {
		case BucketCompleted:
			out.Completed = append(out.Completed, m)
		case BucketUpcoming:
			out.Upcoming = append(out.Upcoming, m)
		default:
			out.Live = append(out.Live, m)
		}
	}

	sort.SliceStable(out.Upcoming, func(i, j int) bool {
		return out.Upcoming[i].Date.Before(out.Upcoming[j].Date)
	})
	sort.SliceStable(out.Completed, func(i, j int) bool {
		return out.Completed[i].Date.After(out.Completed[j].Date)
	})

	return out
}
