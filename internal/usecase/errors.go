package usecase

import (
	"errors"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrFetch marks any failure to obtain the upstream feed.
	ErrFetch = crerr.New("upstream feed fetch failed")
	// ErrAggregation marks a request that could not produce a sports tree.
	ErrAggregation = crerr.New("live match aggregation failed")
	// ErrMalformedRecord marks a sport, league or event that was skipped or defaulted.
	// It is logged and counted, never returned to callers of BuildSportsTree.
	ErrMalformedRecord = crerr.New("malformed feed record")
)

// NewFetchError marks cause as a fetch failure and keeps it in the chain.
func NewFetchError(cause error, msg string) error {
	if cause == nil {
		cause = crerr.New(msg)
	} else {
		cause = crerr.Wrap(cause, msg)
	}
	return crerr.Mark(cause, ErrFetch)
}

func newAggregationError(cause error) error {
	return crerr.Mark(crerr.Wrap(cause, "build sports tree"), ErrAggregation)
}

func newMalformedRecord(unit string, cause error) error {
	if cause == nil {
		return crerr.Mark(crerr.Newf("%s record", unit), ErrMalformedRecord)
	}
	return crerr.Mark(crerr.Wrapf(cause, "%s record", unit), ErrMalformedRecord)
}

func IsFetchError(err error) bool {
	return crerr.Is(err, ErrFetch)
}

func IsAggregationError(err error) bool {
	return crerr.Is(err, ErrAggregation)
}

func IsMalformedRecord(err error) bool {
	return crerr.Is(err, ErrMalformedRecord)
}
