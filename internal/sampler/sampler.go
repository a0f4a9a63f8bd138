// Package sampler picks one representative frame per day from a timelapse.
//
// For every day spanned by the sequence the frame closest to a fixed hour is
// chosen, provided it lies within a tolerance window around that hour.
package sampler

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	// DefaultFrameMinutes is the default half-width of the tolerance window.
	DefaultFrameMinutes = 5

	day = int64(24 * time.Hour / time.Second)
	// shortestDay is a calendar day that loses an hour to a DST change.
	shortestDay = day - 3600
)

var (
	ErrInvalidHour  = errors.New("hour must be between 0 and 23")
	ErrInvalidFrame = errors.New("frame must be between 0 and 689 minutes")
	ErrUnsorted     = errors.New("timestamps are not sorted")
)

type options struct {
	loc       *time.Location
	exclusive bool
}

// Option configures Sample.
type Option func(*options)

// WithLocation sets the time zone in which day-centers are computed.
// The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithExclusiveLastDay stops the day loop before the last day-center, so the
// final day of the sequence is never sampled. This reproduces the behavior of
// the first version of the frame selection script.
func WithExclusiveLastDay(exclusive bool) Option {
	return func(o *options) {
		o.exclusive = exclusive
	}
}

// Sample returns, for each day between the first and last timestamp, the
// timestamp closest to hour:00:00 on that day, if one lies within
// frameMinutes of it. Days without such a timestamp are omitted. ts must be
// sorted ascending; the result is a subset of ts in ascending order.
func Sample(ts []int64, hour, frameMinutes int, opts ...Option) ([]int64, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	// Windows of adjacent days must not overlap, even across a DST change.
	if frameMinutes < 0 || int64(frameMinutes)*60*2 >= shortestDay {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrame, frameMinutes)
	}
	if !sort.SliceIsSorted(ts, func(i, j int) bool { return ts[i] < ts[j] }) {
		return nil, ErrUnsorted
	}
	if len(ts) == 0 {
		return nil, nil
	}

	o := options{loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	centers := dayCenters(ts[0], ts[len(ts)-1], hour, o.loc, !o.exclusive)
	return pick(ts, centers, int64(frameMinutes)*60), nil
}

// DayCenter returns hour:00:00 on the calendar day of ts in loc. On a day
// where that wall-clock time is skipped by a DST change, the normalized
// time.Date result is used.
func DayCenter(ts int64, hour int, loc *time.Location) int64 {
	t := time.Unix(ts, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, loc).Unix()
}

// dayCenters returns hour:00:00 for every calendar day in loc from the day of
// from up to the day of to. Days are stepped on the calendar, not in fixed
// 24 hour increments, so centers stay on the hour across DST changes.
func dayCenters(from, to int64, hour int, loc *time.Location, inclusive bool) []int64 {
	start := time.Unix(from, 0).In(loc)
	last := DayCenter(to, hour, loc)

	var out []int64
	for k := 0; ; k++ {
		c := time.Date(start.Year(), start.Month(), start.Day()+k, hour, 0, 0, 0, loc).Unix()
		if c > last || (!inclusive && c == last) {
			return out
		}
		out = append(out, c)
	}
}

// pick returns, per center, the closest timestamp within window seconds.
func pick(ts, centers []int64, window int64) []int64 {
	var out []int64
	for _, c := range centers {
		if i, ok := closest(ts, c, window); ok {
			out = append(out, ts[i])
		}
	}
	return out
}

// closest returns the index of the timestamp nearest to center within
// [center-window, center+window]. Ties go to the earliest index.
func closest(ts []int64, center, window int64) (int, bool) {
	lo := sort.Search(len(ts), func(i int) bool { return ts[i] >= center-window })

	best := -1
	for i := lo; i < len(ts) && ts[i] <= center+window; i++ {
		if best < 0 || abs(ts[i]-center) < abs(ts[best]-center) {
			best = i
		}
	}
	return best, best >= 0
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
