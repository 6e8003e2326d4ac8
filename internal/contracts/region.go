package contracts

import "time"

type boundKind int

const (
	boundInvalid boundKind = iota
	boundAbsolute
	boundRelativeDays
)

// Bound is one edge of a Region: either an absolute timestamp or a relative
// day offset resolved against the latest timestamp of the history it is
// applied to. The zero value is invalid on purpose so a forgotten bound
// fails fast instead of silently selecting everything.
type Bound struct {
	kind boundKind
	at   time.Time
	days int
}

// AbsoluteBound builds a bound at a fixed timestamp.
func AbsoluteBound(t time.Time) Bound {
	return Bound{kind: boundAbsolute, at: t}
}

// RelativeBound builds a bound at "days full days before the most recent
// recorded sale".
func RelativeBound(days int) Bound {
	return Bound{kind: boundRelativeDays, days: days}
}

// Resolve turns the bound into an absolute timestamp. Relative bounds take
// the day floor of latest and subtract the offset, matching how the pulled
// history timestamps themselves are day-resolved.
func (b Bound) Resolve(latest time.Time) (time.Time, error) {
	switch b.kind {
	case boundAbsolute:
		return b.at, nil
	case boundRelativeDays:
		return DayFloor(latest).AddDate(0, 0, -b.days), nil
	default:
		return time.Time{}, ErrInvalidBound
	}
}

// DayFloor truncates a timestamp to midnight of its day.
func DayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Region is a closed time interval used both for trailing strategy windows
// and for backtest evaluation regions.
type Region struct {
	Start Bound
	End   Bound
}

// RelativeRegion is shorthand for a region given in day offsets, e.g.
// RelativeRegion(15, 0) covers the trailing 15 days.
func RelativeRegion(startDaysAgo, endDaysAgo int) Region {
	return Region{Start: RelativeBound(startDaysAgo), End: RelativeBound(endDaysAgo)}
}

// AbsoluteRegion is shorthand for a region between two fixed timestamps.
func AbsoluteRegion(start, end time.Time) Region {
	return Region{Start: AbsoluteBound(start), End: AbsoluteBound(end)}
}

// Resolve resolves both bounds against latest and normalizes them so that
// the returned low never exceeds the returned high.
func (r Region) Resolve(latest time.Time) (lo, hi time.Time, err error) {
	lo, err = r.Start.Resolve(latest)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	hi, err = r.End.Resolve(latest)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// Validate reports whether both bounds are well formed.
func (r Region) Validate() error {
	if r.Start.kind == boundInvalid || r.End.kind == boundInvalid {
		return ErrInvalidBound
	}
	return nil
}
