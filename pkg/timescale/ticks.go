package timescale

import "time"

// Tick is one header cell: a half-open span [Start, End) at the chosen unit.
type Tick struct {
	Start time.Time
	End   time.Time
}

// Truncate snaps t backward to the enclosing unit boundary in UTC.
// Days and finer truncate uniformly; months and years are not uniform
// durations, so they snap to the calendar month/year start.
func Truncate(u Unit, t time.Time) time.Time {
	t = t.UTC()
	switch u {
	case Seconds:
		return t.Truncate(time.Second)
	case Minutes:
		return t.Truncate(time.Minute)
	case Hours:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case Days:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Months:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the tick following the one starting at t.
// Calendar arithmetic keeps month and year ticks exact regardless of
// month length and leap years.
func Next(u Unit, t time.Time) time.Time {
	switch u {
	case Seconds:
		return t.Add(time.Second)
	case Minutes:
		return t.Add(time.Minute)
	case Hours:
		return t.Add(time.Hour)
	case Days:
		return t.AddDate(0, 0, 1)
	case Months:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// TicksBetween returns the header ticks covering [viewStart, viewEnd).
// The first tick is snapped backward to the unit boundary, so it may begin
// before viewStart; the last tick may likewise end past viewEnd. Callers
// clip when drawing.
func TicksBetween(u Unit, viewStart, viewEnd time.Time) []Tick {
	if !viewStart.Before(viewEnd) {
		return nil
	}

	var ticks []Tick
	for start := Truncate(u, viewStart); start.Before(viewEnd); {
		end := Next(u, start)
		ticks = append(ticks, Tick{Start: start, End: end})
		start = end
	}
	return ticks
}
