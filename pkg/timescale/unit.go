package timescale

import "time"

// Unit is a header granularity, from finest (Seconds) to coarsest (Years).
type Unit int

// Header units in coarsening order.
const (
	Seconds Unit = iota
	Minutes
	Hours
	Days
	Months
	Years
)

// String returns the lowercase unit name.
func (u Unit) String() string {
	switch u {
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	case Days:
		return "days"
	case Months:
		return "months"
	case Years:
		return "years"
	default:
		return "unknown"
	}
}

// labelPadding is the fixed horizontal padding added around a header label
// when deciding whether the label fits in one unit's pixel span.
const labelPadding = 10.0

// sampleLabel returns the widest label the unit can render, used for
// fit measurement. Digits only: proportional fonts render digits at
// near-identical widths, so any digit string of the right length works.
func sampleLabel(u Unit) string {
	switch u {
	case Seconds:
		return "00:00:00"
	case Minutes, Hours:
		return "00:00"
	case Days:
		return "0000-00-00"
	case Months:
		return "0000-00"
	default:
		return "0000"
	}
}

// factor returns the multiplier converting the previous unit's span into
// this unit's span. Months are approximated as 30 days; the approximation
// is confined to unit selection and never used for tick boundaries.
func factor(u Unit) float64 {
	switch u {
	case Seconds:
		return 1
	case Minutes, Hours:
		return 60
	case Days:
		return 24
	case Months:
		return 30
	case Years:
		return 12
	default:
		return 1
	}
}

// DefaultFormat returns the time layout used for header labels at the
// given unit when no per-unit format is configured. Formatting is always
// UTC-normalized.
func DefaultFormat(u Unit) string {
	switch u {
	case Seconds:
		return "15:04:05"
	case Minutes, Hours:
		return "15:04"
	case Days:
		return "2006-01-02"
	case Months:
		return "2006-01"
	default:
		return "2006"
	}
}

// SelectUnit picks the finest unit whose rendered label fits within the
// pixel span that one unit occupies at the given viewport. measure returns
// the pixel width of a label string at the header font.
//
// The walk starts at seconds and coarsens until a unit fits; if none fits
// the coarsest unit (years) is returned. A zero or negative pixel width
// means the surface has not been laid out yet, so the walk short-circuits
// to years to avoid dividing by zero for no benefit.
func SelectUnit(pixelWidth float64, duration time.Duration, measure func(string) float64) Unit {
	if pixelWidth <= 0 || duration <= 0 {
		return Years
	}

	pixelsPerUnit := pixelWidth / duration.Seconds()
	for u := Seconds; u <= Years; u++ {
		pixelsPerUnit *= factor(u)
		if pixelsPerUnit >= measure(sampleLabel(u))+labelPadding {
			return u
		}
	}
	return Years
}
