// Package pack implements interval row packing for timeline lines.
//
// A task line may own items whose time spans overlap. Overlapping items
// cannot share a horizontal band, so the line splits into sub-rows. Pack
// distributes items over the minimum number of sub-rows using greedy
// first-fit assignment, which is optimal for interval graphs: the number
// of rows produced equals the maximum number of items alive at any single
// instant.
//
// Row assignment depends only on item spans, never on the visible
// viewport, so packing is recomputed on structural change and reused
// across paints.
package pack

import "time"

// Spanner is any value occupying a half-open time span [start, end).
type Spanner interface {
	Span() (start, end time.Time)
}

// Overlaps reports whether two half-open spans intersect.
// Touching endpoints (aEnd == bStart) do not overlap; this boundary
// semantic is a contract relied upon by row packing and hit testing.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Rows partitions items into sub-rows such that no two items in the same
// row overlap. Items are scanned in container order; each is assigned to
// the first row whose members all clear it, else a new row is opened.
// Rows are ordered top to bottom; items keep their relative order within
// a row. An empty input produces no rows.
func Rows[T Spanner](items []T) [][]T {
	var rows [][]T

	for _, item := range items {
		start, end := item.Span()

		placed := false
		for i, row := range rows {
			if rowAccepts(row, start, end) {
				rows[i] = append(rows[i], item)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []T{item})
		}
	}

	return rows
}

// Count returns the number of rendering rows for a packed line.
// A line always renders at least one row, even with no items, so the
// label cell stays visible.
func Count[T Spanner](rows [][]T) int {
	if len(rows) == 0 {
		return 1
	}
	return len(rows)
}

func rowAccepts[T Spanner](row []T, start, end time.Time) bool {
	for _, member := range row {
		ms, me := member.Span()
		if Overlaps(ms, me, start, end) {
			return false
		}
	}
	return true
}
