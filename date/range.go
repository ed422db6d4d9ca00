package date

import (
	"fmt"
	"iter"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// MonthOf returns the calendar month that contains d.
func MonthOf(d Date) Range { return Range{From: d.StartOfMonth(), To: d.EndOfMonth()} }

// NextMonths returns the range covering n whole calendar months, starting with the month of d.
func NextMonths(d Date, n int) Range {
	if n <= 0 {
		return Range{From: d.StartOfMonth(), To: d.StartOfMonth().Add(-1)}
	}
	start := d.StartOfMonth()
	return Range{From: start, To: start.AddMonths(n - 1).EndOfMonth()}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// IsEmpty reports whether the range contains no day at all.
func (r Range) IsEmpty() bool { return r.To.Before(r.From) }

// IsMonth reports whether the range is exactly one calendar month.
func (r Range) IsMonth() bool { return r.From.Day() == 1 && r.From.EndOfMonth() == r.To }

// Identifier computes a unique identifier for the Range: the month key for
// a calendar month, "from_to" otherwise.
func (r Range) Identifier() string {
	if r.IsMonth() {
		return r.From.MonthKey()
	}
	return fmt.Sprintf("%s_%s", r.From, r.To)
}

// Months iterates over the calendar months overlapping r, in chronological order.
func (r Range) Months() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		if r.IsEmpty() {
			return
		}
		for m := MonthOf(r.From); !m.From.After(r.To); m = MonthOf(m.From.AddMonths(1)) {
			if !yield(m) {
				return
			}
		}
	}
}
