package wealth

import (
	"github.com/etnz/wealth/date"
)

// HistoricalDataPoint is the net worth recorded for a month.
type HistoricalDataPoint struct {
	Date          string `json:"date"` // month key, YYYY-MM
	TotalValueHKD int64  `json:"totalValueHKD"`
}

// History is the net worth series, at most one point per month, in
// insertion order.
type History []HistoricalDataPoint

// PeriodKey returns the history key of the month containing d.
func PeriodKey(d date.Date) string { return d.MonthKey() }

// RecordSnapshot returns a new history where the point for periodKey holds
// total: the existing point is updated in place, otherwise a point is
// appended. h is never modified.
func RecordSnapshot(h History, periodKey string, total int64) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	for i := range out {
		if out[i].Date == periodKey {
			out[i].TotalValueHKD = total
			return out
		}
	}
	return append(out, HistoricalDataPoint{Date: periodKey, TotalValueHKD: total})
}

// Get returns the value recorded for the month key.
func (h History) Get(key string) (int64, bool) {
	for _, p := range h {
		if p.Date == key {
			return p.TotalValueHKD, true
		}
	}
	return 0, false
}

// Latest returns the last point of the series.
func (h History) Latest() (HistoricalDataPoint, bool) {
	if len(h) == 0 {
		return HistoricalDataPoint{}, false
	}
	return h[len(h)-1], true
}

// Values returns the series values in order.
func (h History) Values() []float64 {
	out := make([]float64, len(h))
	for i, p := range h {
		out[i] = float64(p.TotalValueHKD)
	}
	return out
}

// Clone returns a copy of h.
func (h History) Clone() History {
	if h == nil {
		return History{}
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}
