// Package export filters NAV records by date and writes them to flat files.
package export

import (
	"iter"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nav-cli/internal/model"
)

// DefaultMinDate is the floor applied when no lower bound is given.
var DefaultMinDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Min time.Time
	Max time.Time
}

// NewRange resolves optional bounds: a nil min falls back to floor, a nil max
// to the calendar day of now.
func NewRange(minDate, maxDate *time.Time, floor, now time.Time) (DateRange, error) {
	r := DateRange{Min: model.CivilDate(floor), Max: model.CivilDate(now)}
	if minDate != nil {
		r.Min = model.CivilDate(*minDate)
	}
	if maxDate != nil {
		r.Max = model.CivilDate(*maxDate)
	}
	if r.Min.After(r.Max) {
		return DateRange{}, eris.Errorf("min date %s is after max date %s",
			r.Min.Format(model.ISODateLayout), r.Max.Format(model.ISODateLayout))
	}
	return r, nil
}

// Contains reports whether d falls inside the range, both ends included.
func (r DateRange) Contains(d time.Time) bool {
	d = model.CivilDate(d)
	return !d.Before(r.Min) && !d.After(r.Max)
}

// FilterByDate lazily yields the records whose date is inside r, in input order.
func FilterByDate(navs []model.NAV, r DateRange) iter.Seq[model.NAV] {
	return func(yield func(model.NAV) bool) {
		for _, n := range navs {
			if !r.Contains(n.Date()) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}
