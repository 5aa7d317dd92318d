package repository

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FilterKind is the closed set of filter shapes the listing endpoints accept.
type FilterKind int

const (
	FilterExact FilterKind = iota
	FilterPartial
	FilterDateRange  // "start,end" dates, expanded to start-of-day..end-of-day
	FilterWeekRange  // any date inside the week, expanded to Monday..Sunday
	FilterMonthRange // "2006-01", expanded to first..last day of the month
)

// Filter is one predicate against a listing query. Range kinds always apply
// to the created_at column.
type Filter struct {
	Kind   FilterKind
	Column string
	Value  string
}

func Exact(column, value string) Filter   { return Filter{Kind: FilterExact, Column: column, Value: value} }
func Partial(column, value string) Filter { return Filter{Kind: FilterPartial, Column: column, Value: value} }
func DateRange(value string) Filter       { return Filter{Kind: FilterDateRange, Column: "created_at", Value: value} }
func WeekRange(value string) Filter       { return Filter{Kind: FilterWeekRange, Column: "created_at", Value: value} }
func MonthRange(value string) Filter      { return Filter{Kind: FilterMonthRange, Column: "created_at", Value: value} }

const dateLayout = "2006-01-02"
const monthLayout = "2006-01"

// applyFilters narrows q by each filter in turn. Filters with empty values
// are ignored; malformed range values are logged and skipped so the request
// proceeds unfiltered (best-effort semantics).
func applyFilters(q *gorm.DB, log *logrus.Logger, filters []Filter) *gorm.DB {
	for _, f := range filters {
		if f.Value == "" {
			continue
		}
		switch f.Kind {
		case FilterExact:
			q = q.Where(f.Column+" = ?", f.Value)
		case FilterPartial:
			q = q.Where(f.Column+" LIKE ?", "%"+f.Value+"%")
		case FilterDateRange:
			start, end, ok := dateRangeBounds(f.Value)
			if !ok {
				log.WithField("date", f.Value).Warn("invalid date range filter, skipping")
				continue
			}
			q = q.Where(f.Column+" BETWEEN ? AND ?", start, end)
		case FilterWeekRange:
			start, end, ok := weekBounds(f.Value)
			if !ok {
				log.WithField("week", f.Value).Warn("invalid week filter, skipping")
				continue
			}
			q = q.Where(f.Column+" BETWEEN ? AND ?", start, end)
		case FilterMonthRange:
			start, end, ok := monthBounds(f.Value)
			if !ok {
				log.WithField("month", f.Value).Warn("invalid month filter, skipping")
				continue
			}
			q = q.Where(f.Column+" BETWEEN ? AND ?", start, end)
		}
	}
	return q
}

// dateRangeBounds parses "start,end" into inclusive day boundaries.
func dateRangeBounds(value string) (time.Time, time.Time, bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(parts[0]), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(parts[1]), time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return startOfDay(start), endOfDay(end), true
}

// weekBounds expands any date to its Monday..Sunday week.
func weekBounds(value string) (time.Time, time.Time, bool) {
	date, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	monday := date.AddDate(0, 0, -(weekday - 1))
	return startOfDay(monday), endOfDay(monday.AddDate(0, 0, 6)), true
}

// monthBounds expands "2006-01" to the first..last day of that month.
func monthBounds(value string) (time.Time, time.Time, bool) {
	date, err := time.ParseInLocation(monthLayout, value, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	return first, endOfDay(last), true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
