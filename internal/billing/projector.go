// Package billing projects the calendar days on which a subscription bills.
//
// A subscription bills on the day-of-month of its start date. Months that do
// not contain that day (the 31st in April, Feb 29 in a common year) are
// skipped, never shifted to month end. Every function here is pure and total:
// a period in which a subscription cannot bill simply yields no occurrence.
package billing

import (
	"fmt"
	"time"

	"finance-tracker/internal/models"
)

// maxLookaheadMonths bounds the forward search in NextOccurrenceFrom. Feb 29
// recurs at most eight years apart (across a skipped century leap year).
const maxLookaheadMonths = 12 * 9

// Schedule decides whether a subscription bills inside a given month.
type Schedule interface {
	// OccurrenceInMonth returns the billing day inside m, if there is one.
	// start is already truncated to a calendar day.
	OccurrenceInMonth(start time.Time, m models.Month) (time.Time, bool)
}

// MonthlySchedule bills every month on the start date's day-of-month.
type MonthlySchedule struct{}

func (MonthlySchedule) OccurrenceInMonth(start time.Time, m models.Month) (time.Time, bool) {
	return dayInMonth(start, m)
}

// AnnualSchedule bills once a year in the start date's month.
type AnnualSchedule struct{}

func (AnnualSchedule) OccurrenceInMonth(start time.Time, m models.Month) (time.Time, bool) {
	if m.Month != start.Month() || m.Year < start.Year() {
		return time.Time{}, false
	}
	return dayInMonth(start, m)
}

var schedules = map[models.Recurrence]Schedule{
	models.RecurrenceMonthly:  MonthlySchedule{},
	models.RecurrenceAnnually: AnnualSchedule{},
}

// ScheduleFor returns the schedule for a recurrence.
func ScheduleFor(recurrence models.Recurrence) (Schedule, error) {
	schedule, ok := schedules[recurrence]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence: %s", recurrence)
	}
	return schedule, nil
}

// dayInMonth places start's day-of-month inside m. It fails when the
// subscription has not started by the end of m or when m is too short.
func dayInMonth(start time.Time, m models.Month) (time.Time, bool) {
	if start.After(m.LastDay()) {
		return time.Time{}, false
	}
	if start.Day() > m.Days() {
		return time.Time{}, false
	}
	return time.Date(m.Year, m.Month, start.Day(), 0, 0, 0, 0, time.UTC), true
}

// OccurrenceInMonth returns the day a subscription bills in year/month.
// Unknown recurrences never bill.
func OccurrenceInMonth(startDate time.Time, recurrence models.Recurrence, year int, month time.Month) (time.Time, bool) {
	schedule, err := ScheduleFor(recurrence)
	if err != nil {
		return time.Time{}, false
	}
	return schedule.OccurrenceInMonth(models.DateOnly(startDate), models.Month{Year: year, Month: month})
}

// OccurrencesInYear returns the billing days of a subscription in year in
// chronological order. The result is never nil.
func OccurrencesInYear(startDate time.Time, recurrence models.Recurrence, year int) []time.Time {
	occurrences := make([]time.Time, 0, 12)

	schedule, err := ScheduleFor(recurrence)
	if err != nil {
		return occurrences
	}

	start := models.DateOnly(startDate)
	for month := time.January; month <= time.December; month++ {
		if day, ok := schedule.OccurrenceInMonth(start, models.Month{Year: year, Month: month}); ok {
			occurrences = append(occurrences, day)
		}
	}
	return occurrences
}

// NextOccurrenceFrom returns the first billing day whose midnight (UTC) is not
// before the ref instant, never earlier than the start date. A billing day
// whose midnight has already passed on ref's own day rolls forward. Unknown
// recurrences return the start date.
func NextOccurrenceFrom(startDate time.Time, recurrence models.Recurrence, ref time.Time) time.Time {
	start := models.DateOnly(startDate)

	schedule, err := ScheduleFor(recurrence)
	if err != nil {
		return start
	}

	from := ref.UTC()
	if start.After(from) {
		from = start
	}

	m := models.MonthOf(from)
	for i := 0; i < maxLookaheadMonths; i++ {
		if day, ok := schedule.OccurrenceInMonth(start, m); ok && !day.Before(from) {
			return day
		}
		m = m.Next()
	}

	return start
}
