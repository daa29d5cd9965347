package billing

import (
	"testing"
	"time"

	"finance-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrenceInMonth(t *testing.T) {
	tests := []struct {
		name       string
		start      time.Time
		recurrence models.Recurrence
		year       int
		month      time.Month
		want       time.Time
		ok         bool
	}{
		{
			name:       "monthly bills on start day",
			start:      day(2024, 1, 15),
			recurrence: models.RecurrenceMonthly,
			year:       2024, month: time.March,
			want: day(2024, 3, 15), ok: true,
		},
		{
			name:       "monthly day 31 skips April",
			start:      day(2024, 1, 31),
			recurrence: models.RecurrenceMonthly,
			year:       2024, month: time.April,
		},
		{
			name:       "monthly day 30 skips February",
			start:      day(2023, 11, 30),
			recurrence: models.RecurrenceMonthly,
			year:       2024, month: time.February,
		},
		{
			name:       "monthly day 29 bills in leap February",
			start:      day(2023, 11, 29),
			recurrence: models.RecurrenceMonthly,
			year:       2024, month: time.February,
			want: day(2024, 2, 29), ok: true,
		},
		{
			name:       "not started yet",
			start:      day(2024, 5, 1),
			recurrence: models.RecurrenceMonthly,
			year:       2024, month: time.April,
		},
		{
			name:       "starts later in the queried month",
			start:      day(2024, 4, 20),
			recurrence: models.RecurrenceMonthly,
			year:       2024, month: time.April,
			want: day(2024, 4, 20), ok: true,
		},
		{
			name:       "annual bills in start month of a later year",
			start:      day(2023, 3, 15),
			recurrence: models.RecurrenceAnnually,
			year:       2024, month: time.March,
			want: day(2024, 3, 15), ok: true,
		},
		{
			name:       "annual does not bill in other months",
			start:      day(2023, 3, 15),
			recurrence: models.RecurrenceAnnually,
			year:       2024, month: time.April,
		},
		{
			name:       "annual does not bill before start year",
			start:      day(2023, 3, 15),
			recurrence: models.RecurrenceAnnually,
			year:       2022, month: time.March,
		},
		{
			name:       "annual leap day skipped in common year",
			start:      day(2024, 2, 29),
			recurrence: models.RecurrenceAnnually,
			year:       2025, month: time.February,
		},
		{
			name:       "annual leap day bills in next leap year",
			start:      day(2024, 2, 29),
			recurrence: models.RecurrenceAnnually,
			year:       2028, month: time.February,
			want: day(2028, 2, 29), ok: true,
		},
		{
			name:       "unknown recurrence never bills",
			start:      day(2024, 1, 1),
			recurrence: models.Recurrence("WEEKLY"),
			year:       2024, month: time.January,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OccurrenceInMonth(tt.start, tt.recurrence, tt.year, tt.month)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.True(t, got.IsZero())
			}
		})
	}
}

func TestOccurrenceInMonth_IgnoresTimeOfDayAndZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, tokyo)

	got, ok := OccurrenceInMonth(start, models.RecurrenceMonthly, 2024, time.May)
	require.True(t, ok)
	assert.Equal(t, day(2024, 5, 15), got)
}

func TestNextOccurrenceFrom(t *testing.T) {
	tests := []struct {
		name       string
		start      time.Time
		recurrence models.Recurrence
		ref        time.Time
		want       time.Time
	}{
		{
			name:       "monthly day already passed this month",
			start:      day(2023, 6, 15),
			recurrence: models.RecurrenceMonthly,
			ref:        time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
			want:       day(2024, 4, 15),
		},
		{
			name:       "monthly billing day earlier today rolls forward",
			start:      day(2023, 6, 15),
			recurrence: models.RecurrenceMonthly,
			ref:        time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			want:       day(2024, 4, 15),
		},
		{
			name:       "monthly ref exactly at midnight of billing day",
			start:      day(2023, 6, 15),
			recurrence: models.RecurrenceMonthly,
			ref:        day(2024, 3, 15),
			want:       day(2024, 3, 15),
		},
		{
			name:       "annual billing day earlier today rolls forward",
			start:      day(2023, 3, 15),
			recurrence: models.RecurrenceAnnually,
			ref:        time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			want:       day(2025, 3, 15),
		},
		{
			name:       "monthly subscription started today bills next month",
			start:      day(2024, 3, 15),
			recurrence: models.RecurrenceMonthly,
			ref:        time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
			want:       day(2024, 4, 15),
		},
		{
			name:       "monthly later this month",
			start:      day(2023, 6, 15),
			recurrence: models.RecurrenceMonthly,
			ref:        day(2024, 3, 10),
			want:       day(2024, 3, 15),
		},
		{
			name:       "monthly day 31 skips short months",
			start:      day(2024, 1, 31),
			recurrence: models.RecurrenceMonthly,
			ref:        day(2024, 4, 5),
			want:       day(2024, 5, 31),
		},
		{
			name:       "monthly rolls into next year",
			start:      day(2023, 1, 20),
			recurrence: models.RecurrenceMonthly,
			ref:        day(2024, 12, 21),
			want:       day(2025, 1, 20),
		},
		{
			name:       "monthly future start",
			start:      day(2025, 6, 10),
			recurrence: models.RecurrenceMonthly,
			ref:        day(2024, 1, 1),
			want:       day(2025, 6, 10),
		},
		{
			name:       "annual later this year",
			start:      day(2023, 3, 15),
			recurrence: models.RecurrenceAnnually,
			ref:        day(2024, 1, 1),
			want:       day(2024, 3, 15),
		},
		{
			name:       "annual already passed this year",
			start:      day(2023, 3, 15),
			recurrence: models.RecurrenceAnnually,
			ref:        day(2024, 3, 20),
			want:       day(2025, 3, 15),
		},
		{
			name:       "annual never before a future start year",
			start:      day(2026, 1, 5),
			recurrence: models.RecurrenceAnnually,
			ref:        day(2024, 6, 1),
			want:       day(2026, 1, 5),
		},
		{
			name:       "annual leap day waits for a leap year",
			start:      day(2024, 2, 29),
			recurrence: models.RecurrenceAnnually,
			ref:        day(2024, 3, 1),
			want:       day(2028, 2, 29),
		},
		{
			name:       "reference instant read in UTC",
			start:      day(2023, 6, 15),
			recurrence: models.RecurrenceMonthly,
			ref:        time.Date(2024, 3, 15, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
			want:       day(2024, 3, 15),
		},
		{
			name:       "unknown recurrence returns start",
			start:      day(2024, 2, 3),
			recurrence: models.Recurrence(""),
			ref:        day(2024, 6, 1),
			want:       day(2024, 2, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrenceFrom(tt.start, tt.recurrence, tt.ref)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Before(models.DateOnly(tt.start)))
		})
	}
}

func TestOccurrencesInYear(t *testing.T) {
	t.Run("monthly day 31 only in long months", func(t *testing.T) {
		got := OccurrencesInYear(day(2024, 1, 31), models.RecurrenceMonthly, 2024)
		assert.Equal(t, []time.Time{
			day(2024, 1, 31), day(2024, 3, 31), day(2024, 5, 31), day(2024, 7, 31),
			day(2024, 8, 31), day(2024, 10, 31), day(2024, 12, 31),
		}, got)
	})

	t.Run("monthly starting mid year", func(t *testing.T) {
		got := OccurrencesInYear(day(2024, 6, 15), models.RecurrenceMonthly, 2024)
		require.Len(t, got, 7)
		assert.Equal(t, day(2024, 6, 15), got[0])
		assert.Equal(t, day(2024, 12, 15), got[6])
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i].After(got[i-1]))
		}
	})

	t.Run("annual yields one date", func(t *testing.T) {
		got := OccurrencesInYear(day(2020, 9, 1), models.RecurrenceAnnually, 2024)
		assert.Equal(t, []time.Time{day(2024, 9, 1)}, got)
	})

	t.Run("before start is empty not nil", func(t *testing.T) {
		got := OccurrencesInYear(day(2025, 1, 1), models.RecurrenceMonthly, 2024)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("calls are independent", func(t *testing.T) {
		first := OccurrencesInYear(day(2024, 1, 10), models.RecurrenceMonthly, 2024)
		first[0] = time.Time{}
		second := OccurrencesInYear(day(2024, 1, 10), models.RecurrenceMonthly, 2024)
		assert.Equal(t, day(2024, 1, 10), second[0])
	})
}

func TestScheduleFor(t *testing.T) {
	s, err := ScheduleFor(models.RecurrenceMonthly)
	require.NoError(t, err)
	assert.IsType(t, MonthlySchedule{}, s)

	s, err = ScheduleFor(models.RecurrenceAnnually)
	require.NoError(t, err)
	assert.IsType(t, AnnualSchedule{}, s)

	_, err = ScheduleFor("DAILY")
	assert.Error(t, err)
}
