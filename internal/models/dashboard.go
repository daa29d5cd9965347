package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dashboard is the monthly spending summary of one user.
type Dashboard struct {
	Month             Month
	TotalExpenses     decimal.Decimal
	ManualTotal       decimal.Decimal
	SubscriptionTotal decimal.Decimal
	TopCategories     []CategoryTotal
	Comparison        MonthComparison
	DailyExpenses     []DailyTotal
	WeekdayAverages   []WeekdayAverage
}

// CategoryTotal is the spend of one category, manual and subscription combined.
type CategoryTotal struct {
	CategoryID uuid.UUID
	Name       string
	Color      string
	Icon       string
	Total      decimal.Decimal
	Percentage float64
}

// Trend is the exact direction of the month-over-month change. It is taken
// from the unrounded totals, so a change that rounds to 0.0% is still up or down.
type Trend string

const (
	TrendUp        Trend = "up"
	TrendDown      Trend = "down"
	TrendUnchanged Trend = "unchanged"
)

type MonthComparison struct {
	CurrentMonth     decimal.Decimal
	PreviousMonth    decimal.Decimal
	PercentageChange float64
	Trend            Trend
}

type DailyTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

// WeekdayAverage is the mean spend over the observed days with expenses that
// fall on Weekday.
type WeekdayAverage struct {
	Weekday time.Weekday
	Average decimal.Decimal
}
