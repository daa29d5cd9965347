package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportRowType tells manual expenses and subscription charges apart in exports.
type ExportRowType string

const (
	ExportRowManual       ExportRowType = "Manual Expense"
	ExportRowSubscription ExportRowType = "Subscription"
)

// ExportRow is one dated charge in a monthly export.
type ExportRow struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
	Note     string
	Type     ExportRowType
}

// MonthlyExport holds every charge of a month, oldest first.
type MonthlyExport struct {
	Month             Month
	Rows              []ExportRow
	ManualTotal       decimal.Decimal
	SubscriptionTotal decimal.Decimal
}

func (e *MonthlyExport) Total() decimal.Decimal {
	return e.ManualTotal.Add(e.SubscriptionTotal)
}
