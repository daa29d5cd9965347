// Package dashboard turns a user's already-fetched expenses and subscriptions
// for a month into the dashboard summary. It performs no I/O.
package dashboard

import (
	"sort"
	"time"

	"finance-tracker/internal/billing"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultTopCategories = 5

var hundred = decimal.NewFromInt(100)

// Input holds the rows the aggregator works on. Expenses outside Month (or
// PreviousExpenses outside the month before it) are ignored.
type Input struct {
	Month            models.Month
	Expenses         []models.Expense
	PreviousExpenses []models.Expense
	Subscriptions    []models.Subscription
	Categories       []models.Category
	// TopN caps TopCategories; values below 1 use DefaultTopCategories.
	TopN int
}

type categoryInfo struct {
	name  string
	color string
	icon  string
}

// Aggregate builds the dashboard for in.Month. It never fails; empty input
// yields zero totals and empty, non-nil slices.
func Aggregate(in Input) models.Dashboard {
	topN := in.TopN
	if topN < 1 {
		topN = DefaultTopCategories
	}

	current := in.Month
	previous := current.Previous()

	expenses := expensesIn(in.Expenses, current)
	manualTotal := sumExpenses(expenses)
	subscriptionTotal, subscriptionByCategory := billedIn(in.Subscriptions, current)
	currentTotal := manualTotal.Add(subscriptionTotal)

	previousManual := sumExpenses(expensesIn(in.PreviousExpenses, previous))
	previousSubscriptions, _ := billedIn(in.Subscriptions, previous)
	previousTotal := previousManual.Add(previousSubscriptions)

	return models.Dashboard{
		Month:             current,
		TotalExpenses:     currentTotal,
		ManualTotal:       manualTotal,
		SubscriptionTotal: subscriptionTotal,
		TopCategories:     topCategories(in, expenses, subscriptionByCategory, currentTotal, topN),
		Comparison: models.MonthComparison{
			CurrentMonth:     currentTotal,
			PreviousMonth:    previousTotal,
			PercentageChange: PercentageChange(currentTotal, previousTotal),
			Trend:            TrendOf(currentTotal, previousTotal),
		},
		DailyExpenses:   dailyTotals(expenses),
		WeekdayAverages: weekdayAverages(expenses),
	}
}

// PercentageChange returns (current-previous)/previous*100 rounded to one
// decimal place, or 0 when previous is zero.
func PercentageChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	return percentOf(current.Sub(previous), previous)
}

// TrendOf compares the exact totals. Equal totals are the only unchanged case;
// growth from a zero previous month is up even though its percentage is 0.
func TrendOf(current, previous decimal.Decimal) models.Trend {
	switch current.Cmp(previous) {
	case 1:
		return models.TrendUp
	case -1:
		return models.TrendDown
	default:
		return models.TrendUnchanged
	}
}

// Share returns part/total*100 rounded to one decimal place, or 0 when total
// is zero.
func Share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return percentOf(part, total)
}

func percentOf(part, whole decimal.Decimal) float64 {
	return part.Div(whole).Mul(hundred).Round(1).InexactFloat64()
}

func expensesIn(expenses []models.Expense, m models.Month) []models.Expense {
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if m.Contains(models.DateOnly(e.Date)) {
			out = append(out, e)
		}
	}
	return out
}

func sumExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// billedIn sums the subscriptions that bill inside m, overall and per category.
func billedIn(subscriptions []models.Subscription, m models.Month) (decimal.Decimal, map[uuid.UUID]decimal.Decimal) {
	total := decimal.Zero
	byCategory := make(map[uuid.UUID]decimal.Decimal)
	for _, s := range subscriptions {
		if _, ok := billing.OccurrenceInMonth(s.StartDate, s.Recurrence, m.Year, m.Month); !ok {
			continue
		}
		total = total.Add(s.Amount)
		byCategory[s.CategoryID] = byCategory[s.CategoryID].Add(s.Amount)
	}
	return total, byCategory
}

func categoryLookup(in Input) map[uuid.UUID]categoryInfo {
	lookup := make(map[uuid.UUID]categoryInfo, len(in.Categories))
	remember := func(c models.Category) {
		if c.ID == uuid.Nil {
			return
		}
		if _, ok := lookup[c.ID]; !ok {
			lookup[c.ID] = categoryInfo{name: c.Name, color: c.Color, icon: c.Icon}
		}
	}
	for _, c := range in.Categories {
		remember(c)
	}
	for _, e := range in.Expenses {
		remember(e.Category)
	}
	for _, s := range in.Subscriptions {
		remember(s.Category)
	}
	return lookup
}

func topCategories(in Input, expenses []models.Expense, subscriptionByCategory map[uuid.UUID]decimal.Decimal, currentTotal decimal.Decimal, topN int) []models.CategoryTotal {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range expenses {
		totals[e.CategoryID] = totals[e.CategoryID].Add(e.Amount)
	}
	for id, amount := range subscriptionByCategory {
		totals[id] = totals[id].Add(amount)
	}

	lookup := categoryLookup(in)
	result := make([]models.CategoryTotal, 0, len(totals))
	for id, total := range totals {
		info := lookup[id]
		result = append(result, models.CategoryTotal{
			CategoryID: id,
			Name:       info.name,
			Color:      info.color,
			Icon:       info.icon,
			Total:      total,
			Percentage: Share(total, currentTotal),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Total.Cmp(result[j].Total); c != 0 {
			return c > 0
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].CategoryID.String() < result[j].CategoryID.String()
	})

	if len(result) > topN {
		result = result[:topN]
	}
	return result
}

func dailyTotals(expenses []models.Expense) []models.DailyTotal {
	byDay := make(map[time.Time]decimal.Decimal)
	for _, e := range expenses {
		d := models.DateOnly(e.Date)
		byDay[d] = byDay[d].Add(e.Amount)
	}

	result := make([]models.DailyTotal, 0, len(byDay))
	for d, total := range byDay {
		result = append(result, models.DailyTotal{Date: d, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// weekdayAverages divides each weekday's spend by the number of distinct days
// with expenses on that weekday, not by the weekday's count in the month.
func weekdayAverages(expenses []models.Expense) []models.WeekdayAverage {
	var sums [7]decimal.Decimal
	var days [7]map[time.Time]struct{}

	for _, e := range expenses {
		d := models.DateOnly(e.Date)
		wd := d.Weekday()
		sums[wd] = sums[wd].Add(e.Amount)
		if days[wd] == nil {
			days[wd] = make(map[time.Time]struct{})
		}
		days[wd][d] = struct{}{}
	}

	result := make([]models.WeekdayAverage, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if len(days[wd]) == 0 {
			continue
		}
		result = append(result, models.WeekdayAverage{
			Weekday: wd,
			Average: sums[wd].Div(decimal.NewFromInt(int64(len(days[wd])))).Round(2),
		})
	}
	return result
}
