package dto

import (
	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// DashboardResponse is the monthly spending summary. Amounts are decimal strings.
type DashboardResponse struct {
	Month           string                  `json:"month"`
	TotalExpenses   string                  `json:"totalExpenses"`
	TopCategories   []CategoryTotalResponse `json:"topCategories"`
	MonthComparison MonthComparisonResponse `json:"monthComparison"`
	Charts          DashboardChartsResponse `json:"charts"`
}

type CategoryTotalResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Icon       string    `json:"icon"`
	Total      string    `json:"total"`
	Percentage float64   `json:"percentage"`
}

type MonthComparisonResponse struct {
	CurrentMonth     string  `json:"currentMonth"`
	PreviousMonth    string  `json:"previousMonth"`
	PercentageChange float64 `json:"percentageChange"`
	Trend            string  `json:"trend"`
}

type DashboardChartsResponse struct {
	DailyExpenses   []DailyExpenseResponse   `json:"dailyExpenses"`
	WeekdayAverages []WeekdayAverageResponse `json:"weekdayAverages"`
}

type DailyExpenseResponse struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

type WeekdayAverageResponse struct {
	Day      string `json:"day"`
	DayIndex int    `json:"dayIndex"`
	Average  string `json:"average"`
}

func NewDashboardResponse(d models.Dashboard) DashboardResponse {
	categories := make([]CategoryTotalResponse, 0, len(d.TopCategories))
	for _, c := range d.TopCategories {
		categories = append(categories, CategoryTotalResponse{
			ID:         c.CategoryID,
			Name:       c.Name,
			Color:      c.Color,
			Icon:       c.Icon,
			Total:      c.Total.StringFixed(2),
			Percentage: c.Percentage,
		})
	}

	daily := make([]DailyExpenseResponse, 0, len(d.DailyExpenses))
	for _, day := range d.DailyExpenses {
		daily = append(daily, DailyExpenseResponse{
			Date:  models.FormatDate(day.Date),
			Total: day.Total.StringFixed(2),
		})
	}

	weekdays := make([]WeekdayAverageResponse, 0, len(d.WeekdayAverages))
	for _, w := range d.WeekdayAverages {
		weekdays = append(weekdays, WeekdayAverageResponse{
			Day:      w.Weekday.String(),
			DayIndex: int(w.Weekday),
			Average:  w.Average.StringFixed(2),
		})
	}

	return DashboardResponse{
		Month:         d.Month.String(),
		TotalExpenses: d.TotalExpenses.String(),
		TopCategories: categories,
		MonthComparison: MonthComparisonResponse{
			CurrentMonth:     d.Comparison.CurrentMonth.String(),
			PreviousMonth:    d.Comparison.PreviousMonth.String(),
			PercentageChange: d.Comparison.PercentageChange,
			Trend:            string(d.Comparison.Trend),
		},
		Charts: DashboardChartsResponse{
			DailyExpenses:   daily,
			WeekdayAverages: weekdays,
		},
	}
}
