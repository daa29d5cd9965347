package services

import (
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinGeneratedExpenses = 1
	MaxGeneratedExpenses = 500
)

// spendProfile is the price range and note pool used for one default category.
type spendProfile struct {
	minAmount float64
	maxAmount float64
	notes     []string
}

var spendProfiles = map[string]spendProfile{
	"food & dining":  {4, 85, []string{"Lunch", "Groceries", "Coffee", "Dinner out", "Takeaway"}},
	"transportation": {2.5, 60, []string{"Fuel", "Bus ticket", "Taxi", "Parking", "Train fare"}},
	"housing":        {40, 900, []string{"Rent share", "Repairs", "Furniture", "Cleaning supplies"}},
	"utilities":      {15, 160, []string{"Electricity", "Water bill", "Internet", "Phone bill"}},
	"shopping":       {8, 250, []string{"Clothes", "Electronics", "Books", "Household items"}},
	"entertainment":  {5, 120, []string{"Cinema", "Concert", "Games", "Streaming rental"}},
	"healthcare":     {10, 300, []string{"Pharmacy", "Doctor visit", "Dentist", "Vitamins"}},
	"education":      {10, 400, []string{"Course", "Textbooks", "Workshop", "Stationery"}},
	"travel":         {30, 800, []string{"Hotel", "Flight", "Museum tickets", "Souvenirs"}},
}

var fallbackProfile = spendProfile{minAmount: 3, maxAmount: 150}

type expenseGenerator struct {
	faker *gofakeit.Faker
}

// NewExpenseGenerator returns a demo data generator. A zero seed draws a
// random one.
func NewExpenseGenerator(seed uint64) ExpenseGeneratorInterface {
	return &expenseGenerator{faker: gofakeit.New(seed)}
}

// GenerateExpenses returns count expenses spread over categories and dated
// inside month. It returns nil when there are no categories to spend in.
func (g *expenseGenerator) GenerateExpenses(userID uuid.UUID, categories []models.Category, month models.Month, count int) []models.Expense {
	if len(categories) == 0 || count < 1 {
		return nil
	}

	expenses := make([]models.Expense, 0, count)
	for i := 0; i < count; i++ {
		category := categories[g.faker.IntN(len(categories))]
		note := g.GenerateNote(category.Name)
		expenses = append(expenses, models.Expense{
			ID:         uuid.New(),
			UserID:     userID,
			CategoryID: category.ID,
			Amount:     g.GenerateAmount(category.Name),
			Date:       g.GenerateDate(month),
			Note:       &note,
		})
	}
	return expenses
}

// GenerateAmount draws a two-decimal amount in the category's price range.
func (g *expenseGenerator) GenerateAmount(categoryName string) decimal.Decimal {
	profile := profileFor(categoryName)
	amount := decimal.NewFromFloat(g.faker.Float64Range(profile.minAmount, profile.maxAmount)).Round(2)
	if !amount.IsPositive() {
		return decimal.NewFromFloat(profile.minAmount).Round(2)
	}
	return amount
}

func (g *expenseGenerator) GenerateNote(categoryName string) string {
	profile := profileFor(categoryName)
	if len(profile.notes) == 0 {
		return g.faker.ProductName()
	}
	return g.faker.RandomString(profile.notes) + " at " + g.faker.Company()
}

// GenerateDate picks a calendar day inside month.
func (g *expenseGenerator) GenerateDate(month models.Month) time.Time {
	day := g.faker.Number(1, month.Days())
	return time.Date(month.Year, month.Month, day, 0, 0, 0, 0, time.UTC)
}

func profileFor(categoryName string) spendProfile {
	if profile, ok := spendProfiles[strings.ToLower(categoryName)]; ok {
		return profile
	}
	return fallbackProfile
}
