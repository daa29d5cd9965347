package repositories

import (
	"context"
	"testing"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestExpenseRepository(t *testing.T) {
	suite.Run(t, new(ExpenseRepositorySuite))
}

type ExpenseRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     ExpenseRepositoryInterface
	ctx      context.Context
	user     *models.User
	category *models.Category
}

func (s *ExpenseRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewExpenseRepository(s.db.DB)
	s.ctx = context.Background()
	s.user = database.CreateTestUser(s.T(), s.db, "spender@example.com")
	s.category = database.CreateTestCategory(s.T(), s.db, s.user.ID, "Food & Dining")
}

func (s *ExpenseRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *ExpenseRepositorySuite) month(value string) models.Month {
	m, err := models.ParseMonth(value)
	s.Require().NoError(err)
	return m
}

func (s *ExpenseRepositorySuite) TestCreate() {
	day, _ := models.ParseDate("2024-03-15")
	expense := &models.Expense{
		UserID:     s.user.ID,
		CategoryID: s.category.ID,
		Amount:     decimal.RequireFromString("12.34"),
		Date:       day,
		Note:       strPtr("Lunch"),
	}

	s.NoError(s.repo.Create(s.ctx, expense))
	s.NotEqual(uuid.Nil, expense.ID)

	found, err := s.repo.GetByID(s.ctx, s.user.ID, expense.ID)
	s.Require().NoError(err)
	s.True(found.Amount.Equal(decimal.RequireFromString("12.34")))
	s.Equal("2024-03-15", models.FormatDate(found.Date))
	s.Equal("Lunch", *found.Note)
	s.Equal("Food & Dining", found.Category.Name)
}

func (s *ExpenseRepositorySuite) TestCreateRejectsInvalidAmount() {
	day, _ := models.ParseDate("2024-03-15")

	err := s.repo.Create(s.ctx, &models.Expense{
		UserID:     s.user.ID,
		CategoryID: s.category.ID,
		Amount:     decimal.RequireFromString("1.005"),
		Date:       day,
	})
	s.Error(err)

	err = s.repo.Create(s.ctx, &models.Expense{
		UserID:     s.user.ID,
		CategoryID: s.category.ID,
		Amount:     decimal.Zero,
		Date:       day,
	})
	s.Error(err)
}

func (s *ExpenseRepositorySuite) TestCreateBatch() {
	day, _ := models.ParseDate("2024-03-01")
	expenses := make([]models.Expense, 0, 150)
	for i := 0; i < 150; i++ {
		expenses = append(expenses, models.Expense{
			UserID:     s.user.ID,
			CategoryID: s.category.ID,
			Amount:     decimal.NewFromInt(int64(i + 1)),
			Date:       day,
		})
	}

	s.Require().NoError(s.repo.CreateBatch(s.ctx, expenses))

	month := s.month("2024-03")
	stored, err := s.repo.GetByDateRange(s.ctx, s.user.ID, month.FirstDay(), month.LastDay())
	s.NoError(err)
	s.Len(stored, 150)
}

func (s *ExpenseRepositorySuite) TestGetByIDScopedToOwner() {
	expense := database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "5.00", "2024-03-02")
	stranger := database.CreateTestUser(s.T(), s.db, "stranger@example.com")

	_, err := s.repo.GetByID(s.ctx, stranger.ID, expense.ID)
	s.ErrorIs(err, ErrExpenseNotFound)

	_, err = s.repo.GetByID(s.ctx, s.user.ID, uuid.New())
	s.ErrorIs(err, ErrExpenseNotFound)
}

func (s *ExpenseRepositorySuite) TestGetByDateRange() {
	database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "10.00", "2024-02-29")
	first := database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "20.00", "2024-03-01")
	last := database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "30.00", "2024-03-31")
	database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "40.00", "2024-04-01")

	stranger := database.CreateTestUser(s.T(), s.db, "stranger@example.com")
	strangerCategory := database.CreateTestCategory(s.T(), s.db, stranger.ID, "Food")
	database.CreateTestExpense(s.T(), s.db, stranger.ID, strangerCategory.ID, "99.00", "2024-03-15")

	month := s.month("2024-03")
	expenses, err := s.repo.GetByDateRange(s.ctx, s.user.ID, month.FirstDay(), month.LastDay())
	s.Require().NoError(err)
	s.Require().Len(expenses, 2)
	s.Equal(last.ID, expenses[0].ID)
	s.Equal(first.ID, expenses[1].ID)
	s.Equal("Food & Dining", expenses[0].Category.Name)

	empty, err := s.repo.GetByDateRange(s.ctx, s.user.ID, s.month("2023-01").FirstDay(), s.month("2023-01").LastDay())
	s.NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *ExpenseRepositorySuite) TestUpdate() {
	expense := database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "5.00", "2024-03-02")
	travel := database.CreateTestCategory(s.T(), s.db, s.user.ID, "Travel")

	newDate, _ := models.ParseDate("2024-03-20")
	expense.Amount = decimal.RequireFromString("7.25")
	expense.Date = newDate
	expense.CategoryID = travel.ID
	expense.Note = strPtr("Train")

	s.NoError(s.repo.Update(s.ctx, expense))

	found, err := s.repo.GetByID(s.ctx, s.user.ID, expense.ID)
	s.Require().NoError(err)
	s.True(found.Amount.Equal(decimal.RequireFromString("7.25")))
	s.Equal("2024-03-20", models.FormatDate(found.Date))
	s.Equal("Travel", found.Category.Name)
	s.Equal("Train", *found.Note)
}

func (s *ExpenseRepositorySuite) TestUpdateOtherUsersExpense() {
	expense := database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "5.00", "2024-03-02")
	stranger := database.CreateTestUser(s.T(), s.db, "stranger@example.com")

	hijack := *expense
	hijack.UserID = stranger.ID
	hijack.Amount = decimal.NewFromInt(1)

	s.ErrorIs(s.repo.Update(s.ctx, &hijack), ErrExpenseNotFound)

	found, err := s.repo.GetByID(s.ctx, s.user.ID, expense.ID)
	s.Require().NoError(err)
	s.True(found.Amount.Equal(decimal.RequireFromString("5.00")))
}

func (s *ExpenseRepositorySuite) TestDelete() {
	expense := database.CreateTestExpense(s.T(), s.db, s.user.ID, s.category.ID, "5.00", "2024-03-02")
	stranger := database.CreateTestUser(s.T(), s.db, "stranger@example.com")

	s.ErrorIs(s.repo.Delete(s.ctx, stranger.ID, expense.ID), ErrExpenseNotFound)
	s.NoError(s.repo.Delete(s.ctx, s.user.ID, expense.ID))
	s.ErrorIs(s.repo.Delete(s.ctx, s.user.ID, expense.ID), ErrExpenseNotFound)
}
