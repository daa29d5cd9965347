package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepositoryInterface {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense == nil {
		return errors.New("expense cannot be nil")
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(expense).Error; err != nil {
		if isForeignKeyError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// CreateBatch inserts expenses in chunks inside one transaction.
func (r *ExpenseRepository) CreateBatch(ctx context.Context, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&expenses, 100).Error; err != nil {
		return fmt.Errorf("failed to create expenses: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &expense, nil
}

func (r *ExpenseRepository) GetByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Expense, error) {
	expenses := make([]models.Expense, 0)
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, models.DateOnly(start), models.DateOnly(end)).
		Order("date DESC").
		Order("created_at DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses by date range: %w", err)
	}

	for i := range expenses {
		expenses[i].Date = models.DateOnly(expenses[i].Date)
	}
	return expenses, nil
}

// Update writes the mutable columns of an expense owned by expense.UserID.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	if expense == nil {
		return errors.New("expense cannot be nil")
	}

	expense.Date = models.DateOnly(expense.Date)
	if err := expense.Validate(); err != nil {
		return err
	}

	expense.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]interface{}{
			"amount":      expense.Amount,
			"date":        expense.Date,
			"category_id": expense.CategoryID,
			"note":        expense.Note,
			"updated_at":  expense.UpdatedAt,
		})
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
