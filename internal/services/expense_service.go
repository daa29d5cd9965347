package services

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/events"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidExpense       = errors.New("invalid expense")
	ErrInvalidGenerateCount = fmt.Errorf("count must be between %d and %d", MinGeneratedExpenses, MaxGeneratedExpenses)
	ErrNoCategories         = errors.New("user has no categories to generate expenses for")
)

type ExpenseService struct {
	expenseRepo  repositories.ExpenseRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	generator    ExpenseGeneratorInterface
	auditLogger  AuditLoggerInterface
	metrics      MetricsRecorderInterface
	activity     activityRecorder
}

func NewExpenseService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	generator ExpenseGeneratorInterface,
	publisher EventPublisherInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
) ExpenseServiceInterface {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		generator:    generator,
		auditLogger:  auditLogger,
		metrics:      metrics,
		activity:     activityRecorder{publisher: publisher, auditLogger: auditLogger, metrics: metrics},
	}
}

// ListForMonth returns the month's expenses, newest first.
func (s *ExpenseService) ListForMonth(ctx context.Context, userID uuid.UUID, month models.Month) ([]models.Expense, error) {
	expenses, err := s.expenseRepo.GetByDateRange(ctx, userID, month.FirstDay(), month.LastDay())
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, expense *models.Expense) (*models.Expense, error) {
	expense.UserID = userID
	expense.Date = models.DateOnly(expense.Date)
	if err := expense.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	}

	category, err := s.ownedCategory(ctx, userID, expense.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	expense.Category = *category

	s.activity.created(ctx, EntityExpense, events.ExpenseCreated, expense.ID, userID, expensePayload(expense))
	return expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, id uuid.UUID, patch models.ExpensePatch) (*models.Expense, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	expense, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(expense)
	if err := expense.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	}

	if patch.CategoryID != nil {
		category, err := s.ownedCategory(ctx, userID, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		expense.Category = *category
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		switch {
		case errors.Is(err, repositories.ErrExpenseNotFound):
			return nil, ErrExpenseNotFound
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	s.activity.updated(ctx, EntityExpense, events.ExpenseUpdated, expense.ID, userID, patch.Fields(), expensePayload(expense))
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrExpenseNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.activity.deleted(ctx, EntityExpense, events.ExpenseDeleted, id, userID)
	return nil
}

// GenerateForMonth stores count random expenses across the user's categories.
func (s *ExpenseService) GenerateForMonth(ctx context.Context, userID uuid.UUID, month models.Month, count int) (int, error) {
	if count < MinGeneratedExpenses || count > MaxGeneratedExpenses {
		return 0, ErrInvalidGenerateCount
	}

	categories, err := s.categoryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return 0, ErrNoCategories
	}

	expenses := s.generator.GenerateExpenses(userID, categories, month, count)
	if err := s.expenseRepo.CreateBatch(ctx, expenses); err != nil {
		return 0, fmt.Errorf("failed to store generated expenses: %w", err)
	}

	s.auditLogger.LogExpensesGenerated(ctx, userID, month.String(), len(expenses))
	s.metrics.RecordGauge(MetricExpensesGenerated, float64(len(expenses)), nil)
	s.activity.publisher.Publish(ctx, events.New(events.ExpensesGenerated, userID, uuid.Nil, map[string]any{
		"month": month.String(),
		"count": len(expenses),
	}))

	return len(expenses), nil
}

func (s *ExpenseService) ownedCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

func expensePayload(e *models.Expense) map[string]any {
	payload := map[string]any{
		"amount":     e.Amount.StringFixed(2),
		"date":       models.FormatDate(e.Date),
		"categoryId": e.CategoryID,
	}
	if e.Note != nil {
		payload["note"] = *e.Note
	}
	return payload
}
