package services

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/dashboard"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	expenseRepo      repositories.ExpenseRepositoryInterface
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	categoryRepo     repositories.CategoryRepositoryInterface
	auditLogger      AuditLoggerInterface
	metrics          MetricsRecorderInterface
	topCategories    int
}

func NewDashboardService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	topCategories int,
) DashboardServiceInterface {
	return &DashboardService{
		expenseRepo:      expenseRepo,
		subscriptionRepo: subscriptionRepo,
		categoryRepo:     categoryRepo,
		auditLogger:      auditLogger,
		metrics:          metrics,
		topCategories:    topCategories,
	}
}

// GetDashboard loads the month, the month before it, the subscriptions started
// by the end of the month and the user's categories concurrently, then
// aggregates them.
func (s *DashboardService) GetDashboard(ctx context.Context, userID uuid.UUID, month models.Month) (*models.Dashboard, error) {
	start := time.Now()
	previous := month.Previous()

	var (
		expenses         []models.Expense
		previousExpenses []models.Expense
		subscriptions    []models.Subscription
		categories       []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.GetByDateRange(gctx, userID, month.FirstDay(), month.LastDay())
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		previousExpenses, err = s.expenseRepo.GetByDateRange(gctx, userID, previous.FirstDay(), previous.LastDay())
		if err != nil {
			return fmt.Errorf("failed to load previous month expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		subscriptions, err = s.subscriptionRepo.GetStartedBy(gctx, userID, month.LastDay())
		if err != nil {
			return fmt.Errorf("failed to load subscriptions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.GetByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := dashboard.Aggregate(dashboard.Input{
		Month:            month,
		Expenses:         expenses,
		PreviousExpenses: previousExpenses,
		Subscriptions:    subscriptions,
		Categories:       categories,
		TopN:             s.topCategories,
	})

	elapsed := time.Since(start)
	s.metrics.RecordProcessingTime(MetricDashboardBuild, elapsed)
	s.auditLogger.LogDashboardBuilt(ctx, userID, month.String(), elapsed.Milliseconds())

	return &result, nil
}
