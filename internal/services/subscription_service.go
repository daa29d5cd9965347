package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/billing"
	"finance-tracker/internal/events"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

const (
	MinOccurrenceYear = 1900
	MaxOccurrenceYear = 9999
)

var (
	ErrInvalidSubscription = errors.New("invalid subscription")
	ErrInvalidYear         = fmt.Errorf("year must be between %d and %d", MinOccurrenceYear, MaxOccurrenceYear)
)

type SubscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	categoryRepo     repositories.CategoryRepositoryInterface
	activity         activityRecorder
	now              func() time.Time
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	publisher EventPublisherInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		categoryRepo:     categoryRepo,
		activity:         activityRecorder{publisher: publisher, auditLogger: auditLogger, metrics: metrics},
		now:              time.Now,
	}
}

// List returns every subscription ordered by start date, each with the next
// payment on or after today.
func (s *SubscriptionService) List(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	subscriptions, err := s.subscriptionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	today := s.now()
	for i := range subscriptions {
		s.refreshNextPayment(&subscriptions[i], today)
	}
	return subscriptions, nil
}

// ListForMonth returns the subscriptions that bill inside month. NextPayment
// is set to the billing day in that month.
func (s *SubscriptionService) ListForMonth(ctx context.Context, userID uuid.UUID, month models.Month) ([]models.Subscription, error) {
	started, err := s.subscriptionRepo.GetStartedBy(ctx, userID, month.LastDay())
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	billed := make([]models.Subscription, 0, len(started))
	for _, sub := range started {
		day, ok := billing.OccurrenceInMonth(sub.StartDate, sub.Recurrence, month.Year, month.Month)
		if !ok {
			continue
		}
		sub.NextPayment = day
		billed = append(billed, sub)
	}
	return billed, nil
}

func (s *SubscriptionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	sub, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.refreshNextPayment(sub, s.now())
	return sub, nil
}

func (s *SubscriptionService) Create(ctx context.Context, userID uuid.UUID, sub *models.Subscription) (*models.Subscription, error) {
	sub.UserID = userID
	sub.Name = strings.TrimSpace(sub.Name)
	sub.StartDate = models.DateOnly(sub.StartDate)
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubscription, err)
	}

	category, err := s.ownedCategory(ctx, userID, sub.CategoryID)
	if err != nil {
		return nil, err
	}

	s.refreshNextPayment(sub, s.now())
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	sub.Category = *category

	s.activity.created(ctx, EntitySubscription, events.SubscriptionCreated, sub.ID, userID, subscriptionPayload(sub))
	return sub, nil
}

func (s *SubscriptionService) Update(ctx context.Context, userID, id uuid.UUID, patch models.SubscriptionPatch) (*models.Subscription, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	sub, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(sub)
	sub.Name = strings.TrimSpace(sub.Name)
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubscription, err)
	}

	if patch.CategoryID != nil {
		category, err := s.ownedCategory(ctx, userID, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		sub.Category = *category
	}

	s.refreshNextPayment(sub, s.now())
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSubscriptionNotFound):
			return nil, ErrSubscriptionNotFound
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	s.activity.updated(ctx, EntitySubscription, events.SubscriptionUpdated, sub.ID, userID, patch.Fields(), subscriptionPayload(sub))
	return sub, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.subscriptionRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return ErrSubscriptionNotFound
		}
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	s.activity.deleted(ctx, EntitySubscription, events.SubscriptionDeleted, id, userID)
	return nil
}

// Occurrences lists the billing days of a subscription in year.
func (s *SubscriptionService) Occurrences(ctx context.Context, userID, id uuid.UUID, year int) ([]time.Time, error) {
	if year < MinOccurrenceYear || year > MaxOccurrenceYear {
		return nil, ErrInvalidYear
	}

	sub, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return billing.OccurrencesInYear(sub.StartDate, sub.Recurrence, year), nil
}

func (s *SubscriptionService) find(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

func (s *SubscriptionService) ownedCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

func (s *SubscriptionService) refreshNextPayment(sub *models.Subscription, today time.Time) {
	sub.NextPayment = billing.NextOccurrenceFrom(sub.StartDate, sub.Recurrence, today)
}

func subscriptionPayload(sub *models.Subscription) map[string]any {
	return map[string]any{
		"name":        sub.Name,
		"amount":      sub.Amount.StringFixed(2),
		"recurrence":  sub.Recurrence.String(),
		"startDate":   models.FormatDate(sub.StartDate),
		"nextPayment": models.FormatDate(sub.NextPayment),
		"categoryId":  sub.CategoryID,
	}
}
