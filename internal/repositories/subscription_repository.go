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
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// SubscriptionRepository handles database operations for subscriptions
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepositoryInterface {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	if subscription == nil {
		return errors.New("subscription cannot be nil")
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(subscription).Error; err != nil {
		if isForeignKeyError(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	normalizeSubscriptionDates(&subscription)
	return &subscription, nil
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *SubscriptionRepository) GetStartedBy(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.Subscription, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ? AND start_date <= ?", userID, models.DateOnly(day)))
}

func (r *SubscriptionRepository) find(query *gorm.DB) ([]models.Subscription, error) {
	subscriptions := make([]models.Subscription, 0)
	if err := query.
		Preload("Category").
		Order("start_date ASC").
		Order("created_at ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	for i := range subscriptions {
		normalizeSubscriptionDates(&subscriptions[i])
	}
	return subscriptions, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, subscription *models.Subscription) error {
	if subscription == nil {
		return errors.New("subscription cannot be nil")
	}

	normalizeSubscriptionDates(subscription)
	if err := subscription.Validate(); err != nil {
		return err
	}

	subscription.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND user_id = ?", subscription.ID, subscription.UserID).
		Updates(map[string]interface{}{
			"name":         subscription.Name,
			"amount":       subscription.Amount,
			"logo_url":     subscription.LogoURL,
			"recurrence":   subscription.Recurrence,
			"start_date":   subscription.StartDate,
			"next_payment": subscription.NextPayment,
			"category_id":  subscription.CategoryID,
			"updated_at":   subscription.UpdatedAt,
		})
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func normalizeSubscriptionDates(s *models.Subscription) {
	s.StartDate = models.DateOnly(s.StartDate)
	s.NextPayment = models.DateOnly(s.NextPayment)
}
