package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/events"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var ErrInvalidCategory = errors.New("invalid category")

type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	activity     activityRecorder
}

func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	publisher EventPublisherInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
) CategoryServiceInterface {
	return &CategoryService{
		categoryRepo: categoryRepo,
		activity:     activityRecorder{publisher: publisher, auditLogger: auditLogger, metrics: metrics},
	}
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Color:  strings.ToUpper(req.Color),
		Icon:   strings.TrimSpace(req.Icon),
	}
	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.activity.created(ctx, EntityCategory, events.CategoryCreated, category.ID, userID, categoryPayload(category))
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	category, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(category)
	category.Color = strings.ToUpper(category.Color)
	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.activity.updated(ctx, EntityCategory, events.CategoryUpdated, category.ID, userID, patch.Fields(), categoryPayload(category))
	return category, nil
}

// Delete removes a category that no expense or subscription references.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	expenses, subscriptions, err := s.categoryRepo.CountUsage(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if expenses > 0 || subscriptions > 0 {
		return fmt.Errorf("%w: %d expenses, %d subscriptions", ErrCategoryInUse, expenses, subscriptions)
	}

	if err := s.categoryRepo.Delete(ctx, userID, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCategoryInUse):
			return ErrCategoryInUse
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.activity.deleted(ctx, EntityCategory, events.CategoryDeleted, id, userID)
	return nil
}

func categoryPayload(c *models.Category) map[string]any {
	return map[string]any{
		"name":  c.Name,
		"color": c.Color,
		"icon":  c.Icon,
	}
}
