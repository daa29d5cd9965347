package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is referenced by expenses or subscriptions")
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	if err := r.db.WithContext(ctx).Omit("User").Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) CreateBatch(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Omit("User").Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// GetByUserID returns the user's categories ordered by name.
func (r *CategoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}
	if err := category.Validate(); err != nil {
		return err
	}

	category.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"color":      category.Color,
			"icon":       category.Icon,
			"updated_at": category.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. A category still referenced by expenses or
// subscriptions is kept and ErrCategoryInUse returned.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expenses, subscriptions, err := countUsage(tx, id)
		if err != nil {
			return err
		}
		if expenses > 0 || subscriptions > 0 {
			return ErrCategoryInUse
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
		if result.Error != nil {
			if isForeignKeyError(result.Error) {
				return ErrCategoryInUse
			}
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

func (r *CategoryRepository) CountUsage(ctx context.Context, id uuid.UUID) (int64, int64, error) {
	return countUsage(r.db.WithContext(ctx), id)
}

func countUsage(db *gorm.DB, categoryID uuid.UUID) (int64, int64, error) {
	var expenses, subscriptions int64

	if err := db.Model(&models.Expense{}).Where("category_id = ?", categoryID).Count(&expenses).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count category expenses: %w", err)
	}
	if err := db.Model(&models.Subscription{}).Where("category_id = ?", categoryID).Count(&subscriptions).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count category subscriptions: %w", err)
	}
	return expenses, subscriptions, nil
}
