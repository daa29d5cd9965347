package repositories

import (
	"context"
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	CreateWithCategories(ctx context.Context, user *models.User, categories []models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailExcluding(ctx context.Context, email string, excludeUserID uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateFailedLoginAttempts(ctx context.Context, user *models.User) error
	ResetFailedLoginAttempts(ctx context.Context, userID uuid.UUID) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// OAuthAccountRepositoryInterface defines the contract for external identity links
type OAuthAccountRepositoryInterface interface {
	Create(ctx context.Context, account *models.OAuthAccount) error
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*models.OAuthAccount, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.OAuthAccount, error)
}

// CategoryRepositoryInterface defines the contract for category repository operations.
// Lookups are scoped to the owning user; another user's category reads as not found.
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	CreateBatch(ctx context.Context, categories []models.Category) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountUsage(ctx context.Context, id uuid.UUID) (expenses int64, subscriptions int64, err error)
}

// ExpenseRepositoryInterface defines the contract for expense repository operations
type ExpenseRepositoryInterface interface {
	Create(ctx context.Context, expense *models.Expense) error
	CreateBatch(ctx context.Context, expenses []models.Expense) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Expense, error)
	// GetByDateRange returns expenses with start <= date <= end, newest first,
	// with Category preloaded.
	GetByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// SubscriptionRepositoryInterface defines the contract for subscription repository operations
type SubscriptionRepositoryInterface interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error)
	// GetByUserID returns all subscriptions ordered by start date ascending.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	// GetStartedBy returns subscriptions whose start date is on or before day.
	GetStartedBy(ctx context.Context, userID uuid.UUID, day time.Time) ([]models.Subscription, error)
	Update(ctx context.Context, subscription *models.Subscription) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(ctx context.Context, log *models.AuditLog) error
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	DeleteOlderThan(ctx context.Context, duration time.Duration) (int64, error)
}

type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.RefreshToken, error)
	// Rotate revokes current and stores next in one transaction.
	Rotate(ctx context.Context, current *models.RefreshToken, next *models.RefreshToken) error
	Revoke(ctx context.Context, tokenID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
	DeleteRevokedOlderThan(ctx context.Context, duration time.Duration) (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(ctx context.Context, token *models.BlacklistedToken) error
	GetByJTI(ctx context.Context, jti string) (*models.BlacklistedToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
