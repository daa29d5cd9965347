package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOAuthAccountNotFound = errors.New("oauth account not found")
	ErrOAuthAccountExists   = errors.New("oauth account already linked")
)

type oauthAccountRepository struct {
	db *gorm.DB
}

func NewOAuthAccountRepository(db *gorm.DB) OAuthAccountRepositoryInterface {
	return &oauthAccountRepository{db: db}
}

func (r *oauthAccountRepository) Create(ctx context.Context, account *models.OAuthAccount) error {
	if account == nil {
		return errors.New("oauth account cannot be nil")
	}

	if err := r.db.WithContext(ctx).Omit("User").Create(account).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrOAuthAccountExists
		}
		return fmt.Errorf("failed to create oauth account: %w", err)
	}
	return nil
}

// GetByProviderAccount looks up a link and preloads its user.
func (r *oauthAccountRepository) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*models.OAuthAccount, error) {
	var account models.OAuthAccount
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOAuthAccountNotFound
		}
		return nil, fmt.Errorf("failed to get oauth account: %w", err)
	}
	return &account, nil
}

func (r *oauthAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.OAuthAccount, error) {
	var accounts []models.OAuthAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get oauth accounts: %w", err)
	}
	return accounts, nil
}
