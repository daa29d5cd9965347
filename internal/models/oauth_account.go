package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OAuthProviderGoogle   = "google"
	OAuthProviderGitHub   = "github"
	OAuthProviderFacebook = "facebook"
)

var ErrInvalidOAuthProvider = errors.New("invalid oauth provider")

// OAuthAccount links a user to an identity at an external provider.
type OAuthAccount struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Provider          string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_oauth_provider_account" json:"provider"`
	ProviderAccountID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_oauth_provider_account" json:"provider_account_id"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *OAuthAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	if !IsValidOAuthProvider(a.Provider) {
		return ErrInvalidOAuthProvider
	}
	if a.ProviderAccountID == "" {
		return errors.New("provider account id is required")
	}
	return nil
}

func IsValidOAuthProvider(provider string) bool {
	switch provider {
	case OAuthProviderGoogle, OAuthProviderGitHub, OAuthProviderFacebook:
		return true
	}
	return false
}

func (a *OAuthAccount) TableName() string {
	return "oauth_accounts"
}
