package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultMaxFailedLoginAttempts = 5

	MaxUserNameLength = 100
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// User is an account holder. PasswordHash is nil for users that only sign in
// through an external OAuth provider.
type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        *string    `gorm:"type:varchar(255)" json:"-"`
	Name                *string    `gorm:"type:varchar(100)" json:"name,omitempty"`
	Image               *string    `gorm:"type:text" json:"image,omitempty"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedAt            *time.Time `gorm:"index" json:"locked_at,omitempty"`
	LastLoginAt         *time.Time `gorm:"index" json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	OAuthAccounts []OAuthAccount `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	u.Email = NormalizeEmail(u.Email)
	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates carry an empty User; only validate full saves.
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}

	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}

	if u.Name != nil && len(*u.Name) > MaxUserNameLength {
		return errors.New("name is too long")
	}

	return nil
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsLocked() bool {
	return u.LockedAt != nil
}

// LockExpired reports whether a lock placed at LockedAt has outlived lockout.
// A non-positive lockout never expires.
func (u *User) LockExpired(lockout time.Duration, now time.Time) bool {
	return u.LockedAt != nil && lockout > 0 && now.Sub(*u.LockedAt) >= lockout
}

func (u *User) Lock() {
	now := time.Now()
	u.LockedAt = &now
}

func (u *User) Unlock() {
	u.LockedAt = nil
	u.FailedLoginAttempts = 0
}

// IncrementFailedAttempts counts a failed sign-in and locks the account once
// maxAttempts is reached. It reports whether this call locked the account.
func (u *User) IncrementFailedAttempts(maxAttempts int) bool {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxFailedLoginAttempts
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts && !u.IsLocked() {
		u.Lock()
		return true
	}
	return false
}

func (u *User) ResetFailedAttempts() {
	u.FailedLoginAttempts = 0
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// DisplayName returns the name if set, otherwise the local part of the email.
func (u *User) DisplayName() string {
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return *u.Name
	}
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

func (u *User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
