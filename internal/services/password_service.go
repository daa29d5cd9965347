package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"finance-tracker/internal/config"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost        = 12
	DefaultMinPasswordLength = 6
	MaxPasswordLength        = 72 // bcrypt ignores anything past 72 bytes
)

var (
	ErrPasswordEmpty        = errors.New("password cannot be empty")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrPasswordTooLong      = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	ErrPasswordNotSet       = errors.New("account has no password set")
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrSamePassword         = errors.New("new password must be different from current password")
)

type PasswordService struct {
	cost      int
	minLength int
	userRepo  repositories.UserRepositoryInterface
}

// NewPasswordService reads cost and minimum length from the security config,
// falling back to the defaults for zero values.
func NewPasswordService(userRepo repositories.UserRepositoryInterface, cfg config.SecurityConfig) PasswordServiceInterface {
	ps := &PasswordService{
		cost:      cfg.BCryptCost,
		minLength: cfg.PasswordMinLength,
		userRepo:  userRepo,
	}
	if ps.cost == 0 {
		ps.cost = DefaultBCryptCost
	}
	if ps.minLength == 0 {
		ps.minLength = DefaultMinPasswordLength
	}
	return ps
}

func (ps *PasswordService) ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrPasswordEmpty
	case len(password) < ps.minLength:
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, ps.minLength)
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

func (ps *PasswordService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateSecurePassword returns a random 16 character password drawn from
// letters, digits and symbols.
func (ps *PasswordService) GenerateSecurePassword() (string, error) {
	const (
		length  = 16
		charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*-_=+"
	)

	result := make([]byte, length)
	for i := range result {
		index, err := secureRandomInt(len(charset))
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		result[i] = charset[index]
	}

	return string(result), nil
}

func secureRandomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// ChangePassword replaces the password of a user who already has one.
// OAuth-only accounts get ErrPasswordNotSet.
func (ps *PasswordService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if userID == uuid.Nil {
		return ErrInvalidUserID
	}

	user, err := ps.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasPassword() {
		return ErrPasswordNotSet
	}

	if !ps.ComparePassword(currentPassword, *user.PasswordHash) {
		return ErrCurrentPasswordWrong
	}

	if currentPassword == newPassword {
		return ErrSamePassword
	}

	hashedPassword, err := ps.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := ps.userRepo.UpdatePasswordHash(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
