package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

// AuditService persists security events to the audit_logs table
type AuditService struct {
	repo repositories.AuditLogRepositoryInterface
}

func NewAuditService(repo repositories.AuditLogRepositoryInterface) AuditServiceInterface {
	return &AuditService{
		repo: repo,
	}
}

var (
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidAuditLog = errors.New("invalid audit log")
)

var validAuditActions = map[string]bool{
	models.AuditActionLogin:           true,
	models.AuditActionLogout:          true,
	models.AuditActionRegister:        true,
	models.AuditActionOAuthLogin:      true,
	models.AuditActionFailedLogin:     true,
	models.AuditActionAccountLocked:   true,
	models.AuditActionTokenRefresh:    true,
	models.AuditActionProfileUpdated:  true,
	models.AuditActionEmailUpdated:    true,
	models.AuditActionPasswordUpdated: true,
}

// ValidateActivityType validates that the activity type is one of the allowed types
func ValidateActivityType(action string) error {
	if !validAuditActions[action] {
		return fmt.Errorf("invalid activity type: %s", action)
	}
	return nil
}

func (s *AuditService) create(ctx context.Context, log *models.AuditLog) error {
	if log == nil {
		return ErrInvalidAuditLog
	}

	if err := ValidateActivityType(log.Action); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

func userEvent(userID uuid.UUID, action, resource, ipAddress, userAgent string) *models.AuditLog {
	return &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
}

func (s *AuditService) LogRegister(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.create(ctx, userEvent(userID, models.AuditActionRegister, models.AuditResourceAuth, ipAddress, userAgent))
}

// LogFailedRegistration records a rejected sign-up. No user exists yet, so the
// attempted email goes into metadata.
func (s *AuditService) LogFailedRegistration(ctx context.Context, email, reason, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		Action:    models.AuditActionRegister,
		Resource:  models.AuditResourceAuth,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Metadata: models.JSONBMap{
			"email":   email,
			"reason":  reason,
			"success": false,
		},
	}
	return s.create(ctx, log)
}

func (s *AuditService) LogLogin(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.create(ctx, userEvent(userID, models.AuditActionLogin, models.AuditResourceAuth, ipAddress, userAgent))
}

func (s *AuditService) LogOAuthLogin(ctx context.Context, userID uuid.UUID, provider string, created bool, ipAddress, userAgent string) error {
	log := userEvent(userID, models.AuditActionOAuthLogin, models.AuditResourceAuth, ipAddress, userAgent)
	log.SetMetadata("provider", provider)
	log.SetMetadata("created", created)
	return s.create(ctx, log)
}

func (s *AuditService) LogFailedLogin(ctx context.Context, email, reason, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		Action:    models.AuditActionFailedLogin,
		Resource:  models.AuditResourceAuth,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Metadata: models.JSONBMap{
			"email":  email,
			"reason": reason,
		},
	}
	return s.create(ctx, log)
}

func (s *AuditService) LogAccountLocked(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.create(ctx, userEvent(userID, models.AuditActionAccountLocked, models.AuditResourceAuth, ipAddress, userAgent))
}

// LogTokenRefresh records a refresh attempt. userID is nil when the presented
// token could not be tied to a user.
func (s *AuditService) LogTokenRefresh(ctx context.Context, userID *uuid.UUID, reason, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		UserID:    userID,
		Action:    models.AuditActionTokenRefresh,
		Resource:  models.AuditResourceAuth,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if userID != nil {
		log.ResourceID = userID.String()
	}
	if reason != "" {
		log.SetMetadata("reason", reason)
	}
	return s.create(ctx, log)
}

func (s *AuditService) LogLogout(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.create(ctx, userEvent(userID, models.AuditActionLogout, models.AuditResourceAuth, ipAddress, userAgent))
}

func (s *AuditService) LogProfileUpdate(ctx context.Context, userID uuid.UUID, changes map[string]interface{}, ipAddress, userAgent string) error {
	log := userEvent(userID, models.AuditActionProfileUpdated, models.AuditResourceUser, ipAddress, userAgent)
	for key, value := range changes {
		log.SetMetadata(key, value)
	}
	return s.create(ctx, log)
}

func (s *AuditService) LogEmailUpdate(ctx context.Context, userID uuid.UUID, oldEmail, newEmail, ipAddress, userAgent string) error {
	log := userEvent(userID, models.AuditActionEmailUpdated, models.AuditResourceUser, ipAddress, userAgent)
	log.Metadata = models.JSONBMap{
		"old_email": oldEmail,
		"new_email": newEmail,
	}
	return s.create(ctx, log)
}

func (s *AuditService) LogPasswordUpdate(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.create(ctx, userEvent(userID, models.AuditActionPasswordUpdated, models.AuditResourceUser, ipAddress, userAgent))
}

func (s *AuditService) GetUserActivity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}
	return s.repo.GetByUserID(ctx, userID, offset, limit)
}

// PurgeOlderThan removes audit rows older than retention.
func (s *AuditService) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, retention)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", err)
	}
	return deleted, nil
}
