package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

const (
	DefaultActivityPageSize = 20
	MaxActivityPageSize     = 100
)

// UserService serves the authenticated user's own profile
type UserService struct {
	userRepo        repositories.UserRepositoryInterface
	passwordService PasswordServiceInterface
	auditService    AuditServiceInterface
	logger          *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	passwordService PasswordServiceInterface,
	auditService AuditServiceInterface,
	logger *slog.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:        userRepo,
		passwordService: passwordService,
		auditService:    auditService,
		logger:          logger,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile replaces email, name and image. Blank name or image clears it.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest, ipAddress, userAgent string) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	name := blankToNil(req.Name)
	image := blankToNil(req.Image)

	fields := map[string]interface{}{}
	changes := map[string]interface{}{}

	emailChanged := email != user.Email
	if emailChanged {
		_, err := s.userRepo.GetByEmailExcluding(ctx, email, userID)
		switch {
		case err == nil:
			return nil, ErrEmailAlreadyExists
		case !errors.Is(err, repositories.ErrUserNotFound):
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		fields["email"] = email
	}
	if !equalStringPtr(user.Name, name) {
		fields["name"] = name
		changes["name"] = derefOrEmpty(name)
	}
	if !equalStringPtr(user.Image, image) {
		fields["image"] = image
		changes["image"] = derefOrEmpty(image)
	}

	if len(fields) == 0 {
		return user, nil
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmailAlreadyExists):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	oldEmail := user.Email
	user.Email = email
	user.Name = name
	user.Image = image

	if emailChanged {
		if err := s.auditService.LogEmailUpdate(ctx, userID, oldEmail, email, ipAddress, userAgent); err != nil {
			s.logger.ErrorContext(ctx, "failed to audit email update", "error", err, "user_id", userID)
		}
	}
	if len(changes) > 0 {
		if err := s.auditService.LogProfileUpdate(ctx, userID, changes, ipAddress, userAgent); err != nil {
			s.logger.ErrorContext(ctx, "failed to audit profile update", "error", err, "user_id", userID)
		}
	}

	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest, ipAddress, userAgent string) error {
	if err := s.passwordService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	if err := s.auditService.LogPasswordUpdate(ctx, userID, ipAddress, userAgent); err != nil {
		s.logger.ErrorContext(ctx, "failed to audit password update", "error", err, "user_id", userID)
	}

	return nil
}

// GetActivity returns one page of the user's audit trail. page is 1-based;
// out-of-range page and limit values are clamped.
func (s *UserService) GetActivity(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultActivityPageSize
	}
	if limit > MaxActivityPageSize {
		limit = MaxActivityPageSize
	}

	logs, total, err := s.auditService.GetUserActivity(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get activity: %w", err)
	}
	return logs, total, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
