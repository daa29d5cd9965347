package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountLocked       = errors.New("account is locked due to too many failed attempts")
	ErrUserAlreadyExists   = errors.New("user with this email already exists")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidOAuthRequest = errors.New("invalid oauth sign-in request")
)

const revokedTokenRetention = 24 * time.Hour

// AuthService handles registration, sign-in and token lifecycle
type AuthService struct {
	userRepo         repositories.UserRepositoryInterface
	oauthRepo        repositories.OAuthAccountRepositoryInterface
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface
	blacklistRepo    repositories.BlacklistedTokenRepositoryInterface
	passwordService  PasswordServiceInterface
	tokenService     TokenServiceInterface
	auditService     AuditServiceInterface
	metrics          MetricsRecorderInterface
	security         config.SecurityConfig
	logger           *slog.Logger
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	oauthRepo repositories.OAuthAccountRepositoryInterface,
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface,
	blacklistRepo repositories.BlacklistedTokenRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
	security config.SecurityConfig,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:         userRepo,
		oauthRepo:        oauthRepo,
		refreshTokenRepo: refreshTokenRepo,
		blacklistRepo:    blacklistRepo,
		passwordService:  passwordService,
		tokenService:     tokenService,
		auditService:     auditService,
		metrics:          metrics,
		security:         security,
		logger:           logger,
		now:              time.Now,
	}
}

// Register creates a password account together with the default categories.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	email := models.NormalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		s.audit(ctx, "failed_registration", s.auditService.LogFailedRegistration(ctx, email, "email_already_exists", ipAddress, userAgent))
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: &hashedPassword,
		Name:         req.Name,
	}

	if err := s.userRepo.CreateWithCategories(ctx, user, models.NewDefaultCategories(uuid.Nil)); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionRegister, s.auditService.LogRegister(ctx, user.ID, ipAddress, userAgent))
	s.countEvent(models.AuditActionRegister)

	return &dto.AuthResponse{User: dto.NewUserProfileResponse(user), Tokens: *tokens}, nil
}

// Login verifies email and password. A lock older than the configured lockout
// duration is lifted on the next attempt.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	email := models.NormalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.failedLogin(ctx, email, "user_not_found", ipAddress, userAgent)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked() {
		if !user.LockExpired(s.security.LockoutDuration, s.now()) {
			s.failedLogin(ctx, email, "account_locked", ipAddress, userAgent)
			return nil, ErrAccountLocked
		}
		user.Unlock()
		if err := s.userRepo.ResetFailedLoginAttempts(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to unlock user: %w", err)
		}
	}

	if !user.HasPassword() {
		s.failedLogin(ctx, email, "password_not_set", ipAddress, userAgent)
		return nil, ErrPasswordNotSet
	}

	if !s.passwordService.ComparePassword(req.Password, *user.PasswordHash) {
		locked := user.IncrementFailedAttempts(s.security.MaxFailedAttempts)
		if err := s.userRepo.UpdateFailedLoginAttempts(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to update login attempts",
				"error", err,
				"user_id", user.ID)
		}

		if locked {
			s.audit(ctx, models.AuditActionAccountLocked, s.auditService.LogAccountLocked(ctx, user.ID, ipAddress, userAgent))
			s.countEvent(models.AuditActionAccountLocked)
		}

		s.failedLogin(ctx, email, "invalid_password", ipAddress, userAgent)
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 {
		user.ResetFailedAttempts()
		if err := s.userRepo.ResetFailedLoginAttempts(ctx, user.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to reset login attempts",
				"error", err,
				"user_id", user.ID)
		}
	}

	s.recordLastLogin(ctx, user)

	tokens, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionLogin, s.auditService.LogLogin(ctx, user.ID, ipAddress, userAgent))
	s.countEvent(models.AuditActionLogin)

	return &dto.AuthResponse{User: dto.NewUserProfileResponse(user), Tokens: *tokens}, nil
}

// OAuthLogin signs in a user authenticated by an external provider. The
// provider account is matched first, then the email; otherwise a new
// password-less user is created.
func (s *AuthService) OAuthLogin(ctx context.Context, req *dto.OAuthLoginRequest, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	if !models.IsValidOAuthProvider(req.Provider) || req.ProviderAccountID == "" {
		return nil, ErrInvalidOAuthRequest
	}

	user, created, err := s.resolveOAuthUser(ctx, req)
	if err != nil {
		return nil, err
	}

	s.recordLastLogin(ctx, user)

	tokens, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, models.AuditActionOAuthLogin, s.auditService.LogOAuthLogin(ctx, user.ID, req.Provider, created, ipAddress, userAgent))
	s.countEvent(models.AuditActionOAuthLogin)

	return &dto.AuthResponse{User: dto.NewUserProfileResponse(user), Tokens: *tokens}, nil
}

func (s *AuthService) resolveOAuthUser(ctx context.Context, req *dto.OAuthLoginRequest) (*models.User, bool, error) {
	account, err := s.oauthRepo.GetByProviderAccount(ctx, req.Provider, req.ProviderAccountID)
	switch {
	case err == nil:
		user, err := s.userRepo.GetByID(ctx, account.UserID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load linked user: %w", err)
		}
		s.fillProfileFromProvider(ctx, user, req)
		return user, false, nil
	case !errors.Is(err, repositories.ErrOAuthAccountNotFound):
		return nil, false, fmt.Errorf("failed to look up oauth account: %w", err)
	}

	email := models.NormalizeEmail(req.Email)
	created := false

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		s.fillProfileFromProvider(ctx, user, req)
	case errors.Is(err, repositories.ErrUserNotFound):
		user = &models.User{Email: email, Name: req.Name, Image: req.Image}
		if err := s.userRepo.CreateWithCategories(ctx, user, models.NewDefaultCategories(uuid.Nil)); err != nil {
			return nil, false, fmt.Errorf("failed to create user: %w", err)
		}
		created = true
	default:
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}

	link := &models.OAuthAccount{
		UserID:            user.ID,
		Provider:          req.Provider,
		ProviderAccountID: req.ProviderAccountID,
	}
	if err := s.oauthRepo.Create(ctx, link); err != nil && !errors.Is(err, repositories.ErrOAuthAccountExists) {
		return nil, false, fmt.Errorf("failed to link oauth account: %w", err)
	}

	return user, created, nil
}

// fillProfileFromProvider copies name and image from the provider only where
// the user has none, so edits made in the app are kept.
func (s *AuthService) fillProfileFromProvider(ctx context.Context, user *models.User, req *dto.OAuthLoginRequest) {
	fields := map[string]interface{}{}
	if user.Name == nil && req.Name != nil {
		user.Name = req.Name
		fields["name"] = *req.Name
	}
	if user.Image == nil && req.Image != nil {
		user.Image = req.Image
		fields["image"] = *req.Image
	}
	if len(fields) == 0 {
		return
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		s.logger.WarnContext(ctx, "failed to copy provider profile",
			"error", err,
			"user_id", user.ID)
	}
}

// RefreshTokens exchanges a refresh token for a new pair. Presenting a token
// that was already rotated revokes every session of its user.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.audit(ctx, models.AuditActionTokenRefresh, s.auditService.LogTokenRefresh(ctx, nil, "invalid_token", ipAddress, userAgent))
		return nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			s.audit(ctx, models.AuditActionTokenRefresh, s.auditService.LogTokenRefresh(ctx, &userID, "token_not_found", ipAddress, userAgent))
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if stored.UserID != userID {
		return nil, ErrInvalidRefreshToken
	}

	if stored.IsRevoked() {
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to revoke sessions after token reuse",
				"error", err,
				"user_id", userID)
		}
		s.audit(ctx, models.AuditActionTokenRefresh, s.auditService.LogTokenRefresh(ctx, &userID, "token_reused", ipAddress, userAgent))
		return nil, ErrInvalidRefreshToken
	}

	if stored.IsExpired() {
		s.audit(ctx, models.AuditActionTokenRefresh, s.auditService.LogTokenRefresh(ctx, &userID, "token_expired", ipAddress, userAgent))
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	tokens, next, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Rotate(ctx, stored, next); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	s.audit(ctx, models.AuditActionTokenRefresh, s.auditService.LogTokenRefresh(ctx, &userID, "", ipAddress, userAgent))
	s.countEvent(models.AuditActionTokenRefresh)

	return tokens, nil
}

// Logout blacklists the access token and revokes all refresh tokens of its
// user. An access token that no longer validates needs no revocation.
func (s *AuthService) Logout(ctx context.Context, accessToken, ipAddress, userAgent string) error {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}

	blacklisted := &models.BlacklistedToken{
		JTI:       claims.ID,
		UserID:    userID,
		Reason:    "logout",
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.blacklistRepo.Create(ctx, blacklisted); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke refresh tokens",
			"error", err,
			"user_id", userID)
	}

	s.audit(ctx, models.AuditActionLogout, s.auditService.LogLogout(ctx, userID, ipAddress, userAgent))
	s.countEvent(models.AuditActionLogout)

	return nil
}

// CleanupExpiredTokens removes expired refresh tokens, refresh tokens revoked
// more than a day ago and expired blacklist entries.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	expired, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	revoked, err := s.refreshTokenRepo.DeleteRevokedOlderThan(ctx, revokedTokenRetention)
	if err != nil {
		return expired, fmt.Errorf("failed to delete revoked refresh tokens: %w", err)
	}

	blacklisted, err := s.blacklistRepo.DeleteExpired(ctx)
	if err != nil {
		return expired + revoked, fmt.Errorf("failed to delete expired blacklist entries: %w", err)
	}

	return expired + revoked + blacklisted, nil
}

func (s *AuthService) generateTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	tokens, stored, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokens, nil
}

func (s *AuthService) issueTokens(user *models.User) (*dto.TokenResponse, *models.RefreshToken, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: refreshExpiresAt,
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, stored, nil
}

func (s *AuthService) recordLastLogin(ctx context.Context, user *models.User) {
	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			"error", err,
			"user_id", user.ID)
	}
}

func (s *AuthService) failedLogin(ctx context.Context, email, reason, ipAddress, userAgent string) {
	s.audit(ctx, models.AuditActionFailedLogin, s.auditService.LogFailedLogin(ctx, email, reason, ipAddress, userAgent))
	s.countEvent(models.AuditActionFailedLogin)
}

// audit logs a failed audit write. Audit storage problems never block sign-in.
func (s *AuthService) audit(ctx context.Context, action string, err error) {
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create audit log",
			"error", err,
			"action", action)
	}
}

func (s *AuthService) countEvent(event string) {
	s.metrics.IncrementCounter(MetricAuthEvent, map[string]string{"event": event})
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
