package services

import (
	"context"
	"io"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/events"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.AuthResponse, error)
	OAuthLogin(ctx context.Context, req *dto.OAuthLoginRequest, ipAddress, userAgent string) (*dto.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken, ipAddress, userAgent string) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
	GenerateSecurePassword() (string, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// AuditServiceInterface persists security-relevant account events
type AuditServiceInterface interface {
	LogRegister(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogFailedRegistration(ctx context.Context, email, reason, ipAddress, userAgent string) error
	LogLogin(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogOAuthLogin(ctx context.Context, userID uuid.UUID, provider string, created bool, ipAddress, userAgent string) error
	LogFailedLogin(ctx context.Context, email, reason, ipAddress, userAgent string) error
	LogAccountLocked(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogTokenRefresh(ctx context.Context, userID *uuid.UUID, reason, ipAddress, userAgent string) error
	LogLogout(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogProfileUpdate(ctx context.Context, userID uuid.UUID, changes map[string]interface{}, ipAddress, userAgent string) error
	LogEmailUpdate(ctx context.Context, userID uuid.UUID, oldEmail, newEmail, ipAddress, userAgent string) error
	LogPasswordUpdate(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	GetUserActivity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest, ipAddress, userAgent string) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest, ipAddress, userAgent string) error
	GetActivity(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.AuditLog, int64, error)
}

type CategoryServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ExpenseServiceInterface interface {
	ListForMonth(ctx context.Context, userID uuid.UUID, month models.Month) ([]models.Expense, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Expense, error)
	Create(ctx context.Context, userID uuid.UUID, expense *models.Expense) (*models.Expense, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch models.ExpensePatch) (*models.Expense, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	GenerateForMonth(ctx context.Context, userID uuid.UUID, month models.Month, count int) (int, error)
}

// SubscriptionServiceInterface returns subscriptions with NextPayment derived
// for the request rather than read from storage
type SubscriptionServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	ListForMonth(ctx context.Context, userID uuid.UUID, month models.Month) ([]models.Subscription, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Subscription, error)
	Create(ctx context.Context, userID uuid.UUID, subscription *models.Subscription) (*models.Subscription, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch models.SubscriptionPatch) (*models.Subscription, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Occurrences(ctx context.Context, userID, id uuid.UUID, year int) ([]time.Time, error)
}

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, userID uuid.UUID, month models.Month) (*models.Dashboard, error)
}

type ExportServiceInterface interface {
	BuildMonthlyExport(ctx context.Context, userID uuid.UUID, month models.Month) (*models.MonthlyExport, error)
	WriteCSV(w io.Writer, export *models.MonthlyExport) error
}

// ExpenseGeneratorInterface generates random demo expenses
type ExpenseGeneratorInterface interface {
	GenerateExpenses(userID uuid.UUID, categories []models.Category, month models.Month, count int) []models.Expense
	GenerateAmount(categoryName string) decimal.Decimal
	GenerateNote(categoryName string) string
	GenerateDate(month models.Month) time.Time
}

// EventPublisherInterface publishes domain events. Delivery problems are
// handled by the implementation and never reach the caller.
type EventPublisherInterface interface {
	Publish(ctx context.Context, event events.Event)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// AuditLoggerInterface writes structured activity records to the application log
type AuditLoggerInterface interface {
	LogEntityCreated(ctx context.Context, entity string, entityID, userID uuid.UUID)
	LogEntityUpdated(ctx context.Context, entity string, entityID, userID uuid.UUID, fields []string)
	LogEntityDeleted(ctx context.Context, entity string, entityID, userID uuid.UUID)
	LogExpensesGenerated(ctx context.Context, userID uuid.UUID, month string, count int)
	LogDashboardBuilt(ctx context.Context, userID uuid.UUID, month string, durationMs int64)
	LogExportGenerated(ctx context.Context, userID uuid.UUID, month string, rows int)
	LogEventPublishFailed(ctx context.Context, eventID uuid.UUID, eventType string, errorMsg string)
	LogEventPublishSkipped(ctx context.Context, eventID uuid.UUID, eventType string)
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}
