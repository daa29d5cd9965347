package dto

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// UserProfileResponse represents the authenticated user's profile
type UserProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        *string   `json:"name"`
	Image       *string   `json:"image"`
	HasPassword bool      `json:"hasPassword"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewUserProfileResponse(u *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Image:       u.Image,
		HasPassword: u.HasPassword(),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// UpdateProfileRequest replaces the editable profile fields. A nil or empty
// name or image clears the stored value.
type UpdateProfileRequest struct {
	Email string  `json:"email" validate:"required,email,max=255"`
	Name  *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Image *string `json:"image,omitempty" validate:"omitempty,max=2048"`
}

// ChangePasswordRequest represents a self-service password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// ActivityResponse is one entry of the user's security activity log
type ActivityResponse struct {
	ID         uuid.UUID       `json:"id"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID string          `json:"resourceId,omitempty"`
	IPAddress  string          `json:"ipAddress,omitempty"`
	UserAgent  string          `json:"userAgent,omitempty"`
	Metadata   models.JSONBMap `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ActivityListResponse represents a page of activity entries
type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Pagination PaginationMeta     `json:"pagination"`
}

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func NewActivityListResponse(logs []*models.AuditLog, page, limit int, total int64) ActivityListResponse {
	activities := make([]ActivityResponse, 0, len(logs))
	for _, l := range logs {
		activities = append(activities, ActivityResponse{
			ID:         l.ID,
			Action:     l.Action,
			Resource:   l.Resource,
			ResourceID: l.ResourceID,
			IPAddress:  l.IPAddress,
			UserAgent:  l.UserAgent,
			Metadata:   l.Metadata,
			CreatedAt:  l.CreatedAt,
		})
	}
	return ActivityListResponse{
		Activities: activities,
		Pagination: PaginationMeta{Page: page, Limit: limit, Total: total},
	}
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
