package dto

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSubscriptionRequest represents the subscription creation payload
type CreateSubscriptionRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=100"`
	Amount     decimal.Decimal `json:"amount" validate:"required,money"`
	LogoURL    *string         `json:"logoUrl,omitempty" validate:"omitempty,url,max=2048"`
	Recurrence string          `json:"recurrence" validate:"required,recurrence"`
	StartDate  string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	CategoryID uuid.UUID       `json:"categoryId" validate:"required"`
}

func (r *CreateSubscriptionRequest) ToModel(userID uuid.UUID) (*models.Subscription, error) {
	start, err := models.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		UserID:     userID,
		CategoryID: r.CategoryID,
		Name:       r.Name,
		Amount:     r.Amount,
		Recurrence: models.Recurrence(r.Recurrence),
		StartDate:  start,
	}
	if r.LogoURL != nil && *r.LogoURL != "" {
		logo := *r.LogoURL
		sub.LogoURL = &logo
	}
	return sub, nil
}

// UpdateSubscriptionRequest lists the settable subscription fields. An empty
// logoUrl clears the logo.
type UpdateSubscriptionRequest struct {
	Name       *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Amount     *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,money"`
	LogoURL    *string          `json:"logoUrl,omitempty" validate:"omitempty,url,max=2048"`
	Recurrence *string          `json:"recurrence,omitempty" validate:"omitempty,recurrence"`
	StartDate  *string          `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CategoryID *uuid.UUID       `json:"categoryId,omitempty"`
}

func (r *UpdateSubscriptionRequest) ToPatch() (models.SubscriptionPatch, error) {
	patch := models.SubscriptionPatch{
		Name:       r.Name,
		Amount:     r.Amount,
		LogoURL:    r.LogoURL,
		CategoryID: r.CategoryID,
	}
	if r.Recurrence != nil {
		recurrence := models.Recurrence(*r.Recurrence)
		patch.Recurrence = &recurrence
	}
	if r.StartDate != nil {
		start, err := models.ParseDate(*r.StartDate)
		if err != nil {
			return models.SubscriptionPatch{}, err
		}
		patch.StartDate = &start
	}
	return patch, nil
}

// SubscriptionResponse represents a subscription in API responses.
// NextPayment is derived for the request, never read from storage.
type SubscriptionResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Amount      string            `json:"amount"`
	LogoURL     *string           `json:"logoUrl"`
	Recurrence  string            `json:"recurrence"`
	StartDate   string            `json:"startDate"`
	NextPayment string            `json:"nextPayment"`
	CategoryID  uuid.UUID         `json:"categoryId"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func NewSubscriptionResponse(s *models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:          s.ID,
		Name:        s.Name,
		Amount:      s.Amount.StringFixed(2),
		LogoURL:     s.LogoURL,
		Recurrence:  s.Recurrence.String(),
		StartDate:   models.FormatDate(s.StartDate),
		NextPayment: models.FormatDate(s.NextPayment),
		CategoryID:  s.CategoryID,
		Category:    embeddedCategory(s.Category),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewSubscriptionListResponse(subscriptions []models.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subscriptions))
	for i := range subscriptions {
		out = append(out, NewSubscriptionResponse(&subscriptions[i]))
	}
	return out
}

// OccurrencesResponse lists the billing days of one subscription in a year
type OccurrencesResponse struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	Year           int       `json:"year"`
	Dates          []string  `json:"dates"`
}

func NewOccurrencesResponse(id uuid.UUID, year int, dates []time.Time) OccurrencesResponse {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.FormatDate(d))
	}
	return OccurrencesResponse{SubscriptionID: id, Year: year, Dates: out}
}
