package dto

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents the expense creation payload. Amount accepts
// a JSON string or number and is kept as an exact decimal.
type CreateExpenseRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"required,money"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	CategoryID uuid.UUID       `json:"categoryId" validate:"required"`
	Note       *string         `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateExpenseRequest) ToModel(userID uuid.UUID) (*models.Expense, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:     userID,
		CategoryID: r.CategoryID,
		Amount:     r.Amount,
		Date:       date,
	}
	if r.Note != nil && *r.Note != "" {
		note := *r.Note
		expense.Note = &note
	}
	return expense, nil
}

// UpdateExpenseRequest lists the settable expense fields. An empty note clears it.
type UpdateExpenseRequest struct {
	Amount     *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,money"`
	Date       *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CategoryID *uuid.UUID       `json:"categoryId,omitempty"`
	Note       *string          `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateExpenseRequest) ToPatch() (models.ExpensePatch, error) {
	patch := models.ExpensePatch{
		Amount:     r.Amount,
		CategoryID: r.CategoryID,
		Note:       r.Note,
	}
	if r.Date != nil {
		date, err := models.ParseDate(*r.Date)
		if err != nil {
			return models.ExpensePatch{}, err
		}
		patch.Date = &date
	}
	return patch, nil
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID         uuid.UUID         `json:"id"`
	Amount     string            `json:"amount"`
	Date       string            `json:"date"`
	CategoryID uuid.UUID         `json:"categoryId"`
	Category   *CategoryResponse `json:"category,omitempty"`
	Note       *string           `json:"note"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func NewExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:         e.ID,
		Amount:     e.Amount.StringFixed(2),
		Date:       models.FormatDate(e.Date),
		CategoryID: e.CategoryID,
		Category:   embeddedCategory(e.Category),
		Note:       e.Note,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func NewExpenseListResponse(expenses []models.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, NewExpenseResponse(&expenses[i]))
	}
	return out
}

// GenerateExpensesRequest asks for random demo expenses in a month
type GenerateExpensesRequest struct {
	Count int    `json:"count" validate:"required,min=1,max=500"`
	Month string `json:"month,omitempty" validate:"omitempty,yearmonth"`
}

// GenerateExpensesResponse reports how many expenses were generated
type GenerateExpensesResponse struct {
	Month   string `json:"month"`
	Created int    `json:"created"`
}
