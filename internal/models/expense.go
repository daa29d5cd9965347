package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MaxExpenseNoteLength = 500

var (
	ErrInvalidAmount = errors.New("amount must be positive with at most two decimal places")
)

// Expense is a one-off manual expense on a calendar day.
type Expense struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_expenses_user_date,priority:1" json:"user_id"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date       time.Time       `gorm:"type:date;not null;index:idx_expenses_user_date,priority:2" json:"date"`
	Note       *string         `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}

	e.Date = DateOnly(e.Date)
	return e.Validate()
}

func (e *Expense) BeforeUpdate(tx *gorm.DB) error {
	if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		return nil
	}
	e.UpdatedAt = time.Now()
	e.Date = DateOnly(e.Date)
	return e.Validate()
}

func (e *Expense) Validate() error {
	if e.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if e.CategoryID == uuid.Nil {
		return errors.New("category ID is required")
	}
	if !IsValidAmount(e.Amount) {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return errors.New("expense date is required")
	}
	if e.Note != nil && len(*e.Note) > MaxExpenseNoteLength {
		return errors.New("note is too long")
	}
	return nil
}

func (e *Expense) TableName() string {
	return "expenses"
}

// ExpensePatch lists the fields of an expense a caller may change. Nil fields
// are left untouched; an empty Note clears the stored note.
type ExpensePatch struct {
	Amount     *decimal.Decimal
	Date       *time.Time
	CategoryID *uuid.UUID
	Note       *string
}

func (p ExpensePatch) IsEmpty() bool {
	return p.Amount == nil && p.Date == nil && p.CategoryID == nil && p.Note == nil
}

// Fields names the set fields in JSON form.
func (p ExpensePatch) Fields() []string {
	var fields []string
	if p.Amount != nil {
		fields = append(fields, "amount")
	}
	if p.Date != nil {
		fields = append(fields, "date")
	}
	if p.CategoryID != nil {
		fields = append(fields, "categoryId")
	}
	if p.Note != nil {
		fields = append(fields, "note")
	}
	return fields
}

// Apply copies the set fields onto e.
func (p ExpensePatch) Apply(e *Expense) {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = DateOnly(*p.Date)
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
		e.Category = Category{}
	}
	if p.Note != nil {
		if *p.Note == "" {
			e.Note = nil
		} else {
			note := *p.Note
			e.Note = &note
		}
	}
}

// IsValidAmount reports whether d is a positive amount with at most two
// fraction digits.
func IsValidAmount(d decimal.Decimal) bool {
	if !d.IsPositive() {
		return false
	}
	return d.Equal(d.Truncate(2))
}
