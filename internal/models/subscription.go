package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recurrence is the billing cadence of a subscription.
type Recurrence string

const (
	RecurrenceMonthly  Recurrence = "MONTHLY"
	RecurrenceAnnually Recurrence = "ANNUALLY"
)

const MaxSubscriptionNameLength = 100

var ErrInvalidRecurrence = errors.New("recurrence must be MONTHLY or ANNUALLY")

func (r Recurrence) IsValid() bool {
	return r == RecurrenceMonthly || r == RecurrenceAnnually
}

func (r Recurrence) String() string {
	return string(r)
}

// Subscription is a recurring charge. NextPayment is a cache written on every
// save; readers derive the billing date from StartDate and Recurrence instead.
type Subscription struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	LogoURL     *string         `gorm:"type:text" json:"logo_url,omitempty"`
	Recurrence  Recurrence      `gorm:"type:varchar(20);not null" json:"recurrence"`
	StartDate   time.Time       `gorm:"type:date;not null" json:"start_date"`
	NextPayment time.Time       `gorm:"type:date;not null" json:"next_payment"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	s.StartDate = DateOnly(s.StartDate)
	s.NextPayment = DateOnly(s.NextPayment)
	return s.Validate()
}

func (s *Subscription) BeforeUpdate(tx *gorm.DB) error {
	if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		return nil
	}
	s.UpdatedAt = time.Now()
	s.StartDate = DateOnly(s.StartDate)
	s.NextPayment = DateOnly(s.NextPayment)
	return s.Validate()
}

func (s *Subscription) Validate() error {
	if s.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if s.CategoryID == uuid.Nil {
		return errors.New("category ID is required")
	}
	if s.Name == "" || len(s.Name) > MaxSubscriptionNameLength {
		return errors.New("subscription name must be 1-100 characters")
	}
	if !IsValidAmount(s.Amount) {
		return ErrInvalidAmount
	}
	if !s.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}
	if s.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	return nil
}

func (s *Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionPatch lists the settable fields of a subscription. An empty
// LogoURL clears the stored logo.
type SubscriptionPatch struct {
	Name       *string
	Amount     *decimal.Decimal
	LogoURL    *string
	Recurrence *Recurrence
	StartDate  *time.Time
	CategoryID *uuid.UUID
}

func (p SubscriptionPatch) IsEmpty() bool {
	return p.Name == nil && p.Amount == nil && p.LogoURL == nil &&
		p.Recurrence == nil && p.StartDate == nil && p.CategoryID == nil
}

// ChangesSchedule reports whether the patch touches the billing schedule.
func (p SubscriptionPatch) ChangesSchedule() bool {
	return p.Recurrence != nil || p.StartDate != nil
}

func (p SubscriptionPatch) Fields() []string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Amount != nil {
		fields = append(fields, "amount")
	}
	if p.LogoURL != nil {
		fields = append(fields, "logoUrl")
	}
	if p.Recurrence != nil {
		fields = append(fields, "recurrence")
	}
	if p.StartDate != nil {
		fields = append(fields, "startDate")
	}
	if p.CategoryID != nil {
		fields = append(fields, "categoryId")
	}
	return fields
}

func (p SubscriptionPatch) Apply(s *Subscription) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.LogoURL != nil {
		if *p.LogoURL == "" {
			s.LogoURL = nil
		} else {
			logo := *p.LogoURL
			s.LogoURL = &logo
		}
	}
	if p.Recurrence != nil {
		s.Recurrence = *p.Recurrence
	}
	if p.StartDate != nil {
		s.StartDate = DateOnly(*p.StartDate)
	}
	if p.CategoryID != nil {
		s.CategoryID = *p.CategoryID
		s.Category = Category{}
	}
}
