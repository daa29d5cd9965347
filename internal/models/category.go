package models

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxCategoryNameLength = 50
	MaxCategoryIconLength = 50
)

var (
	ErrInvalidCategoryColor = errors.New("category color must be a #RRGGBB hex value")

	hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Category groups expenses and subscriptions. Icon is a Lucide glyph name.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null" json:"color"`
	Icon      string    `gorm:"type:varchar(50);not null" json:"icon"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		return nil
	}
	c.UpdatedAt = time.Now()
	return c.Validate()
}

func (c *Category) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if c.Name == "" {
		return errors.New("category name is required")
	}
	if len(c.Name) > MaxCategoryNameLength {
		return errors.New("category name is too long")
	}
	if !IsValidHexColor(c.Color) {
		return ErrInvalidCategoryColor
	}
	if c.Icon == "" || len(c.Icon) > MaxCategoryIconLength {
		return errors.New("category icon must be 1-50 characters")
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}

func IsValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// DefaultCategory is a template for the categories every new user starts with.
type DefaultCategory struct {
	Name  string
	Color string
	Icon  string
}

// DefaultCategories returns the starter category set in display order.
func DefaultCategories() []DefaultCategory {
	return []DefaultCategory{
		{Name: "Food & Dining", Color: "#65CE55", Icon: "utensils"},
		{Name: "Transportation", Color: "#4CAF50", Icon: "car"},
		{Name: "Housing", Color: "#2E7D32", Icon: "home"},
		{Name: "Utilities", Color: "#1B5E20", Icon: "zap"},
		{Name: "Shopping", Color: "#388E3C", Icon: "shopping-bag"},
		{Name: "Entertainment", Color: "#43A047", Icon: "film"},
		{Name: "Healthcare", Color: "#66BB6A", Icon: "heart-pulse"},
		{Name: "Education", Color: "#81C784", Icon: "graduation-cap"},
		{Name: "Travel", Color: "#A5D6A7", Icon: "plane"},
		{Name: "Other", Color: "#C8E6C9", Icon: "circle-ellipsis"},
	}
}

// CategoryPatch lists the settable fields of a category.
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Color == nil && p.Icon == nil
}

func (p CategoryPatch) Fields() []string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Color != nil {
		fields = append(fields, "color")
	}
	if p.Icon != nil {
		fields = append(fields, "icon")
	}
	return fields
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
}

// NewDefaultCategories builds the starter categories for userID.
func NewDefaultCategories(userID uuid.UUID) []Category {
	defaults := DefaultCategories()
	categories := make([]Category, len(defaults))
	for i, def := range defaults {
		categories[i] = Category{
			UserID: userID,
			Name:   def.Name,
			Color:  def.Color,
			Icon:   def.Icon,
		}
	}
	return categories
}
