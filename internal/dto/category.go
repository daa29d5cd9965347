package dto

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"required,hexcolor6"`
	Icon  string `json:"icon" validate:"required,min=1,max=50"`
}

// UpdateCategoryRequest carries the fields to change; omitted fields stay as they are
type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor6"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,min=1,max=50"`
}

func (r *UpdateCategoryRequest) ToPatch() models.CategoryPatch {
	return models.CategoryPatch{Name: r.Name, Color: r.Color, Icon: r.Icon}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCategoryListResponse(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}

// embeddedCategory returns nil when the association was not loaded.
func embeddedCategory(c models.Category) *CategoryResponse {
	if c.ID == uuid.Nil {
		return nil
	}
	resp := NewCategoryResponse(&c)
	return &resp
}
