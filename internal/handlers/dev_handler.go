package handlers

import (
	"net/http"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	expenseService services.ExpenseServiceInterface
	now            func() time.Time
}

func NewDevHandler(expenseService services.ExpenseServiceInterface) *DevHandler {
	return &DevHandler{expenseService: expenseService, now: time.Now}
}

// GenerateExpenses fills a month with random expenses across the caller's
// categories
//
// Method: POST /api/v1/dev/expenses/generate
// Authentication: Required
// Environment: Development only
//
// Body:
//   - count: number of expenses to generate (1-500)
//   - month: YYYY-MM, defaults to the current month
func (h *DevHandler) GenerateExpenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.GenerateExpensesRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	month := models.MonthOf(h.now())
	if req.Month != "" {
		month, err = models.ParseMonth(req.Month)
		if err != nil {
			return sendInvalidMonth(c)
		}
	}

	created, err := h.expenseService.GenerateForMonth(c.Request().Context(), userID, month, req.Count)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.GenerateExpensesResponse{
		Month:   month.String(),
		Created: created,
	})
}
