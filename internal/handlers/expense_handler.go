package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// ExpenseHandler serves manual expenses and the monthly views built from them
type ExpenseHandler struct {
	expenseService   services.ExpenseServiceInterface
	dashboardService services.DashboardServiceInterface
	exportService    services.ExportServiceInterface
	now              func() time.Time
}

func NewExpenseHandler(
	expenseService services.ExpenseServiceInterface,
	dashboardService services.DashboardServiceInterface,
	exportService services.ExportServiceInterface,
) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService:   expenseService,
		dashboardService: dashboardService,
		exportService:    exportService,
		now:              time.Now,
	}
}

// ListExpenses returns the expenses of a month, newest first
// @Summary List expenses
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param month query string false "Month as YYYY-MM, defaults to the current month"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 400 {object} errors.ErrorResponse "Malformed month - VALIDATION_003"
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month, err := getMonthParam(c, h.now())
	if err != nil {
		return sendInvalidMonth(c)
	}

	expenses, err := h.expenseService.ListForMonth(c.Request().Context(), userID, month)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewExpenseListResponse(expenses))
}

func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return sendInvalidID(c)
	}

	expense, err := h.expenseService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewExpenseResponse(expense))
}

// CreateExpense
// @Summary Create expense
// @Tags Expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 404 {object} errors.ErrorResponse "Unknown category - CATEGORY_001"
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	expense, err := req.ToModel(userID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate)
	}

	created, err := h.expenseService.Create(c.Request().Context(), userID, expense)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewExpenseResponse(created))
}

// UpdateExpense changes only the fields present in the body. An empty note
// clears it.
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return sendInvalidID(c)
	}

	var req dto.UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	patch, err := req.ToPatch()
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate)
	}

	expense, err := h.expenseService.Update(c.Request().Context(), userID, id, patch)
	if err != nil {
		if stderrors.Is(err, services.ErrEmptyUpdate) {
			return SendError(c, errors.ExpenseEmptyUpdate)
		}
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewExpenseResponse(expense))
}

func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return sendInvalidID(c)
	}

	if err := h.expenseService.Delete(c.Request().Context(), userID, id); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetDashboard returns the spending summary of a month
// @Summary Monthly dashboard
// @Description Totals, top categories, month-over-month comparison and chart series. Subscriptions count on their billing day.
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param month query string false "Month as YYYY-MM"
// @Success 200 {object} dto.DashboardResponse
// @Router /expenses/dashboard [get]
func (h *ExpenseHandler) GetDashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month, err := getMonthParam(c, h.now())
	if err != nil {
		return sendInvalidMonth(c)
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request().Context(), userID, month)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewDashboardResponse(*dashboard))
}

// ExportExpenses returns every charge of a month as CSV (default) or JSON
// @Summary Export a month
// @Tags Expenses
// @Security BearerAuth
// @Produce text/csv,json
// @Param month query string false "Month as YYYY-MM"
// @Param format query string false "csv or json"
// @Success 200 {object} dto.ExportResponse
// @Router /expenses/export [get]
func (h *ExpenseHandler) ExportExpenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.ExportQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return sendInvalidBody(c)
	}

	month := models.MonthOf(h.now())
	if query.Month != "" {
		month, err = models.ParseMonth(query.Month)
		if err != nil {
			return sendInvalidMonth(c)
		}
	}

	if err := c.Validate(query); err != nil {
		return err
	}
	format := query.Format
	if format == "" {
		format = dto.ExportFormatCSV
	}

	export, err := h.exportService.BuildMonthlyExport(c.Request().Context(), userID, month)
	if err != nil {
		return sendServiceError(c, err)
	}

	if format == dto.ExportFormatJSON {
		return c.JSON(http.StatusOK, dto.NewExportResponse(export))
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(&buf, export); err != nil {
		return SendSystemError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="expenses-%s.csv"`, month))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
