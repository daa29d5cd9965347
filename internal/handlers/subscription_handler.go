package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandler serves recurring charges. Every response carries a
// nextPayment derived for the request.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServiceInterface
	now                 func() time.Time
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, now: time.Now}
}

// ListSubscriptions
// @Summary List subscriptions
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.SubscriptionResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	subscriptions, err := h.subscriptionService.List(c.Request().Context(), userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSubscriptionListResponse(subscriptions))
}

// ListForMonth returns only the subscriptions billing in the month, with
// nextPayment set to that month's billing day
// @Summary Subscriptions billing in a month
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param month query string false "Month as YYYY-MM"
// @Success 200 {array} dto.SubscriptionResponse
// @Router /subscriptions/month [get]
func (h *SubscriptionHandler) ListForMonth(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	month, err := getMonthParam(c, h.now())
	if err != nil {
		return sendInvalidMonth(c)
	}

	subscriptions, err := h.subscriptionService.ListForMonth(c.Request().Context(), userID, month)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSubscriptionListResponse(subscriptions))
}

func (h *SubscriptionHandler) GetSubscription(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return sendInvalidID(c)
	}

	subscription, err := h.subscriptionService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSubscriptionResponse(subscription))
}

// GetOccurrences lists the billing days of a subscription in a year
func (h *SubscriptionHandler) GetOccurrences(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return sendInvalidID(c)
	}

	year := h.now().UTC().Year()
	if raw := c.QueryParam("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			return SendError(c, errors.ValidationGeneral, errors.WithDetails("year: must be a valid number"))
		}
	}

	dates, err := h.subscriptionService.Occurrences(c.Request().Context(), userID, id, year)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewOccurrencesResponse(id, year, dates))
}

// CreateSubscription
// @Summary Create subscription
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSubscriptionRequest true "Subscription"
// @Success 201 {object} dto.SubscriptionResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	subscription, err := req.ToModel(userID)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate)
	}

	created, err := h.subscriptionService.Create(c.Request().Context(), userID, subscription)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewSubscriptionResponse(created))
}

func (h *SubscriptionHandler) UpdateSubscription(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return sendInvalidID(c)
	}

	var req dto.UpdateSubscriptionRequest
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

	subscription, err := h.subscriptionService.Update(c.Request().Context(), userID, id, patch)
	if err != nil {
		if stderrors.Is(err, services.ErrEmptyUpdate) {
			return SendError(c, errors.SubscriptionEmptyUpdate)
		}
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSubscriptionResponse(subscription))
}

func (h *SubscriptionHandler) DeleteSubscription(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	id, err := getUUIDParam(c, "id")
	if err != nil {
		return sendInvalidID(c)
	}

	if err := h.subscriptionService.Delete(c.Request().Context(), userID, id); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
