package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevHandler_GenerateExpenses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expenseService := service_mocks.NewMockExpenseServiceInterface(ctrl)
	handler := NewDevHandler(expenseService)
	handler.now = func() time.Time { return time.Date(2024, time.September, 9, 0, 0, 0, 0, time.UTC) }
	e := newTestEcho()
	userID := uuid.New()

	t.Run("defaults to current month", func(t *testing.T) {
		expenseService.EXPECT().
			GenerateForMonth(gomock.Any(), userID, models.Month{Year: 2024, Month: time.September}, 25).
			Return(25, nil).
			Times(1)

		c, rec := newRequestContext(e, http.MethodPost, "/dev/expenses/generate", map[string]int{"count": 25}, &userID)

		require.NoError(t, handler.GenerateExpenses(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp dto.GenerateExpensesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2024-09", resp.Month)
		assert.Equal(t, 25, resp.Created)
	})

	t.Run("count above limit", func(t *testing.T) {
		c, _ := newRequestContext(e, http.MethodPost, "/dev/expenses/generate", map[string]int{"count": 501}, &userID)

		assert.Error(t, handler.GenerateExpenses(c))
	})

	t.Run("no categories", func(t *testing.T) {
		expenseService.EXPECT().
			GenerateForMonth(gomock.Any(), userID, models.Month{Year: 2023, Month: time.December}, 5).
			Return(0, services.ErrNoCategories).
			Times(1)

		body := map[string]interface{}{"count": 5, "month": "2023-12"}
		c, rec := newRequestContext(e, http.MethodPost, "/dev/expenses/generate", body, &userID)

		require.NoError(t, handler.GenerateExpenses(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "CATEGORY_001", decodeError(rec).Error.Code)
	})
}
