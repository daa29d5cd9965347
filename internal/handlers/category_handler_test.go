package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestCategoryHandler(t *testing.T) {
	suite.Run(t, new(CategoryHandlerSuite))
}

type CategoryHandlerSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	categoryService *service_mocks.MockCategoryServiceInterface
	handler         *CategoryHandler
	e               *echo.Echo
	userID          uuid.UUID
}

func (s *CategoryHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categoryService = service_mocks.NewMockCategoryServiceInterface(s.ctrl)
	s.handler = NewCategoryHandler(s.categoryService)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *CategoryHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CategoryHandlerSuite) TestListCategories() {
	categories := []models.Category{
		{ID: uuid.New(), Name: "Education", Color: "#81C784", Icon: "graduation-cap"},
		{ID: uuid.New(), Name: "Travel", Color: "#A5D6A7", Icon: "plane"},
	}
	s.categoryService.EXPECT().List(gomock.Any(), s.userID).Return(categories, nil).Times(1)

	c, rec := newRequestContext(s.e, http.MethodGet, "/categories", nil, &s.userID)

	s.NoError(s.handler.ListCategories(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp []dto.CategoryResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp, 2)
	s.Equal("Education", resp[0].Name)
}

func (s *CategoryHandlerSuite) TestCreateCategory() {
	s.Run("rejects bad color", func() {
		body := map[string]string{"name": "Pets", "color": "brown", "icon": "paw"}
		c, _ := newRequestContext(s.e, http.MethodPost, "/categories", body, &s.userID)

		s.Error(s.handler.CreateCategory(c))
	})

	s.Run("creates", func() {
		body := map[string]string{"name": "Pets", "color": "#795548", "icon": "paw"}
		s.categoryService.EXPECT().
			Create(gomock.Any(), s.userID, &dto.CreateCategoryRequest{Name: "Pets", Color: "#795548", Icon: "paw"}).
			Return(&models.Category{ID: uuid.New(), UserID: s.userID, Name: "Pets", Color: "#795548", Icon: "paw"}, nil).
			Times(1)

		c, rec := newRequestContext(s.e, http.MethodPost, "/categories", body, &s.userID)

		s.NoError(s.handler.CreateCategory(c))
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *CategoryHandlerSuite) TestGetCategory_InvalidID() {
	c, rec := newRequestContext(s.e, http.MethodGet, "/categories/nope", nil, &s.userID)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	s.NoError(s.handler.GetCategory(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_008", decodeError(rec).Error.Code)
}

func (s *CategoryHandlerSuite) TestUpdateCategory_Empty() {
	id := uuid.New()
	s.categoryService.EXPECT().Update(gomock.Any(), s.userID, id, models.CategoryPatch{}).Return(nil, services.ErrEmptyUpdate).Times(1)

	c, rec := newRequestContext(s.e, http.MethodPut, "/categories/"+id.String(), map[string]string{}, &s.userID)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.NoError(s.handler.UpdateCategory(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_002", decodeError(rec).Error.Code)
}

func (s *CategoryHandlerSuite) TestDeleteCategory() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"deleted", nil, http.StatusNoContent, ""},
		{"in use", fmt.Errorf("%w: 3 expenses, 0 subscriptions", services.ErrCategoryInUse), http.StatusConflict, "CATEGORY_002"},
		{"foreign category", services.ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_001"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			id := uuid.New()
			s.categoryService.EXPECT().Delete(gomock.Any(), s.userID, id).Return(tt.err).Times(1)

			c, rec := newRequestContext(s.e, http.MethodDelete, "/categories/"+id.String(), nil, &s.userID)
			c.SetParamNames("id")
			c.SetParamValues(id.String())

			s.NoError(s.handler.DeleteCategory(c))
			s.Equal(tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				resp := decodeError(rec)
				s.Equal(tt.wantCode, resp.Error.Code)
			}
		})
	}
}
