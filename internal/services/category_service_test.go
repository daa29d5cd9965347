package services

import (
	"context"
	"errors"
	"testing"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/events"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CategoryServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	categoryRepo *repository_mocks.MockCategoryRepositoryInterface
	publisher    *service_mocks.MockEventPublisherInterface
	auditLogger  *service_mocks.MockAuditLoggerInterface
	metrics      *service_mocks.MockMetricsRecorderInterface
	service      CategoryServiceInterface
	ctx          context.Context
	userID       uuid.UUID
	category     *models.Category
}

func (s *CategoryServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.publisher = service_mocks.NewMockEventPublisherInterface(s.ctrl)
	s.auditLogger = service_mocks.NewMockAuditLoggerInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.service = NewCategoryService(s.categoryRepo, s.publisher, s.auditLogger, s.metrics)
	s.ctx = context.Background()
	s.userID = uuid.New()
	s.category = &models.Category{
		ID:     uuid.New(),
		UserID: s.userID,
		Name:   "Groceries",
		Color:  "#4CAF50",
		Icon:   "cart",
	}
}

func (s *CategoryServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCategoryServiceSuite(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}

func (s *CategoryServiceTestSuite) expectActivity(operation string, eventType events.Type) {
	s.metrics.EXPECT().
		IncrementCounter(MetricDomainOperation, map[string]string{"entity": EntityCategory, "operation": operation}).
		Times(1)
	s.publisher.EXPECT().
		Publish(s.ctx, gomock.Any()).
		Do(func(_ context.Context, event events.Event) {
			s.Equal(eventType, event.Type)
			s.Equal(s.userID, event.UserID)
		}).
		Times(1)
}

func (s *CategoryServiceTestSuite) TestCreate_NormalizesAndPublishes() {
	req := &dto.CreateCategoryRequest{Name: "  Travel ", Color: "#ff9800", Icon: "plane"}

	s.categoryRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Category) error {
			c.ID = uuid.New()
			return nil
		}).
		Times(1)
	s.auditLogger.EXPECT().LogEntityCreated(s.ctx, EntityCategory, gomock.Any(), s.userID).Times(1)
	s.expectActivity(OperationCreate, events.CategoryCreated)

	category, err := s.service.Create(s.ctx, s.userID, req)
	s.Require().NoError(err)
	s.Equal("Travel", category.Name)
	s.Equal("#FF9800", category.Color)
	s.Equal(s.userID, category.UserID)
}

func (s *CategoryServiceTestSuite) TestCreate_InvalidColor() {
	req := &dto.CreateCategoryRequest{Name: "Travel", Color: "orange", Icon: "plane"}

	_, err := s.service.Create(s.ctx, s.userID, req)
	s.ErrorIs(err, ErrInvalidCategory)
}

func (s *CategoryServiceTestSuite) TestGet_NotFound() {
	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(nil, repositories.ErrCategoryNotFound).Times(1)

	_, err := s.service.Get(s.ctx, s.userID, s.category.ID)
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *CategoryServiceTestSuite) TestList_RepositoryError() {
	s.categoryRepo.EXPECT().GetByUserID(s.ctx, s.userID).Return(nil, errors.New("connection reset")).Times(1)

	_, err := s.service.List(s.ctx, s.userID)
	s.Error(err)
}

func (s *CategoryServiceTestSuite) TestUpdate_Empty() {
	_, err := s.service.Update(s.ctx, s.userID, s.category.ID, models.CategoryPatch{})
	s.ErrorIs(err, ErrEmptyUpdate)
}

func (s *CategoryServiceTestSuite) TestUpdate_RenamesCategory() {
	name := "Food"
	patch := models.CategoryPatch{Name: &name}

	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(s.category, nil).Times(1)
	s.categoryRepo.EXPECT().Update(s.ctx, s.category).Return(nil).Times(1)
	s.auditLogger.EXPECT().LogEntityUpdated(s.ctx, EntityCategory, s.category.ID, s.userID, []string{"name"}).Times(1)
	s.expectActivity(OperationUpdate, events.CategoryUpdated)

	category, err := s.service.Update(s.ctx, s.userID, s.category.ID, patch)
	s.Require().NoError(err)
	s.Equal("Food", category.Name)
}

func (s *CategoryServiceTestSuite) TestDelete_InUse() {
	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(s.category, nil).Times(1)
	s.categoryRepo.EXPECT().CountUsage(s.ctx, s.category.ID).Return(int64(0), int64(2), nil).Times(1)

	err := s.service.Delete(s.ctx, s.userID, s.category.ID)
	s.ErrorIs(err, ErrCategoryInUse)
	s.Contains(err.Error(), "2 subscriptions")
}

func (s *CategoryServiceTestSuite) TestDelete_RaceWithNewExpense() {
	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(s.category, nil).Times(1)
	s.categoryRepo.EXPECT().CountUsage(s.ctx, s.category.ID).Return(int64(0), int64(0), nil).Times(1)
	s.categoryRepo.EXPECT().Delete(s.ctx, s.userID, s.category.ID).Return(repositories.ErrCategoryInUse).Times(1)

	err := s.service.Delete(s.ctx, s.userID, s.category.ID)
	s.ErrorIs(err, ErrCategoryInUse)
}

func (s *CategoryServiceTestSuite) TestDelete_Success() {
	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(s.category, nil).Times(1)
	s.categoryRepo.EXPECT().CountUsage(s.ctx, s.category.ID).Return(int64(0), int64(0), nil).Times(1)
	s.categoryRepo.EXPECT().Delete(s.ctx, s.userID, s.category.ID).Return(nil).Times(1)
	s.auditLogger.EXPECT().LogEntityDeleted(s.ctx, EntityCategory, s.category.ID, s.userID).Times(1)
	s.expectActivity(OperationDelete, events.CategoryDeleted)

	s.NoError(s.service.Delete(s.ctx, s.userID, s.category.ID))
}
