package services

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	subscriptionRepo *repository_mocks.MockSubscriptionRepositoryInterface
	categoryRepo     *repository_mocks.MockCategoryRepositoryInterface
	publisher        *service_mocks.MockEventPublisherInterface
	auditLogger      *service_mocks.MockAuditLoggerInterface
	metrics          *service_mocks.MockMetricsRecorderInterface
	service          *SubscriptionService
	ctx              context.Context
	userID           uuid.UUID
	category         *models.Category
}

func (s *SubscriptionServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.subscriptionRepo = repository_mocks.NewMockSubscriptionRepositoryInterface(s.ctrl)
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.publisher = service_mocks.NewMockEventPublisherInterface(s.ctrl)
	s.auditLogger = service_mocks.NewMockAuditLoggerInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.service = NewSubscriptionService(s.subscriptionRepo, s.categoryRepo, s.publisher, s.auditLogger, s.metrics).(*SubscriptionService)
	s.service.now = func() time.Time { return time.Date(2024, time.April, 15, 22, 0, 0, 0, time.UTC) }
	s.ctx = context.Background()
	s.userID = uuid.New()
	s.category = &models.Category{ID: uuid.New(), UserID: s.userID, Name: "Entertainment", Color: "#43A047", Icon: "film"}
}

func (s *SubscriptionServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSubscriptionServiceSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}

func (s *SubscriptionServiceTestSuite) newSubscription(recurrence models.Recurrence, start time.Time) models.Subscription {
	return models.Subscription{
		ID:         uuid.New(),
		UserID:     s.userID,
		CategoryID: s.category.ID,
		Name:       "Streaming",
		Amount:     decimal.RequireFromString("15.99"),
		Recurrence: recurrence,
		StartDate:  start,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func (s *SubscriptionServiceTestSuite) TestList_DerivesNextPayment() {
	stale := s.newSubscription(models.RecurrenceMonthly, day(2024, time.January, 15))
	stale.NextPayment = day(2024, time.February, 15)
	annual := s.newSubscription(models.RecurrenceAnnually, day(2022, time.March, 1))
	short := s.newSubscription(models.RecurrenceMonthly, day(2024, time.January, 31))

	s.subscriptionRepo.EXPECT().
		GetByUserID(s.ctx, s.userID).
		Return([]models.Subscription{stale, annual, short}, nil).
		Times(1)

	subs, err := s.service.List(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(subs, 3)
	s.Equal(day(2024, time.May, 15), subs[0].NextPayment, "billing day already passed today")
	s.Equal(day(2025, time.March, 1), subs[1].NextPayment)
	s.Equal(day(2024, time.May, 31), subs[2].NextPayment, "April has no 31st")
}

func (s *SubscriptionServiceTestSuite) TestListForMonth_FiltersToBillingSubscriptions() {
	monthly := s.newSubscription(models.RecurrenceMonthly, day(2023, time.November, 30))
	annualOther := s.newSubscription(models.RecurrenceAnnually, day(2023, time.June, 10))
	annualFeb := s.newSubscription(models.RecurrenceAnnually, day(2020, time.February, 29))
	month := models.Month{Year: 2024, Month: time.February}

	s.subscriptionRepo.EXPECT().
		GetStartedBy(s.ctx, s.userID, month.LastDay()).
		Return([]models.Subscription{monthly, annualOther, annualFeb}, nil).
		Times(1)

	subs, err := s.service.ListForMonth(s.ctx, s.userID, month)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Equal(annualFeb.ID, subs[0].ID)
	s.Equal(day(2024, time.February, 29), subs[0].NextPayment)
}

func (s *SubscriptionServiceTestSuite) TestCreate_StoresNextPayment() {
	sub := s.newSubscription(models.RecurrenceMonthly, day(2024, time.March, 20))
	sub.Name = "  Music  "

	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(s.category, nil).Times(1)
	s.subscriptionRepo.EXPECT().
		Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, stored *models.Subscription) error {
			s.Equal(day(2024, time.April, 20), stored.NextPayment)
			s.Equal("Music", stored.Name)
			return nil
		}).
		Times(1)
	s.auditLogger.EXPECT().LogEntityCreated(s.ctx, EntitySubscription, sub.ID, s.userID).Times(1)
	s.metrics.EXPECT().IncrementCounter(MetricDomainOperation, gomock.Any()).Times(1)
	s.publisher.EXPECT().Publish(s.ctx, gomock.Any()).Times(1)

	created, err := s.service.Create(s.ctx, s.userID, &sub)
	s.Require().NoError(err)
	s.Equal("Entertainment", created.Category.Name)
}

func (s *SubscriptionServiceTestSuite) TestCreate_InvalidRecurrence() {
	sub := s.newSubscription("WEEKLY", day(2024, time.March, 20))

	_, err := s.service.Create(s.ctx, s.userID, &sub)
	s.ErrorIs(err, ErrInvalidSubscription)
}

func (s *SubscriptionServiceTestSuite) TestUpdate_RecomputesSchedule() {
	sub := s.newSubscription(models.RecurrenceMonthly, day(2024, time.January, 5))
	annually := models.RecurrenceAnnually
	patch := models.SubscriptionPatch{Recurrence: &annually}

	s.subscriptionRepo.EXPECT().GetByID(s.ctx, s.userID, sub.ID).Return(&sub, nil).Times(1)
	s.subscriptionRepo.EXPECT().Update(s.ctx, &sub).Return(nil).Times(1)
	s.auditLogger.EXPECT().LogEntityUpdated(s.ctx, EntitySubscription, sub.ID, s.userID, []string{"recurrence"}).Times(1)
	s.metrics.EXPECT().IncrementCounter(MetricDomainOperation, gomock.Any()).Times(1)
	s.publisher.EXPECT().Publish(s.ctx, gomock.Any()).Times(1)

	updated, err := s.service.Update(s.ctx, s.userID, sub.ID, patch)
	s.Require().NoError(err)
	s.Equal(day(2025, time.January, 5), updated.NextPayment)
}

func (s *SubscriptionServiceTestSuite) TestUpdate_Empty() {
	_, err := s.service.Update(s.ctx, s.userID, uuid.New(), models.SubscriptionPatch{})
	s.ErrorIs(err, ErrEmptyUpdate)
}

func (s *SubscriptionServiceTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.subscriptionRepo.EXPECT().Delete(s.ctx, s.userID, id).Return(repositories.ErrSubscriptionNotFound).Times(1)

	s.ErrorIs(s.service.Delete(s.ctx, s.userID, id), ErrSubscriptionNotFound)
}

func (s *SubscriptionServiceTestSuite) TestOccurrences() {
	sub := s.newSubscription(models.RecurrenceMonthly, day(2024, time.January, 31))
	s.subscriptionRepo.EXPECT().GetByID(s.ctx, s.userID, sub.ID).Return(&sub, nil).Times(1)

	occurrences, err := s.service.Occurrences(s.ctx, s.userID, sub.ID, 2024)
	s.Require().NoError(err)
	s.Len(occurrences, 7)
	s.Equal(day(2024, time.January, 31), occurrences[0])
	s.Equal(day(2024, time.March, 31), occurrences[1])
}

func (s *SubscriptionServiceTestSuite) TestOccurrences_InvalidYear() {
	_, err := s.service.Occurrences(s.ctx, s.userID, uuid.New(), 10000)
	s.ErrorIs(err, ErrInvalidYear)
}
