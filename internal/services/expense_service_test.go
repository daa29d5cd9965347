package services

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/events"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	expenseRepo  *repository_mocks.MockExpenseRepositoryInterface
	categoryRepo *repository_mocks.MockCategoryRepositoryInterface
	generator    *service_mocks.MockExpenseGeneratorInterface
	publisher    *service_mocks.MockEventPublisherInterface
	auditLogger  *service_mocks.MockAuditLoggerInterface
	metrics      *service_mocks.MockMetricsRecorderInterface
	service      ExpenseServiceInterface
	ctx          context.Context
	userID       uuid.UUID
	category     *models.Category
	month        models.Month
}

func (s *ExpenseServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.expenseRepo = repository_mocks.NewMockExpenseRepositoryInterface(s.ctrl)
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.generator = service_mocks.NewMockExpenseGeneratorInterface(s.ctrl)
	s.publisher = service_mocks.NewMockEventPublisherInterface(s.ctrl)
	s.auditLogger = service_mocks.NewMockAuditLoggerInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.service = NewExpenseService(s.expenseRepo, s.categoryRepo, s.generator, s.publisher, s.auditLogger, s.metrics)
	s.ctx = context.Background()
	s.userID = uuid.New()
	s.category = &models.Category{ID: uuid.New(), UserID: s.userID, Name: "Travel", Color: "#A5D6A7", Icon: "plane"}
	s.month = models.Month{Year: 2024, Month: time.March}
}

func (s *ExpenseServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestExpenseServiceSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}

func (s *ExpenseServiceTestSuite) newExpense() *models.Expense {
	note := gofakeit.ProductName()
	return &models.Expense{
		ID:         uuid.New(),
		UserID:     s.userID,
		CategoryID: s.category.ID,
		Amount:     decimal.RequireFromString("42.50"),
		Date:       time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		Note:       &note,
	}
}

func (s *ExpenseServiceTestSuite) expectActivity(operation string) {
	s.metrics.EXPECT().
		IncrementCounter(MetricDomainOperation, map[string]string{"entity": EntityExpense, "operation": operation}).
		Times(1)
	s.publisher.EXPECT().Publish(s.ctx, gomock.Any()).Times(1)
}

func (s *ExpenseServiceTestSuite) TestListForMonth_UsesMonthBounds() {
	expected := []models.Expense{*s.newExpense()}
	s.expenseRepo.EXPECT().
		GetByDateRange(s.ctx, s.userID, s.month.FirstDay(), s.month.LastDay()).
		Return(expected, nil).
		Times(1)

	expenses, err := s.service.ListForMonth(s.ctx, s.userID, s.month)
	s.Require().NoError(err)
	s.Equal(expected, expenses)
}

func (s *ExpenseServiceTestSuite) TestCreate_Success() {
	expense := s.newExpense()
	expense.Date = time.Date(2024, time.March, 14, 18, 30, 0, 0, time.UTC)

	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(s.category, nil).Times(1)
	s.expenseRepo.EXPECT().Create(s.ctx, expense).Return(nil).Times(1)
	s.auditLogger.EXPECT().LogEntityCreated(s.ctx, EntityExpense, expense.ID, s.userID).Times(1)
	s.expectActivity(OperationCreate)

	created, err := s.service.Create(s.ctx, s.userID, expense)
	s.Require().NoError(err)
	s.Equal(time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), created.Date)
	s.Equal("Travel", created.Category.Name)
}

func (s *ExpenseServiceTestSuite) TestCreate_ForeignCategory() {
	expense := s.newExpense()
	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, s.category.ID).Return(nil, repositories.ErrCategoryNotFound).Times(1)

	_, err := s.service.Create(s.ctx, s.userID, expense)
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *ExpenseServiceTestSuite) TestCreate_InvalidAmount() {
	expense := s.newExpense()
	expense.Amount = decimal.RequireFromString("10.005")

	_, err := s.service.Create(s.ctx, s.userID, expense)
	s.ErrorIs(err, ErrInvalidExpense)
}

func (s *ExpenseServiceTestSuite) TestUpdate_ClearsNote() {
	expense := s.newExpense()
	empty := ""
	patch := models.ExpensePatch{Note: &empty}

	s.expenseRepo.EXPECT().GetByID(s.ctx, s.userID, expense.ID).Return(expense, nil).Times(1)
	s.expenseRepo.EXPECT().Update(s.ctx, expense).Return(nil).Times(1)
	s.auditLogger.EXPECT().LogEntityUpdated(s.ctx, EntityExpense, expense.ID, s.userID, []string{"note"}).Times(1)
	s.expectActivity(OperationUpdate)

	updated, err := s.service.Update(s.ctx, s.userID, expense.ID, patch)
	s.Require().NoError(err)
	s.Nil(updated.Note)
}

func (s *ExpenseServiceTestSuite) TestUpdate_MovesToForeignCategory() {
	expense := s.newExpense()
	other := uuid.New()
	patch := models.ExpensePatch{CategoryID: &other}

	s.expenseRepo.EXPECT().GetByID(s.ctx, s.userID, expense.ID).Return(expense, nil).Times(1)
	s.categoryRepo.EXPECT().GetByID(s.ctx, s.userID, other).Return(nil, repositories.ErrCategoryNotFound).Times(1)

	_, err := s.service.Update(s.ctx, s.userID, expense.ID, patch)
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *ExpenseServiceTestSuite) TestUpdate_NotFound() {
	amount := decimal.RequireFromString("1.00")
	id := uuid.New()
	s.expenseRepo.EXPECT().GetByID(s.ctx, s.userID, id).Return(nil, repositories.ErrExpenseNotFound).Times(1)

	_, err := s.service.Update(s.ctx, s.userID, id, models.ExpensePatch{Amount: &amount})
	s.ErrorIs(err, ErrExpenseNotFound)
}

func (s *ExpenseServiceTestSuite) TestDelete() {
	id := uuid.New()
	s.expenseRepo.EXPECT().Delete(s.ctx, s.userID, id).Return(nil).Times(1)
	s.auditLogger.EXPECT().LogEntityDeleted(s.ctx, EntityExpense, id, s.userID).Times(1)
	s.expectActivity(OperationDelete)

	s.NoError(s.service.Delete(s.ctx, s.userID, id))
}

func (s *ExpenseServiceTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.expenseRepo.EXPECT().Delete(s.ctx, s.userID, id).Return(repositories.ErrExpenseNotFound).Times(1)

	s.ErrorIs(s.service.Delete(s.ctx, s.userID, id), ErrExpenseNotFound)
}

func (s *ExpenseServiceTestSuite) TestGenerateForMonth() {
	categories := []models.Category{*s.category}
	generated := []models.Expense{*s.newExpense(), *s.newExpense()}

	s.categoryRepo.EXPECT().GetByUserID(s.ctx, s.userID).Return(categories, nil).Times(1)
	s.generator.EXPECT().GenerateExpenses(s.userID, categories, s.month, 2).Return(generated).Times(1)
	s.expenseRepo.EXPECT().CreateBatch(s.ctx, generated).Return(nil).Times(1)
	s.auditLogger.EXPECT().LogExpensesGenerated(s.ctx, s.userID, "2024-03", 2).Times(1)
	s.metrics.EXPECT().RecordGauge(MetricExpensesGenerated, float64(2), gomock.Nil()).Times(1)
	s.publisher.EXPECT().
		Publish(s.ctx, gomock.Any()).
		Do(func(_ context.Context, event events.Event) {
			s.Equal(events.ExpensesGenerated, event.Type)
			s.Equal(2, event.Payload["count"])
		}).
		Times(1)

	count, err := s.service.GenerateForMonth(s.ctx, s.userID, s.month, 2)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *ExpenseServiceTestSuite) TestGenerateForMonth_CountOutOfRange() {
	_, err := s.service.GenerateForMonth(s.ctx, s.userID, s.month, 0)
	s.ErrorIs(err, ErrInvalidGenerateCount)

	_, err = s.service.GenerateForMonth(s.ctx, s.userID, s.month, MaxGeneratedExpenses+1)
	s.ErrorIs(err, ErrInvalidGenerateCount)
}

func (s *ExpenseServiceTestSuite) TestGenerateForMonth_NoCategories() {
	s.categoryRepo.EXPECT().GetByUserID(s.ctx, s.userID).Return(nil, nil).Times(1)

	_, err := s.service.GenerateForMonth(s.ctx, s.userID, s.month, 5)
	s.ErrorIs(err, ErrNoCategories)
}
