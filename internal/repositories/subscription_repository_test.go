package repositories

import (
	"context"
	"testing"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestSubscriptionRepository(t *testing.T) {
	suite.Run(t, new(SubscriptionRepositorySuite))
}

type SubscriptionRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     SubscriptionRepositoryInterface
	ctx      context.Context
	user     *models.User
	category *models.Category
}

func (s *SubscriptionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewSubscriptionRepository(s.db.DB)
	s.ctx = context.Background()
	s.user = database.CreateTestUser(s.T(), s.db, "subscriber@example.com")
	s.category = database.CreateTestCategory(s.T(), s.db, s.user.ID, "Entertainment")
}

func (s *SubscriptionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *SubscriptionRepositorySuite) TestCreate() {
	start, _ := models.ParseDate("2024-01-31")
	subscription := &models.Subscription{
		UserID:      s.user.ID,
		CategoryID:  s.category.ID,
		Name:        "Spotify",
		Amount:      decimal.RequireFromString("10.99"),
		LogoURL:     strPtr("https://logo.example.com/spotify.png"),
		Recurrence:  models.RecurrenceMonthly,
		StartDate:   start,
		NextPayment: start,
	}

	s.Require().NoError(s.repo.Create(s.ctx, subscription))
	s.NotEqual(uuid.Nil, subscription.ID)

	found, err := s.repo.GetByID(s.ctx, s.user.ID, subscription.ID)
	s.Require().NoError(err)
	s.Equal("Spotify", found.Name)
	s.Equal(models.RecurrenceMonthly, found.Recurrence)
	s.Equal("2024-01-31", models.FormatDate(found.StartDate))
	s.Equal("Entertainment", found.Category.Name)
}

func (s *SubscriptionRepositorySuite) TestCreateRejectsUnknownRecurrence() {
	start, _ := models.ParseDate("2024-01-01")

	err := s.repo.Create(s.ctx, &models.Subscription{
		UserID:      s.user.ID,
		CategoryID:  s.category.ID,
		Name:        "Weekly box",
		Amount:      decimal.NewFromInt(20),
		Recurrence:  models.Recurrence("WEEKLY"),
		StartDate:   start,
		NextPayment: start,
	})
	s.ErrorIs(err, models.ErrInvalidRecurrence)
}

func (s *SubscriptionRepositorySuite) TestGetByUserIDOrderedByStartDate() {
	late := database.CreateTestSubscription(s.T(), s.db, s.user.ID, s.category.ID, "Late", "5.00", models.RecurrenceMonthly, "2024-06-01")
	early := database.CreateTestSubscription(s.T(), s.db, s.user.ID, s.category.ID, "Early", "5.00", models.RecurrenceAnnually, "2023-02-10")

	subscriptions, err := s.repo.GetByUserID(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(subscriptions, 2)
	s.Equal(early.ID, subscriptions[0].ID)
	s.Equal(late.ID, subscriptions[1].ID)
}

func (s *SubscriptionRepositorySuite) TestGetStartedBy() {
	database.CreateTestSubscription(s.T(), s.db, s.user.ID, s.category.ID, "Started", "5.00", models.RecurrenceMonthly, "2024-03-31")
	database.CreateTestSubscription(s.T(), s.db, s.user.ID, s.category.ID, "Future", "5.00", models.RecurrenceMonthly, "2024-04-01")

	day, _ := models.ParseDate("2024-03-31")
	subscriptions, err := s.repo.GetStartedBy(s.ctx, s.user.ID, day)
	s.Require().NoError(err)
	s.Require().Len(subscriptions, 1)
	s.Equal("Started", subscriptions[0].Name)
}

func (s *SubscriptionRepositorySuite) TestGetByIDScopedToOwner() {
	subscription := database.CreateTestSubscription(s.T(), s.db, s.user.ID, s.category.ID, "Netflix", "15.49", models.RecurrenceMonthly, "2024-01-15")
	stranger := database.CreateTestUser(s.T(), s.db, "stranger@example.com")

	_, err := s.repo.GetByID(s.ctx, stranger.ID, subscription.ID)
	s.ErrorIs(err, ErrSubscriptionNotFound)
}

func (s *SubscriptionRepositorySuite) TestUpdate() {
	subscription := database.CreateTestSubscription(s.T(), s.db, s.user.ID, s.category.ID, "Netflix", "15.49", models.RecurrenceMonthly, "2024-01-15")

	next, _ := models.ParseDate("2025-01-15")
	subscription.Name = "Netflix Premium"
	subscription.Amount = decimal.RequireFromString("22.99")
	subscription.Recurrence = models.RecurrenceAnnually
	subscription.NextPayment = next

	s.NoError(s.repo.Update(s.ctx, subscription))

	found, err := s.repo.GetByID(s.ctx, s.user.ID, subscription.ID)
	s.Require().NoError(err)
	s.Equal("Netflix Premium", found.Name)
	s.True(found.Amount.Equal(decimal.RequireFromString("22.99")))
	s.Equal(models.RecurrenceAnnually, found.Recurrence)
	s.Equal("2025-01-15", models.FormatDate(found.NextPayment))

	stranger := database.CreateTestUser(s.T(), s.db, "stranger@example.com")
	hijack := *subscription
	hijack.UserID = stranger.ID
	s.ErrorIs(s.repo.Update(s.ctx, &hijack), ErrSubscriptionNotFound)
}

func (s *SubscriptionRepositorySuite) TestDelete() {
	subscription := database.CreateTestSubscription(s.T(), s.db, s.user.ID, s.category.ID, "Netflix", "15.49", models.RecurrenceMonthly, "2024-01-15")

	s.NoError(s.repo.Delete(s.ctx, s.user.ID, subscription.ID))
	s.ErrorIs(s.repo.Delete(s.ctx, s.user.ID, subscription.ID), ErrSubscriptionNotFound)

	subscriptions, err := s.repo.GetByUserID(s.ctx, s.user.ID)
	s.NoError(err)
	s.Empty(subscriptions)
}
