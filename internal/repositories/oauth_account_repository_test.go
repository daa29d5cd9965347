package repositories

import (
	"context"
	"testing"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestOAuthAccountRepository(t *testing.T) {
	suite.Run(t, new(OAuthAccountRepositorySuite))
}

type OAuthAccountRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo OAuthAccountRepositoryInterface
	ctx  context.Context
	user *models.User
}

func (s *OAuthAccountRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewOAuthAccountRepository(s.db.DB)
	s.ctx = context.Background()
	s.user = database.CreateTestUser(s.T(), s.db, "linked@example.com")
}

func (s *OAuthAccountRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *OAuthAccountRepositorySuite) TestCreateAndLookup() {
	account := &models.OAuthAccount{UserID: s.user.ID, Provider: models.OAuthProviderGoogle, ProviderAccountID: "google-123"}
	s.Require().NoError(s.repo.Create(s.ctx, account))

	found, err := s.repo.GetByProviderAccount(s.ctx, models.OAuthProviderGoogle, "google-123")
	s.NoError(err)
	s.Equal(account.ID, found.ID)
	s.Equal("linked@example.com", found.User.Email)

	_, err = s.repo.GetByProviderAccount(s.ctx, models.OAuthProviderGitHub, "google-123")
	s.ErrorIs(err, ErrOAuthAccountNotFound)
}

func (s *OAuthAccountRepositorySuite) TestCreateDuplicateLink() {
	s.Require().NoError(s.repo.Create(s.ctx, &models.OAuthAccount{UserID: s.user.ID, Provider: models.OAuthProviderGitHub, ProviderAccountID: "gh-1"}))

	err := s.repo.Create(s.ctx, &models.OAuthAccount{UserID: s.user.ID, Provider: models.OAuthProviderGitHub, ProviderAccountID: "gh-1"})
	s.ErrorIs(err, ErrOAuthAccountExists)
}

func (s *OAuthAccountRepositorySuite) TestGetByUserID() {
	s.Require().NoError(s.repo.Create(s.ctx, &models.OAuthAccount{UserID: s.user.ID, Provider: models.OAuthProviderGoogle, ProviderAccountID: "g-1"}))
	s.Require().NoError(s.repo.Create(s.ctx, &models.OAuthAccount{UserID: s.user.ID, Provider: models.OAuthProviderFacebook, ProviderAccountID: "fb-1"}))

	accounts, err := s.repo.GetByUserID(s.ctx, s.user.ID)
	s.NoError(err)
	s.Len(accounts, 2)
}
