package repositories

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestBlacklistedTokenRepository(t *testing.T) {
	suite.Run(t, new(BlacklistedTokenRepositorySuite))
}

type BlacklistedTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo BlacklistedTokenRepositoryInterface
	ctx  context.Context
	user *models.User
}

func (s *BlacklistedTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewBlacklistedTokenRepository(s.db.DB)
	s.ctx = context.Background()
	s.user = database.CreateTestUser(s.T(), s.db, "blacklist@example.com")
}

func (s *BlacklistedTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *BlacklistedTokenRepositorySuite) TestCreateAndGet() {
	jti := uuid.NewString()
	token := &models.BlacklistedToken{JTI: jti, UserID: s.user.ID, Reason: "logout", ExpiresAt: time.Now().Add(time.Hour)}

	s.NoError(s.repo.Create(s.ctx, token))

	found, err := s.repo.GetByJTI(s.ctx, jti)
	s.NoError(err)
	s.Equal("logout", found.Reason)
	s.NotZero(found.BlacklistedAt)

	_, err = s.repo.GetByJTI(s.ctx, "unknown")
	s.ErrorIs(err, ErrTokenNotFound)
}

func (s *BlacklistedTokenRepositorySuite) TestCreateTwiceIsNoop() {
	jti := uuid.NewString()

	s.NoError(s.repo.Create(s.ctx, &models.BlacklistedToken{JTI: jti, UserID: s.user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	s.NoError(s.repo.Create(s.ctx, &models.BlacklistedToken{JTI: jti, UserID: s.user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
}

func (s *BlacklistedTokenRepositorySuite) TestDeleteExpired() {
	s.Require().NoError(s.repo.Create(s.ctx, &models.BlacklistedToken{JTI: "expired", UserID: s.user.ID, ExpiresAt: time.Now().Add(-time.Minute)}))
	s.Require().NoError(s.repo.Create(s.ctx, &models.BlacklistedToken{JTI: "live", UserID: s.user.ID, ExpiresAt: time.Now().Add(time.Hour)}))

	deleted, err := s.repo.DeleteExpired(s.ctx)
	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.repo.GetByJTI(s.ctx, "live")
	s.NoError(err)
}
