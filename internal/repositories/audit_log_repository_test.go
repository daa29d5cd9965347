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

func TestAuditLogRepository(t *testing.T) {
	suite.Run(t, new(AuditLogRepositorySuite))
}

type AuditLogRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo AuditLogRepositoryInterface
	ctx  context.Context
	user *models.User
}

func (s *AuditLogRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewAuditLogRepository(s.db.DB)
	s.ctx = context.Background()
	s.user = database.CreateTestUser(s.T(), s.db, "audited@example.com")
}

func (s *AuditLogRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AuditLogRepositorySuite) newLog(action string, createdAt time.Time) *models.AuditLog {
	return &models.AuditLog{
		UserID:     &s.user.ID,
		Action:     action,
		Resource:   models.AuditResourceAuth,
		ResourceID: s.user.ID.String(),
		IPAddress:  "192.168.1.1",
		UserAgent:  "Mozilla/5.0",
		CreatedAt:  createdAt,
	}
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_Create() {
	log := s.newLog(models.AuditActionLogin, time.Time{})
	log.SetMetadata("method", "password")

	s.NoError(s.repo.Create(s.ctx, log))
	s.NotEqual(uuid.Nil, log.ID)
	s.NotZero(log.CreatedAt)

	logs, _, err := s.repo.GetByUserID(s.ctx, s.user.ID, 0, 10)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("password", logs[0].GetMetadata("method", ""))
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_CreateWithoutUserID() {
	log := &models.AuditLog{
		Action:    models.AuditActionFailedLogin,
		Resource:  models.AuditResourceAuth,
		IPAddress: "192.168.1.1",
	}

	s.NoError(s.repo.Create(s.ctx, log))
	s.Contains(log.String(), "anonymous")
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_GetByUserID_NewestFirst() {
	now := time.Now()
	s.Require().NoError(s.repo.Create(s.ctx, s.newLog(models.AuditActionRegister, now.Add(-2*time.Hour))))
	s.Require().NoError(s.repo.Create(s.ctx, s.newLog(models.AuditActionLogin, now.Add(-time.Hour))))
	s.Require().NoError(s.repo.Create(s.ctx, s.newLog(models.AuditActionLogout, now)))

	logs, total, err := s.repo.GetByUserID(s.ctx, s.user.ID, 0, 20)
	s.NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(logs, 3)
	s.Equal(models.AuditActionLogout, logs[0].Action)
	s.Equal(models.AuditActionRegister, logs[2].Action)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_GetByUserID_Pagination() {
	now := time.Now()
	for i := 0; i < 25; i++ {
		s.Require().NoError(s.repo.Create(s.ctx, s.newLog(models.AuditActionLogin, now.Add(-time.Duration(i)*time.Minute))))
	}

	page, total, err := s.repo.GetByUserID(s.ctx, s.user.ID, 20, 10)
	s.NoError(err)
	s.Equal(int64(25), total)
	s.Len(page, 5)

	defaulted, _, err := s.repo.GetByUserID(s.ctx, s.user.ID, -1, 0)
	s.NoError(err)
	s.Len(defaulted, 20)

	_, _, err = s.repo.GetByUserID(s.ctx, uuid.Nil, 0, 10)
	s.Error(err)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_DeleteOlderThan() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newLog(models.AuditActionLogin, time.Now().Add(-100*24*time.Hour))))
	s.Require().NoError(s.repo.Create(s.ctx, s.newLog(models.AuditActionLogin, time.Now())))

	deleted, err := s.repo.DeleteOlderThan(s.ctx, 90*24*time.Hour)
	s.NoError(err)
	s.Equal(int64(1), deleted)
}
