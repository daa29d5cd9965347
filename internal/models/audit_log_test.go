package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_Metadata(t *testing.T) {
	log := &AuditLog{Action: AuditActionOAuthLogin, Resource: AuditResourceAuth}

	assert.Equal(t, "email", log.GetMetadata("provider", "email"), "nil metadata falls back")

	log.SetMetadata("provider", OAuthProviderGitHub)
	log.SetMetadata("created", true)

	assert.Equal(t, JSONBMap{"provider": "github", "created": true}, log.Metadata)
	assert.Equal(t, "github", log.GetMetadata("provider", ""))
	assert.Equal(t, true, log.GetMetadata("created", false))
	assert.Equal(t, "none", log.GetMetadata("reason", "none"))
}

func TestJSONBMap_ValueAndScan(t *testing.T) {
	t.Run("profile changes survive a round trip", func(t *testing.T) {
		changes := JSONBMap{"name": "Ada", "image": "https://example.com/ada.png"}

		stored, err := changes.Value()
		require.NoError(t, err)

		var scanned JSONBMap
		require.NoError(t, scanned.Scan(stored))
		assert.Equal(t, changes, scanned)
	})

	t.Run("empty map stores NULL", func(t *testing.T) {
		stored, err := JSONBMap{}.Value()
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("scan accepts bytes", func(t *testing.T) {
		var scanned JSONBMap
		require.NoError(t, scanned.Scan([]byte(`{"attempts":5}`)))
		assert.Equal(t, float64(5), scanned["attempts"])
	})

	t.Run("scan rejects other types", func(t *testing.T) {
		var scanned JSONBMap
		assert.Error(t, scanned.Scan(42))
	})
}

func TestAuditLog_String(t *testing.T) {
	userID := uuid.New()
	log := &AuditLog{
		UserID:     &userID,
		Action:     AuditActionPasswordUpdated,
		Resource:   AuditResourceUser,
		ResourceID: userID.String(),
		IPAddress:  "203.0.113.7",
		CreatedAt:  time.Date(2024, time.April, 15, 9, 30, 0, 0, time.UTC),
	}

	str := log.String()
	assert.Contains(t, str, "password_updated")
	assert.Contains(t, str, "user/"+userID.String())
	assert.Contains(t, str, "203.0.113.7")
	assert.Contains(t, str, "2024-04-15T09:30:00Z")

	log.UserID = nil
	assert.Contains(t, log.String(), "User: anonymous")
}
