package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRefreshToken_Validity(t *testing.T) {
	revokedAt := time.Now().Add(-time.Minute)
	replacement := uuid.New()

	tests := []struct {
		name    string
		token   RefreshToken
		expired bool
		revoked bool
	}{
		{
			name:  "fresh session",
			token: RefreshToken{ExpiresAt: time.Now().Add(7 * 24 * time.Hour)},
		},
		{
			name:    "session past its refresh window",
			token:   RefreshToken{ExpiresAt: time.Now().Add(-time.Second)},
			expired: true,
		},
		{
			name: "rotated session",
			token: RefreshToken{
				ExpiresAt:    time.Now().Add(time.Hour),
				RevokedAt:    &revokedAt,
				ReplacedByID: &replacement,
			},
			revoked: true,
		},
		{
			name:    "logged out after expiry",
			token:   RefreshToken{ExpiresAt: time.Now().Add(-time.Hour), RevokedAt: &revokedAt},
			expired: true,
			revoked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.token.IsExpired())
			assert.Equal(t, tt.revoked, tt.token.IsRevoked())
			assert.Equal(t, !tt.expired && !tt.revoked, tt.token.IsValid())
		})
	}
}

func TestRefreshToken_Revoke(t *testing.T) {
	token := RefreshToken{UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}
	assert.True(t, token.IsValid())

	before := time.Now()
	token.Revoke()

	if assert.NotNil(t, token.RevokedAt) {
		assert.False(t, token.RevokedAt.Before(before))
	}
	assert.False(t, token.IsValid())
}

func TestRefreshToken_BeforeCreate(t *testing.T) {
	token := &RefreshToken{UserID: uuid.New(), TokenHash: "e3b0c442"}

	assert.NoError(t, token.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, token.ID)
	assert.False(t, token.CreatedAt.IsZero())
	assert.Equal(t, "refresh_tokens", token.TableName())
}
