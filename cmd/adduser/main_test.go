package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) (userStore, *database.DB) {
	t.Helper()

	db := database.SetupTestDB(t)
	userRepo := repositories.NewUserRepository(db.DB)
	return userStore{
		users:     userRepo,
		passwords: services.NewPasswordService(userRepo, config.SecurityConfig{BCryptCost: bcrypt.MinCost, PasswordMinLength: 6}),
	}, db
}

func TestRun_Success(t *testing.T) {
	store, db := newTestStore(t)
	stdout := new(bytes.Buffer)

	args := []string{"-email", " New.User@Example.com ", "-name", "New User", "-password", "secret1"}
	require.NoError(t, run(context.Background(), args, store, new(bytes.Buffer), stdout, new(bytes.Buffer)))

	assert.Contains(t, stdout.String(), "User new.user@example.com created successfully")

	user, err := store.users.GetByEmail(context.Background(), "new.user@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.Name)
	assert.Equal(t, "New User", *user.Name)
	assert.True(t, store.passwords.ComparePassword("secret1", *user.PasswordHash))

	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Where("user_id = ?", user.ID).Count(&categories).Error)
	assert.Equal(t, int64(10), categories)
}

func TestRun_PasswordFromStdin(t *testing.T) {
	store, _ := newTestStore(t)
	stdout := new(bytes.Buffer)

	err := run(context.Background(), []string{"-email", "piped@example.com"}, store, strings.NewReader("hunter22\n"), stdout, new(bytes.Buffer))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Password: ")
	user, err := store.users.GetByEmail(context.Background(), "piped@example.com")
	require.NoError(t, err)
	assert.True(t, store.passwords.ComparePassword("hunter22", *user.PasswordHash))
}

func TestRun_GeneratedPassword(t *testing.T) {
	store, _ := newTestStore(t)
	stdout := new(bytes.Buffer)

	require.NoError(t, run(context.Background(), []string{"-email", "gen@example.com", "-generate"}, store, new(bytes.Buffer), stdout, new(bytes.Buffer)))

	_, generated, found := strings.Cut(stdout.String(), "Generated password: ")
	require.True(t, found)
	generated = strings.TrimSpace(generated)
	assert.Len(t, generated, 16)

	user, err := store.users.GetByEmail(context.Background(), "gen@example.com")
	require.NoError(t, err)
	assert.True(t, store.passwords.ComparePassword(generated, *user.PasswordHash))
}

func TestRun_DuplicateUser(t *testing.T) {
	store, _ := newTestStore(t)
	args := []string{"-email", "dup@example.com", "-password", "secret1"}

	require.NoError(t, run(context.Background(), args, store, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	err := run(context.Background(), args, store, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_Validation(t *testing.T) {
	store, _ := newTestStore(t)

	stdout := new(bytes.Buffer)
	err := run(context.Background(), []string{"-password", "secret1"}, store, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: email")
	assert.Contains(t, stdout.String(), "Usage: adduser")

	err = run(context.Background(), []string{"-email", "short@example.com", "-password", "abc"}, store, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.ErrorIs(t, err, services.ErrPasswordTooShort)

	err = run(context.Background(), []string{"-email", "empty@example.com"}, store, strings.NewReader(""), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read password")
}
