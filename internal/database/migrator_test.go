package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finance-tracker/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetries(t *testing.T, retries int) {
	t.Helper()

	originalRetries := maxRetries
	originalInterval := retryInterval
	maxRetries = retries
	retryInterval = 50 * time.Millisecond
	t.Cleanup(func() {
		maxRetries = originalRetries
		retryInterval = originalInterval
	})
}

func TestNewMigrationRunner_Defaults(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, nil)

	assert.Equal(t, db, runner.db)
	assert.Equal(t, defaultMigrationsPath, runner.migrationsPath)
	assert.Equal(t, defaultSeedsPath, runner.seedsPath)
	assert.False(t, runner.seed)
}

func TestNewMigrationRunner_FromConfig(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{
		MigrationsPath: "/srv/migrations",
		SeedsPath:      "/srv/seeds",
		Seed:           true,
	})

	assert.Equal(t, "/srv/migrations", runner.migrationsPath)
	assert.Equal(t, "/srv/seeds", runner.seedsPath)
	assert.True(t, runner.seed)
}

func TestWaitForDatabase_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(nil)

	err = NewMigrationRunner(db, nil).WaitForDatabase()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_FailureThenSuccess(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	fastRetries(t, 3)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(nil)

	err = NewMigrationRunner(db, nil).WaitForDatabase()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_AlwaysFails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	fastRetries(t, 2)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = NewMigrationRunner(db, nil).WaitForDatabase()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not ready after 2 attempts")
}

func TestRunMigrations_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{MigrationsPath: "/nonexistent/path/to/migrations"})

	assert.NoError(t, runner.RunMigrations())
}

func TestRollbackMigrations_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{MigrationsPath: "/nonexistent/path/to/migrations"})

	err = runner.RollbackMigrations(1)
	assert.ErrorIs(t, err, ErrMigrationsNotFound)
}

func TestGetMigrationStatus_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{MigrationsPath: "/nonexistent/migrations"})

	_, _, err = runner.GetMigrationStatus()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory not found")
}

func TestLoadSeeds_Disabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seedsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(seedsDir, "001_demo.sql"), []byte("INSERT INTO users VALUES (1);"), 0644))

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: seedsDir, Seed: false})

	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: "/nonexistent/seeds/path", Seed: true})

	assert.NoError(t, runner.LoadSeeds())
}

func TestLoadSeeds_NoSeedFiles(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: t.TempDir(), Seed: true})

	assert.NoError(t, runner.LoadSeeds())
}

func TestLoadSeeds_SuccessfulExecution(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seedsDir := t.TempDir()
	seedContent := `
INSERT INTO categories (id, user_id, name, color, icon, created_at, updated_at)
VALUES ('c0000000-0000-0000-0000-000000000001', 'a0000000-0000-0000-0000-000000000001', 'Groceries', '#65CE55', 'utensils', NOW(), NOW())
ON CONFLICT (id) DO NOTHING;
`
	require.NoError(t, os.WriteFile(filepath.Join(seedsDir, "001_categories.sql"), []byte(seedContent), 0644))

	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(0, 1))

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: seedsDir, Seed: true})

	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ExecutionFailureIsContinued(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seedsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(seedsDir, "001_bad.sql"), []byte("INSERT INTO nonexistent_table VALUES (1);"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(seedsDir, "002_good.sql"), []byte("INSERT INTO expenses VALUES ('x');"), 0644))

	mock.ExpectExec("INSERT INTO nonexistent_table").WillReturnError(errors.New("table does not exist"))
	mock.ExpectExec("INSERT INTO expenses").WillReturnResult(sqlmock.NewResult(0, 1))

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: seedsDir, Seed: true})

	assert.NoError(t, runner.LoadSeeds())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ReadFileError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seedsDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(seedsDir, "001_invalid.sql"), 0755))

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: seedsDir, Seed: true})

	err = runner.LoadSeeds()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestRunMigrationsIfEnabled_Disabled(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, RunMigrationsIfEnabled(db, &config.DatabaseConfig{AutoMigrate: false}))
	assert.NoError(t, RunMigrationsIfEnabled(db, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsIfEnabled_DatabaseNotReady(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	fastRetries(t, 2)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = RunMigrationsIfEnabled(db, &config.DatabaseConfig{AutoMigrate: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database readiness check failed")
}

func TestRunMigrationsIfEnabled_NoMigrationsDirectory(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(nil)

	err = RunMigrationsIfEnabled(db, &config.DatabaseConfig{
		AutoMigrate:    true,
		MigrationsPath: "/nonexistent/migrations",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
