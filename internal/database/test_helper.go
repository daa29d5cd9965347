package database

import (
	"fmt"
	"testing"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testTables = []string{
	"expenses",
	"subscriptions",
	"categories",
	"oauth_accounts",
	"audit_logs",
	"blacklisted_tokens",
	"refresh_tokens",
	"users",
}

// SetupTestDB opens a migrated in-memory sqlite database. The pool is pinned to a
// single connection because every new :memory: connection is a separate database.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	hash := "hashed_password"
	name := "Test User"
	user := &models.User{
		Email:        email,
		PasswordHash: &hash,
		Name:         &name,
	}

	if err := db.Omit("RefreshTokens", "OAuthAccounts").Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

func CreateTestCategory(t *testing.T, db *DB, userID uuid.UUID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Color:  "#65CE55",
		Icon:   "utensils",
	}

	if err := db.Omit("User").Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	return category
}

func CreateTestExpense(t *testing.T, db *DB, userID, categoryID uuid.UUID, amount string, date string) *models.Expense {
	t.Helper()

	parsed, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("invalid test expense date %q: %v", date, err)
	}

	expense := &models.Expense{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       parsed,
	}

	if err := db.Omit("User", "Category").Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}

	return expense
}

func CreateTestSubscription(t *testing.T, db *DB, userID, categoryID uuid.UUID, name, amount string, recurrence models.Recurrence, startDate string) *models.Subscription {
	t.Helper()

	start, err := models.ParseDate(startDate)
	if err != nil {
		t.Fatalf("invalid test subscription start date %q: %v", startDate, err)
	}

	subscription := &models.Subscription{
		UserID:      userID,
		CategoryID:  categoryID,
		Name:        name,
		Amount:      decimal.RequireFromString(amount),
		Recurrence:  recurrence,
		StartDate:   start,
		NextPayment: start,
	}

	if err := db.Omit("User", "Category").Create(subscription).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}

	return subscription
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	for _, table := range testTables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
