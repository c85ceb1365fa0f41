package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The production schema leans on Postgres defaults, so tests create the
// tables they need directly.
var testDDL = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		status TEXT NOT NULL DEFAULT 'active',
		balance NUMERIC NOT NULL DEFAULT 0,
		referral_code TEXT UNIQUE,
		referred_by_code TEXT,
		reset_password_token TEXT,
		reset_password_token_expires_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE payment_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		utr TEXT NOT NULL,
		proof_url TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		admin_notes TEXT,
		receipt_url TEXT,
		processed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		service_name TEXT,
		link TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		amount NUMERIC NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		provider_order_id TEXT UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE referrals (
		id TEXT PRIMARY KEY,
		referrer_id TEXT NOT NULL,
		referred_user_id TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'pending',
		reward_amount NUMERIC DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE settings (
		key TEXT PRIMARY KEY,
		value NUMERIC NOT NULL,
		updated_at DATETIME
	)`,
}

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := "file:" + t.TempDir() + "/panel.db?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range testDDL {
		require.NoError(t, db.Exec(stmt).Error)
	}

	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
}

func createTestUser(t *testing.T, balance float64) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Name:     "Asha",
		Email:    uuid.New().String() + "@example.com",
		Password: "not-a-real-hash",
		Role:     "user",
		Status:   "active",
		Balance:  balance,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

// authAs stands in for the jwt middleware so handlers can read their claims.
func authAs(userID uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": userID.String(),
			"role":    role,
		}})
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body []byte, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}
