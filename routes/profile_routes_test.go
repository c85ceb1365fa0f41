package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupUsersTable(t *testing.T) {
	t.Helper()

	dsn := "file:" + t.TempDir() + "/panel.db?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE users (
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
	)`).Error)

	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
}

func signTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	require.NoError(t, err)
	return token
}

func putProfile(t *testing.T, app *fiber.App, token, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/me", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestBlockedUserCannotUpdateProfile(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	setupUsersTable(t)

	user := models.User{
		ID:       uuid.New(),
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "not-a-real-hash",
		Role:     "user",
		Status:   "blocked",
	}
	require.NoError(t, database.DB.Create(&user).Error)

	app := fiber.New()
	ProfileRoutes(app)

	resp := putProfile(t, app, signTestToken(t, user.ID), `{"name":"New Name"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "Asha", stored.Name)
}

func TestActiveUserCanUpdateProfile(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	setupUsersTable(t)

	user := models.User{
		ID:       uuid.New(),
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "not-a-real-hash",
		Role:     "user",
		Status:   "active",
	}
	require.NoError(t, database.DB.Create(&user).Error)

	app := fiber.New()
	ProfileRoutes(app)

	resp := putProfile(t, app, signTestToken(t, user.ID), `{"name":"New Name"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "New Name", stored.Name)
}
