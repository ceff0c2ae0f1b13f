package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gestorerp/admin-api/internal/config"
	"github.com/gestorerp/admin-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	app.Get("/me", JWTProtected(cfg), RequireSession(db), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": Actor(c).Email})
	})
	app.Get("/admin", JWTProtected(cfg), RequireSession(db), AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app, db
}

func seedSessionUser(t *testing.T, db *gorm.DB, email, role, status, loginStatus string) *models.User {
	t.Helper()

	user := &models.User{
		Name:        "Session User",
		Email:       email,
		Username:    email, // uniqueness filler, never validated here
		NationalID:  email,
		Password:    "irrelevant",
		Role:        role,
		Status:      status,
		LoginStatus: loginStatus,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func signToken(t *testing.T, userID uint, expiry time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(expiry).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func request(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequireSession(t *testing.T) {
	app, db := newTestApp(t)

	t.Run("live session passes", func(t *testing.T) {
		user := seedSessionUser(t, db, "live@example.com", models.RoleUser, models.StatusActive, models.LoginStatusLoggedIn)
		resp := request(t, app, "/me", signToken(t, user.ID, time.Hour))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("logged-out user rejected despite valid token", func(t *testing.T) {
		user := seedSessionUser(t, db, "offline@example.com", models.RoleUser, models.StatusActive, models.LoginStatusOffline)
		resp := request(t, app, "/me", signToken(t, user.ID, time.Hour))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("super admin exempt from login status", func(t *testing.T) {
		user := seedSessionUser(t, db, "root@example.com", models.RoleSuperAdmin, models.StatusActive, models.LoginStatusOffline)
		resp := request(t, app, "/me", signToken(t, user.ID, time.Hour))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("suspended account rejected", func(t *testing.T) {
		user := seedSessionUser(t, db, "suspended@example.com", models.RoleAdmin, models.StatusSuspended, models.LoginStatusLoggedIn)
		resp := request(t, app, "/me", signToken(t, user.ID, time.Hour))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		user := seedSessionUser(t, db, "expired@example.com", models.RoleUser, models.StatusActive, models.LoginStatusLoggedIn)
		resp := request(t, app, "/me", signToken(t, user.ID, -time.Minute))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown subject rejected", func(t *testing.T) {
		resp := request(t, app, "/me", signToken(t, 99999, time.Hour))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		resp := request(t, app, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRoleGates(t *testing.T) {
	app, db := newTestApp(t)

	t.Run("admin passes", func(t *testing.T) {
		user := seedSessionUser(t, db, "admin@example.com", models.RoleAdmin, models.StatusActive, models.LoginStatusLoggedIn)
		resp := request(t, app, "/admin", signToken(t, user.ID, time.Hour))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("super admin passes", func(t *testing.T) {
		user := seedSessionUser(t, db, "super@example.com", models.RoleSuperAdmin, models.StatusActive, models.LoginStatusOffline)
		resp := request(t, app, "/admin", signToken(t, user.ID, time.Hour))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("manager forbidden", func(t *testing.T) {
		user := seedSessionUser(t, db, "manager@example.com", models.RoleManager, models.StatusActive, models.LoginStatusLoggedIn)
		resp := request(t, app, "/admin", signToken(t, user.ID, time.Hour))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
