package services

import (
	"testing"
	"time"

	"github.com/gestorerp/admin-api/internal/config"
	"github.com/gestorerp/admin-api/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Known-good national IDs for fixtures (two valid check digits each).
const (
	nationalID1 = "12345678909"
	nationalID2 = "98765432100"
	nationalID3 = "11144477735"
	nationalID4 = "52998224725"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.SystemLog{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

type seedOpts struct {
	email       string
	username    string
	nationalID  string
	role        string
	status      string
	loginStatus string
	password    string
}

func seedUser(t *testing.T, db *gorm.DB, opts seedOpts) *models.User {
	t.Helper()

	if opts.status == "" {
		opts.status = models.StatusActive
	}
	if opts.loginStatus == "" {
		opts.loginStatus = models.LoginStatusOffline
	}
	if opts.password == "" {
		opts.password = "secret123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:           "Fixture User",
		Email:          opts.email,
		Username:       opts.username,
		NationalID:     opts.nationalID,
		Password:       string(hash),
		Role:           opts.role,
		Status:         opts.status,
		LoginStatus:    opts.loginStatus,
		ModulesGranted: datatypes.NewJSONType(models.AllScope()),
		ViewsGranted:   datatypes.NewJSONType(models.AllScope()),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reload(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}
