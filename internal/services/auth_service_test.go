package services

import (
	"testing"

	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	seedUser(t, db, seedOpts{
		email: "ana@example.com", username: "ana_silva",
		nationalID: nationalID1, role: models.RoleUser, password: "secret123",
	})

	t.Run("success opens session", func(t *testing.T) {
		resp, err := svc.Login(&dto.LoginRequest{User: "ana@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, models.LoginStatusLoggedIn, resp.User.LoginStatus)

		assert.Equal(t, models.LoginStatusLoggedIn, reload(t, db, resp.User.ID).LoginStatus)
	})

	t.Run("second login conflicts for regular user", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{User: "ana@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrSessionConflict)
	})

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		// Still conflicts, which proves the normalized lookup found her.
		_, err := svc.Login(&dto.LoginRequest{User: "  ANA@Example.COM ", Password: "secret123"})
		assert.ErrorIs(t, err, ErrSessionConflict)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{User: "ana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown identity gets the same error", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{User: "ghost@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{User: "", Password: ""})
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestLoginSuperAdminExemptFromSingleSession(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	seedUser(t, db, seedOpts{
		email: "root@example.com", username: "root_admin",
		nationalID: nationalID2, role: models.RoleSuperAdmin, password: "secret123",
	})

	for i := 0; i < 3; i++ {
		_, err := svc.Login(&dto.LoginRequest{User: "root@example.com", Password: "secret123"})
		require.NoError(t, err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	seedUser(t, db, seedOpts{
		email: "off@example.com", username: "off_user",
		nationalID: nationalID3, role: models.RoleUser,
		status: models.StatusSuspended, password: "secret123",
	})

	_, err := svc.Login(&dto.LoginRequest{User: "off@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	user := seedUser(t, db, seedOpts{
		email: "ana@example.com", username: "ana_silva",
		nationalID: nationalID1, role: models.RoleUser,
		loginStatus: models.LoginStatusLoggedIn,
	})

	require.NoError(t, svc.Logout(user.ID))
	assert.Equal(t, models.LoginStatusOffline, reload(t, db, user.ID).LoginStatus)

	// Idempotent: logging out again still succeeds.
	require.NoError(t, svc.Logout(user.ID))
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	seedUser(t, db, seedOpts{
		email: "ana@example.com", username: "ana_silva",
		nationalID: nationalID1, role: models.RoleUser, password: "secret123",
	})

	login, err := svc.Login(&dto.LoginRequest{User: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("rotates the token", func(t *testing.T) {
		resp, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, login.RefreshToken, resp.RefreshToken)

		// The old token cannot be replayed.
		_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
		assert.ErrorIs(t, err, ErrInvalidToken)

		login = resp
	})

	t.Run("rejected after forced logout", func(t *testing.T) {
		require.NoError(t, svc.Logout(login.User.ID))

		_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: "garbage"})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshRejectedWhenSuspended(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	user := seedUser(t, db, seedOpts{
		email: "ana@example.com", username: "ana_silva",
		nationalID: nationalID1, role: models.RoleUser, password: "secret123",
	})

	login, err := svc.Login(&dto.LoginRequest{User: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	// Suspend behind the session's back; the stored token stays unrevoked.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", models.StatusSuspended).Error)

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCurrentUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	user := seedUser(t, db, seedOpts{
		email: "ana@example.com", username: "ana_silva",
		nationalID: nationalID1, role: models.RoleUser,
	})

	got, err := svc.CurrentUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.CurrentUser(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
