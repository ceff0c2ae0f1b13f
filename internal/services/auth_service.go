package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gestorerp/admin-api/internal/config"
	"github.com/gestorerp/admin-api/internal/database"
	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid user or password")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrSessionConflict    = errors.New("user already has an active session")
	ErrSessionExpired     = errors.New("session expired, please log in again")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Login verifies the credentials and opens a session. Unknown identities
// and wrong passwords produce the same error. Non-super-admin users with a
// live session are rejected: one active session per user.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.User == "" || req.Password == "" {
		return nil, &ValidationError{Field: "user", Message: "user and password are required"}
	}

	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.User)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status != models.StatusActive {
		return nil, ErrAccountDisabled
	}

	// Single active session per user; super admins are exempt.
	if !user.IsSuperAdmin() && user.LoginStatus == models.LoginStatusLoggedIn {
		return nil, ErrSessionConflict
	}

	if err := s.db.Model(&user).Update("login_status", models.LoginStatusLoggedIn).Error; err != nil {
		return nil, fmt.Errorf("failed to update login status: %w", err)
	}
	user.LoginStatus = models.LoginStatusLoggedIn

	return s.tokenPair(&user)
}

// Logout transitions the user to OFFLINE and revokes refresh tokens.
// Idempotent: logging out an already offline user succeeds.
func (s *AuthService) Logout(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("login_status", models.LoginStatusOffline).Error; err != nil {
			return err
		}
		return revokeRefreshTokens(tx, userID)
	})
}

// Refresh rotates a refresh token. The live account state is re-checked:
// a revoked or logged-out account cannot extend its session through an
// otherwise valid token.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if user.Status != models.StatusActive {
		return nil, ErrSessionExpired
	}
	if !user.IsSuperAdmin() && user.LoginStatus != models.LoginStatusLoggedIn {
		return nil, ErrSessionExpired
	}

	return s.tokenPair(&user)
}

// CurrentUser resolves the live record behind a session.
func (s *AuthService) CurrentUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) tokenPair(user *models.User) (*dto.AuthResponse, error) {
	access, err := s.issueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := s.issueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         userToResponse(user),
	}, nil
}

func (s *AuthService) issueAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) issueRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func revokeRefreshTokens(tx *gorm.DB, userID uint) error {
	return tx.Scopes(database.LiveRefreshTokens(userID)).
		Update("revoked", true).Error
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
