package database

import (
	"strings"

	"github.com/gestorerp/admin-api/internal/models"
	"gorm.io/gorm"
)

// WithRole returns a GORM scope that filters users by role.
func WithRole(role string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("role = ?", role)
	}
}

// WithStatus returns a GORM scope that filters users by account status.
func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

// SearchUsers matches the term against name, email and username.
func SearchUsers(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		return db.Where(
			"(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(username) LIKE ?)",
			like, like, like,
		)
	}
}

// LiveRefreshTokens filters to non-revoked tokens of a user.
func LiveRefreshTokens(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked = ?", userID, false)
	}
}
