package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role values. super_admin is singular-protected: the system never lets the
// last super_admin be deleted, and only a super_admin may create another.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleUser       = "user"
	RoleViewer     = "viewer"
)

// Account status. Anything other than ACTIVE also forces LoginStatus to
// OFFLINE in the same write.
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

const (
	LoginStatusLoggedIn = "LOGGED_IN"
	LoginStatusOffline  = "OFFLINE"
)

// Roles lists every legal role value.
var Roles = []string{RoleSuperAdmin, RoleAdmin, RoleManager, RoleUser, RoleViewer}

// Statuses lists every legal account status.
var Statuses = []string{StatusActive, StatusInactive, StatusSuspended}

// StateCodes is the fixed set of accepted codes for the address state field.
var StateCodes = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO",
	"MA", "MT", "MS", "MG", "PA", "PB", "PR", "PE", "PI",
	"RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// User is the central directory entity. Email, username and national ID are
// globally unique; stored values are always normalized (lowercase email,
// digits-only national ID, phone and postal code).
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Email      string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username   string `gorm:"size:30;not null;uniqueIndex" json:"username"`
	NationalID string `gorm:"size:11;not null;uniqueIndex" json:"national_id"`
	Password   string `gorm:"not null" json:"-"`

	Role        string `gorm:"size:20;not null;default:'user';index" json:"role"`
	Status      string `gorm:"size:10;not null;default:'ACTIVE';index" json:"status"`
	LoginStatus string `gorm:"size:10;not null;default:'OFFLINE'" json:"login_status"`

	JobTitle      string `gorm:"size:100" json:"job_title,omitempty"`
	Phone         string `gorm:"size:11" json:"phone,omitempty"`
	Address       string `gorm:"size:255" json:"address,omitempty"`
	AddressNumber string `gorm:"size:20" json:"address_number,omitempty"`
	AddressExtra  string `gorm:"size:100" json:"address_extra,omitempty"`
	District      string `gorm:"size:100" json:"district,omitempty"`
	City          string `gorm:"size:100" json:"city,omitempty"`
	State         string `gorm:"size:2" json:"state,omitempty"`
	PostalCode    string `gorm:"size:8" json:"postal_code,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	ModulesGranted datatypes.JSONType[PermissionScope] `json:"modules_granted"`
	ViewsGranted   datatypes.JSONType[PermissionScope] `json:"views_granted"`

	// Weak reference to the creator. Lookup-only; may dangle if the
	// creator is later deactivated.
	CreatedBy *uint `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the closed enumeration values.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidStatus reports whether status is a legal account status.
func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether the user holds the super_admin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
