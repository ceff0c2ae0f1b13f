package dto

import (
	"time"

	"github.com/gestorerp/admin-api/internal/models"
)

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Status     string `json:"status"`

	JobTitle      string `json:"job_title"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	AddressNumber string `json:"address_number"`
	AddressExtra  string `json:"address_extra"`
	District      string `json:"district"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Notes         string `json:"notes"`

	ModulesGranted *models.PermissionScope `json:"modules_granted"`
	ViewsGranted   *models.PermissionScope `json:"views_granted"`
}

// UpdateUserRequest uses pointers so absent fields stay untouched.
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Username   *string `json:"username"`
	NationalID *string `json:"national_id"`
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	Status     *string `json:"status"`

	JobTitle      *string `json:"job_title"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	AddressNumber *string `json:"address_number"`
	AddressExtra  *string `json:"address_extra"`
	District      *string `json:"district"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
	Notes         *string `json:"notes"`

	ModulesGranted *models.PermissionScope `json:"modules_granted"`
	ViewsGranted   *models.PermissionScope `json:"views_granted"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// BatchRequest runs one administrative action over a set of target IDs.
// Payload carries action-specific input (the status for update_status).
type BatchRequest struct {
	Action  string        `json:"action"`
	IDs     []uint        `json:"ids"`
	Payload *BatchPayload `json:"payload,omitempty"`
}

type BatchPayload struct {
	Status string `json:"status,omitempty"`
}

// BatchResult reports the outcome for a single target ID.
type BatchResult struct {
	ID      uint   `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BatchResponse struct {
	Action    string        `json:"action"`
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	NationalID  string `json:"national_id"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	LoginStatus string `json:"login_status"`

	JobTitle      string `json:"job_title,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressNumber string `json:"address_number,omitempty"`
	AddressExtra  string `json:"address_extra,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Notes         string `json:"notes,omitempty"`

	ModulesGranted models.PermissionScope `json:"modules_granted"`
	ViewsGranted   models.PermissionScope `json:"views_granted"`

	CreatedBy *uint     `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UsersListResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type AvailabilityRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	NationalID string `json:"national_id"`
	ExcludeID  uint   `json:"exclude_id"`
}

type AvailabilityResponse struct {
	Email           *bool  `json:"email,omitempty"`
	Username        *bool  `json:"username,omitempty"`
	NationalID      *bool  `json:"national_id,omitempty"`
	NationalIDError string `json:"national_id_error,omitempty"`
}

// RegisterOptions feeds the registration form: the role list is trimmed to
// what the requesting actor may assign.
type RegisterOptions struct {
	Roles          []string               `json:"roles"`
	Statuses       []string               `json:"statuses"`
	States         []string               `json:"states"`
	DefaultModules models.PermissionScope `json:"default_modules"`
	DefaultViews   models.PermissionScope `json:"default_views"`
}
