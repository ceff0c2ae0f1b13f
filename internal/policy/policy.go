// Package policy decides, for every mutating action, whether the requesting
// actor may perform it on the target. The actor is always an explicit
// parameter; nothing here reads request state or touches the database.
package policy

import (
	"errors"

	"github.com/gestorerp/admin-api/internal/models"
)

var (
	ErrForbidden      = errors.New("insufficient permissions for this action")
	ErrSelfAction     = errors.New("action cannot target your own account")
	ErrLastSuperAdmin = errors.New("cannot remove the last super admin")
)

// UpdateChanges describes which gated fields an update request touches.
type UpdateChanges struct {
	Role   string // empty when the role is not being changed
	Status string // empty when the status is not being changed
}

// AuthorizeCreate gates user creation. Only a super admin may create
// another super admin.
func AuthorizeCreate(actor *models.User, requestedRole string) error {
	if requestedRole == models.RoleSuperAdmin && !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	return nil
}

// AuthorizeUpdate gates field updates on an existing user. Super admin
// targets can only be edited by super admins, self-updates may not touch
// role or status, and promotion to super admin requires a super admin actor.
func AuthorizeUpdate(actor, target *models.User, changes UpdateChanges) error {
	if target.IsSuperAdmin() && !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	if actor.ID == target.ID && (changes.Role != "" || changes.Status != "") {
		return ErrForbidden
	}
	if changes.Role == models.RoleSuperAdmin && !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	return nil
}

// AuthorizeAction gates administrative actions on another account (status
// change, force logout, deletion, batch actions). Self-targeting is never
// allowed, regardless of role, and super admin targets require a super
// admin actor.
func AuthorizeAction(actor, target *models.User) error {
	if actor.ID == target.ID {
		return ErrSelfAction
	}
	if target.IsSuperAdmin() && !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	return nil
}

// AuthorizeDelete applies AuthorizeAction plus last-super-admin protection:
// the super admin count may never reach zero through deletion.
func AuthorizeDelete(actor, target *models.User, superAdminCount int64) error {
	if err := AuthorizeAction(actor, target); err != nil {
		return err
	}
	if target.IsSuperAdmin() && superAdminCount <= 1 {
		return ErrLastSuperAdmin
	}
	return nil
}
