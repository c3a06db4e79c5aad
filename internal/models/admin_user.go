package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the per-tenant role an admin holds via a grant. RoleSuperAdmin is
// the explicit cross-tenant capability: it is never stored in a grant row,
// only as a global role on the user, and every use of it is logged.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleViewer     Role = "viewer"
	RoleSuperAdmin Role = "super_admin"
)

// ValidGrantRole reports whether role is assignable through a tenant grant.
func ValidGrantRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type AdminUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	FullName     string    `json:"full_name" db:"full_name"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AdminUserTenant links an admin to a tenant with a role. An admin may act
// within a tenant if and only if a row exists here, or the user carries the
// global super_admin role.
type AdminUserTenant struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TenantID  TenantID  `json:"tenant_id" db:"tenant_id"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
