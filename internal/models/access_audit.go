package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessAuditEntry records a privileged access decision. Today the only
// recorded action is a super_admin entering a tenant they hold no grant on;
// the table is append-only.
type AccessAuditEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TenantID  TenantID  `json:"tenant_id" db:"tenant_id"`
	Action    string    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const AuditActionCrossTenantAccess = "cross_tenant_access"

// AccessAuditFilters narrows audit listings.
type AccessAuditFilters struct {
	UserID *uuid.UUID
	Since  *time.Time
	Limit  int
	Offset int
}
