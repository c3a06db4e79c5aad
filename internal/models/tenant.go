package models

import (
	"time"
)

// TenantID is the canonical integer tenant identifier. Raw header values and
// tenant codes are normalized to a TenantID exactly once, at resolution time,
// and threaded explicitly into every downstream query.
type TenantID int64

type Tenant struct {
	ID            TenantID  `json:"id" db:"id"`
	Code          string    `json:"code" db:"code"`
	Name          string    `json:"name" db:"name"`
	PrimaryDomain *string   `json:"primary_domain" db:"primary_domain"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
