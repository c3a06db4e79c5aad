package models

import (
	"time"

	"github.com/google/uuid"
)

// Patient is scoped to a tenant: (tenant_id, email) is unique, and the same
// email under two tenants is two independent patients, never merged.
type Patient struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    TenantID   `json:"tenant_id" db:"tenant_id"`
	Email       string     `json:"email" db:"email"`
	FullName    string     `json:"full_name" db:"full_name"`
	Phone       *string    `json:"phone" db:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth" db:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PatientProfile carries the optional profile fields supplied at
// find-or-create time. They are applied only when a new row is inserted.
type PatientProfile struct {
	FullName    string
	Phone       *string
	DateOfBirth *time.Time
}
