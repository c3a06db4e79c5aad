package models

import (
	"time"

	"github.com/google/uuid"
)

// ReferralCode is an optional discount token. UsageCount is monotonically
// non-decreasing and only ever incremented by a single atomic update.
type ReferralCode struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Code            string    `json:"code" db:"code"`
	DoctorName      string    `json:"doctor_name" db:"doctor_name"`
	DiscountPercent int       `json:"discount_percent" db:"discount_percent"`
	UsageCount      int       `json:"usage_count" db:"usage_count"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ReferralApplication is the result of applying a referral code to a booking.
type ReferralApplication struct {
	CodeID          uuid.UUID
	Code            string
	DiscountPercent int
}
