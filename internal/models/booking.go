package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending         BookingStatus = "pending"
	BookingConfirmed       BookingStatus = "confirmed"
	BookingSampleCollected BookingStatus = "sample_collected"
	BookingInLab           BookingStatus = "in_lab"
	BookingCompleted       BookingStatus = "completed"
	BookingCancelled       BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether status is a known enum value. No
// transition table is enforced; unknown values are rejected as validation
// errors rather than persisted.
func ValidBookingStatus(status BookingStatus) bool {
	switch status {
	case BookingPending, BookingConfirmed, BookingSampleCollected,
		BookingInLab, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	TenantID       TenantID      `json:"tenant_id" db:"tenant_id"`
	PatientID      uuid.UUID     `json:"patient_id" db:"patient_id"`
	Status         BookingStatus `json:"status" db:"status"`
	BookingDate    time.Time     `json:"booking_date" db:"booking_date"`
	BookingTime    *string       `json:"booking_time" db:"booking_time"`
	LocationType   *string       `json:"location_type" db:"location_type"`
	Address        *string       `json:"address" db:"address"`
	ClinicID       *string       `json:"clinic_id" db:"clinic_id"`
	ConsentKVKK    bool          `json:"consent_kvkk" db:"consent_kvkk"`
	ConsentTerms   bool          `json:"consent_terms" db:"consent_terms"`
	ReferralCodeID *uuid.UUID    `json:"referral_code_id" db:"referral_code_id"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}
