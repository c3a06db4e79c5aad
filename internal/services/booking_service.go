package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/models"
	"healthhub/internal/repositories"
)

// CreateBookingInput is the validated, parsed booking request. The tenant is
// passed separately: it was resolved once at the request boundary and is
// never re-derived here.
type CreateBookingInput struct {
	PatientEmail       string
	PatientName        string
	PatientPhone       *string
	PatientDateOfBirth *time.Time
	Date               time.Time
	Time               *string
	LocationType       *string
	Address            *string
	ClinicID           *string
	ConsentKVKK        bool
	ConsentTerms       bool
	ReferralCode       string
}

type BookingResult struct {
	BookingID       uuid.UUID
	PatientID       uuid.UUID
	ReferralApplied bool
	DiscountPercent int
}

type BookingService interface {
	CreateBooking(ctx context.Context, tenantID models.TenantID, input CreateBookingInput) (*BookingResult, error)
	GetBooking(ctx context.Context, tenantID models.TenantID, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, tenantID models.TenantID, status string, limit, offset int) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, tenantID models.TenantID, id uuid.UUID, status string) error
}

type bookingService struct {
	db        repositories.DB
	patients  repositories.PatientRepository
	referrals repositories.ReferralRepository
	bookings  repositories.BookingRepository
	logger    zerolog.Logger
}

func NewBookingService(db repositories.DB, patients repositories.PatientRepository, referrals repositories.ReferralRepository, bookings repositories.BookingRepository, logger zerolog.Logger) BookingService {
	return &bookingService{
		db:        db,
		patients:  patients,
		referrals: referrals,
		bookings:  bookings,
		logger:    logger,
	}
}

func (s *bookingService) validate(input *CreateBookingInput) *common.ValidationError {
	if err := common.ValidateEmail(input.PatientEmail); err != nil {
		return err
	}
	input.PatientEmail = common.NormalizeEmail(input.PatientEmail)
	if err := common.ValidateRequiredString(input.PatientName, "full_name"); err != nil {
		return err
	}
	if input.Date.IsZero() {
		return common.NewValidationError("date", "date is required")
	}
	return nil
}

// CreateBooking resolves the patient, optionally applies a referral code and
// inserts the booking, all inside one transaction. A failed insert rolls the
// referral increment back with it, so the counter can never record a
// redemption that has no booking.
func (s *bookingService) CreateBooking(ctx context.Context, tenantID models.TenantID, input CreateBookingInput) (*BookingResult, error) {
	if verr := s.validate(&input); verr != nil {
		return nil, verr
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	patient, err := s.patients.WithTx(tx).FindOrCreate(ctx, tenantID, input.PatientEmail, models.PatientProfile{
		FullName:    strings.TrimSpace(input.PatientName),
		Phone:       input.PatientPhone,
		DateOfBirth: input.PatientDateOfBirth,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve patient: %w", err)
	}

	result := &BookingResult{PatientID: patient.ID}

	var referralCodeID *uuid.UUID
	if strings.TrimSpace(input.ReferralCode) != "" {
		app, err := s.referrals.WithTx(tx).Apply(ctx, input.ReferralCode)
		if err != nil {
			return nil, fmt.Errorf("apply referral code: %w", err)
		}
		if app != nil {
			referralCodeID = &app.CodeID
			result.ReferralApplied = true
			result.DiscountPercent = app.DiscountPercent
		}
	}

	booking := &models.Booking{
		ID:             uuid.New(),
		TenantID:       tenantID,
		PatientID:      patient.ID,
		Status:         models.BookingPending,
		BookingDate:    input.Date,
		BookingTime:    input.Time,
		LocationType:   input.LocationType,
		Address:        input.Address,
		ClinicID:       input.ClinicID,
		ConsentKVKK:    input.ConsentKVKK,
		ConsentTerms:   input.ConsentTerms,
		ReferralCodeID: referralCodeID,
	}
	if err := s.bookings.WithTx(tx).Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking transaction: %w", err)
	}

	result.BookingID = booking.ID
	s.logger.Info().
		Int64("tenant_id", int64(tenantID)).
		Str("booking_id", booking.ID.String()).
		Bool("referral_applied", result.ReferralApplied).
		Msg("booking created")
	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, tenantID models.TenantID, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, tenantID, id)
}

func (s *bookingService) ListBookings(ctx context.Context, tenantID models.TenantID, status string, limit, offset int) ([]*models.Booking, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)

	var filter *models.BookingStatus
	if status != "" {
		st := models.BookingStatus(status)
		if !models.ValidBookingStatus(st) {
			return nil, common.NewValidationError("status", "unknown booking status")
		}
		filter = &st
	}
	return s.bookings.List(ctx, tenantID, filter, limit, offset)
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, tenantID models.TenantID, id uuid.UUID, status string) error {
	st := models.BookingStatus(status)
	if !models.ValidBookingStatus(st) {
		return common.NewValidationError("status", "unknown booking status")
	}
	return s.bookings.UpdateStatus(ctx, tenantID, id, st)
}
