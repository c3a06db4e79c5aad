package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/services"
)

// BookingHandlers handles HTTP requests for bookings: public creation and
// admin listing/status management.
type BookingHandlers struct {
	bookingService services.BookingService
	logger         zerolog.Logger
}

func NewBookingHandlers(bookingService services.BookingService, logger zerolog.Logger) *BookingHandlers {
	return &BookingHandlers{bookingService: bookingService, logger: logger}
}

type patientInfoRequest struct {
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Phone       *string `json:"phone"`
	DateOfBirth string  `json:"date_of_birth"`
}

type consentsRequest struct {
	KVKK  bool `json:"kvkk"`
	Terms bool `json:"terms"`
}

type createBookingRequest struct {
	PatientInfo  patientInfoRequest `json:"patient_info"`
	Date         string             `json:"date"`
	Time         *string            `json:"time"`
	LocationType *string            `json:"location_type"`
	Address      *string            `json:"address"`
	ClinicID     *string            `json:"clinic_id"`
	Consents     consentsRequest    `json:"consents"`
	ReferralCode string             `json:"referral_code"`
}

type createBookingResponse struct {
	Success         bool   `json:"success"`
	BookingID       string `json:"booking_id"`
	ReferralApplied bool   `json:"referral_applied"`
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.TenantIDFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusBadRequest, "Tenant ID/Code header required or unauthorized access")
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid request body")
	}

	date, verr := common.ParseDate(req.Date, "date")
	if verr != nil {
		return common.SendValidationError(c, verr)
	}
	dob, verr := common.ParseOptionalDate(req.PatientInfo.DateOfBirth, "date_of_birth")
	if verr != nil {
		return common.SendValidationError(c, verr)
	}

	input := services.CreateBookingInput{
		PatientEmail:       req.PatientInfo.Email,
		PatientName:        req.PatientInfo.FullName,
		PatientPhone:       req.PatientInfo.Phone,
		PatientDateOfBirth: dob,
		Date:               date,
		Time:               req.Time,
		LocationType:       req.LocationType,
		Address:            req.Address,
		ClinicID:           req.ClinicID,
		ConsentKVKK:        req.Consents.KVKK,
		ConsentTerms:       req.Consents.Terms,
		ReferralCode:       req.ReferralCode,
	}

	result, err := h.bookingService.CreateBooking(ctx, tenantID, input)
	if err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			return common.SendValidationError(c, verr)
		}
		h.logger.Error().Err(err).Int64("tenant_id", int64(tenantID)).Msg("booking creation failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusCreated, createBookingResponse{
		Success:         true,
		BookingID:       result.BookingID.String(),
		ReferralApplied: result.ReferralApplied,
	})
}

// ListBookings handles GET /v1/admin/bookings
func (h *BookingHandlers) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	bookings, err := h.bookingService.ListBookings(ctx, identity.TenantID, c.QueryParam("status"), limit, offset)
	if err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			return common.SendValidationError(c, verr)
		}
		h.logger.Error().Err(err).Int64("tenant_id", int64(identity.TenantID)).Msg("booking list failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"bookings": bookings})
}

// GetBooking handles GET /v1/admin/bookings/:id
func (h *BookingHandlers) GetBooking(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid booking id")
	}

	booking, err := h.bookingService.GetBooking(ctx, identity.TenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendError(c, http.StatusNotFound, "Booking not found")
		}
		h.logger.Error().Err(err).Str("booking_id", id.String()).Msg("booking fetch failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, booking)
}

// UpdateBookingStatus handles PUT /v1/admin/bookings/:id/status
func (h *BookingHandlers) UpdateBookingStatus(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid booking id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.bookingService.UpdateBookingStatus(ctx, identity.TenantID, id, req.Status); err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			return common.SendValidationError(c, verr)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendError(c, http.StatusNotFound, "Booking not found")
		}
		h.logger.Error().Err(err).Str("booking_id", id.String()).Msg("booking status update failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
