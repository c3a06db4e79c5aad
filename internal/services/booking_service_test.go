package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"healthhub/internal/common"
	"healthhub/internal/models"
	"healthhub/internal/repositories"
)

type BookingServiceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	service BookingService
	ctx     context.Context
}

func (suite *BookingServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.service = NewBookingService(
		mock,
		repositories.NewPatientRepo(mock),
		repositories.NewReferralRepo(mock),
		repositories.NewBookingRepo(mock),
		zerolog.Nop(),
	)
	suite.ctx = context.Background()
}

func (suite *BookingServiceTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func bookingInput() CreateBookingInput {
	return CreateBookingInput{
		PatientEmail: "x@y.com",
		PatientName:  "Jane Doe",
		Date:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

func patientRows(id uuid.UUID, tenantID models.TenantID, email string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "tenant_id", "email", "full_name", "phone", "date_of_birth", "created_at", "updated_at",
	}).AddRow(id, tenantID, email, "Jane Doe", nil, nil, now, now)
}

func (suite *BookingServiceTestSuite) TestCreateBooking_NewPatientWithReferral() {
	tenantID := models.TenantID(5)
	codeID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM patients`).
		WithArgs(tenantID, "x@y.com").
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectExec(`INSERT INTO patients`).
		WithArgs(pgxmock.AnyArg(), tenantID, "x@y.com", "Jane Doe", (*string)(nil), (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`UPDATE referral_codes`).
		WithArgs("OMEGA2025").
		WillReturnRows(pgxmock.NewRows([]string{"id", "code", "discount_percent"}).
			AddRow(codeID, "OMEGA2025", 10))
	suite.mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(pgxmock.AnyArg(), tenantID, pgxmock.AnyArg(), models.BookingPending,
			pgxmock.AnyArg(), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), false, false, &codeID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	input := bookingInput()
	input.ReferralCode = "omega2025"

	result, err := suite.service.CreateBooking(suite.ctx, tenantID, input)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.ReferralApplied)
	assert.Equal(suite.T(), 10, result.DiscountPercent)
	assert.NotEqual(suite.T(), uuid.Nil, result.BookingID)
}

// An unknown referral code yields no discount, and the booking still
// succeeds with a null referral reference.
func (suite *BookingServiceTestSuite) TestCreateBooking_UnknownReferralCode() {
	tenantID := models.TenantID(5)
	patientID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM patients`).
		WithArgs(tenantID, "x@y.com").
		WillReturnRows(patientRows(patientID, tenantID, "x@y.com"))
	suite.mock.ExpectQuery(`UPDATE referral_codes`).
		WithArgs("BADCODE").
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(pgxmock.AnyArg(), tenantID, patientID, models.BookingPending,
			pgxmock.AnyArg(), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), false, false, (*uuid.UUID)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	input := bookingInput()
	input.ReferralCode = "BADCODE"

	result, err := suite.service.CreateBooking(suite.ctx, tenantID, input)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.ReferralApplied)
}

func (suite *BookingServiceTestSuite) TestCreateBooking_ExistingPatientReused() {
	tenantID := models.TenantID(5)
	patientID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM patients`).
		WithArgs(tenantID, "x@y.com").
		WillReturnRows(patientRows(patientID, tenantID, "x@y.com"))
	suite.mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(pgxmock.AnyArg(), tenantID, patientID, models.BookingPending,
			pgxmock.AnyArg(), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), false, false, (*uuid.UUID)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	result, err := suite.service.CreateBooking(suite.ctx, tenantID, bookingInput())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), patientID, result.PatientID)
}

// When the booking insert fails, the whole transaction rolls back and the
// referral increment is not left dangling.
func (suite *BookingServiceTestSuite) TestCreateBooking_InsertFailureRollsBack() {
	tenantID := models.TenantID(5)
	patientID := uuid.New()
	codeID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM patients`).
		WithArgs(tenantID, "x@y.com").
		WillReturnRows(patientRows(patientID, tenantID, "x@y.com"))
	suite.mock.ExpectQuery(`UPDATE referral_codes`).
		WithArgs("OMEGA2025").
		WillReturnRows(pgxmock.NewRows([]string{"id", "code", "discount_percent"}).
			AddRow(codeID, "OMEGA2025", 10))
	suite.mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(pgxmock.AnyArg(), tenantID, patientID, models.BookingPending,
			pgxmock.AnyArg(), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), false, false, &codeID).
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	input := bookingInput()
	input.ReferralCode = "OMEGA2025"

	result, err := suite.service.CreateBooking(suite.ctx, tenantID, input)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}

// Malformed input aborts before any write; no transaction is opened.
func (suite *BookingServiceTestSuite) TestCreateBooking_InvalidEmailAbortsEarly() {
	input := bookingInput()
	input.PatientEmail = "not-an-email"

	result, err := suite.service.CreateBooking(suite.ctx, models.TenantID(5), input)
	assert.Nil(suite.T(), result)

	var verr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &verr)
	assert.Equal(suite.T(), "email", verr.Field)
}

func (suite *BookingServiceTestSuite) TestUpdateBookingStatus_UnknownStatusRejected() {
	err := suite.service.UpdateBookingStatus(suite.ctx, 5, uuid.New(), "teleported")

	var verr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &verr)
	assert.Equal(suite.T(), "status", verr.Field)
}

func (suite *BookingServiceTestSuite) TestListBookings_StatusFilterValidated() {
	_, err := suite.service.ListBookings(suite.ctx, 5, "bogus", 10, 0)

	var verr *common.ValidationError
	assert.ErrorAs(suite.T(), err, &verr)
}
