package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"healthhub/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, tenantID models.TenantID, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, tenantID models.TenantID, status *models.BookingStatus, limit, offset int) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, tenantID models.TenantID, id uuid.UUID, status models.BookingStatus) error
	WithTx(tx pgx.Tx) BookingRepository
}

type bookingRepo struct {
	db Querier
}

func NewBookingRepo(db Querier) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) WithTx(tx pgx.Tx) BookingRepository {
	return &bookingRepo{db: tx}
}

const bookingColumns = `id, tenant_id, patient_id, status, booking_date, booking_time,
		location_type, address, clinic_id, consent_kvkk, consent_terms, referral_code_id,
		created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(&b.ID, &b.TenantID, &b.PatientID, &b.Status, &b.BookingDate,
		&b.BookingTime, &b.LocationType, &b.Address, &b.ClinicID,
		&b.ConsentKVKK, &b.ConsentTerms, &b.ReferralCodeID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, tenant_id, patient_id, status, booking_date, booking_time,
			location_type, address, clinic_id, consent_kvkk, consent_terms, referral_code_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, booking.ID, booking.TenantID, booking.PatientID,
		booking.Status, booking.BookingDate, booking.BookingTime, booking.LocationType,
		booking.Address, booking.ClinicID, booking.ConsentKVKK, booking.ConsentTerms,
		booking.ReferralCodeID)
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, tenantID models.TenantID, id uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND id = $2
	`
	return scanBooking(r.db.QueryRow(ctx, query, tenantID, id))
}

func (r *bookingRepo) List(ctx context.Context, tenantID models.TenantID, status *models.BookingStatus, limit, offset int) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, tenantID models.TenantID, id uuid.UUID, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
