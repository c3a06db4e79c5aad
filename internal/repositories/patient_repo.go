package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"healthhub/internal/models"
)

const uniqueViolation = "23505"

type PatientRepository interface {
	FindByEmail(ctx context.Context, tenantID models.TenantID, email string) (*models.Patient, error)
	FindOrCreate(ctx context.Context, tenantID models.TenantID, email string, profile models.PatientProfile) (*models.Patient, error)
	ListByTenant(ctx context.Context, tenantID models.TenantID, limit, offset int) ([]*models.Patient, error)
	WithTx(tx pgx.Tx) PatientRepository
}

type patientRepo struct {
	db Querier
}

func NewPatientRepo(db Querier) PatientRepository {
	return &patientRepo{db: db}
}

func (r *patientRepo) WithTx(tx pgx.Tx) PatientRepository {
	return &patientRepo{db: tx}
}

const patientColumns = `id, tenant_id, email, full_name, phone, date_of_birth, created_at, updated_at`

func scanPatient(row pgx.Row) (*models.Patient, error) {
	patient := &models.Patient{}
	err := row.Scan(&patient.ID, &patient.TenantID, &patient.Email, &patient.FullName,
		&patient.Phone, &patient.DateOfBirth, &patient.CreatedAt, &patient.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return patient, nil
}

func (r *patientRepo) FindByEmail(ctx context.Context, tenantID models.TenantID, email string) (*models.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE tenant_id = $1 AND email = $2
	`
	return scanPatient(r.db.QueryRow(ctx, query, tenantID, email))
}

func (r *patientRepo) insert(ctx context.Context, patient *models.Patient) error {
	query := `
		INSERT INTO patients (id, tenant_id, email, full_name, phone, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, patient.ID, patient.TenantID, patient.Email,
		patient.FullName, patient.Phone, patient.DateOfBirth)
	return err
}

// FindOrCreate resolves a patient by (tenant_id, email), inserting a new row
// with the supplied profile when absent. The unique index on
// (tenant_id, email) makes the insert race-safe: when two requests race to
// create the same patient, the loser observes the unique violation and
// re-reads the winner's row instead of failing.
func (r *patientRepo) FindOrCreate(ctx context.Context, tenantID models.TenantID, email string, profile models.PatientProfile) (*models.Patient, error) {
	patient, err := r.FindByEmail(ctx, tenantID, email)
	if err == nil {
		return patient, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	patient = &models.Patient{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Email:       email,
		FullName:    profile.FullName,
		Phone:       profile.Phone,
		DateOfBirth: profile.DateOfBirth,
	}
	err = r.insert(ctx, patient)
	if err == nil {
		return patient, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		// Lost the race; the winner's row is authoritative.
		return r.FindByEmail(ctx, tenantID, email)
	}
	return nil, err
}

func (r *patientRepo) ListByTenant(ctx context.Context, tenantID models.TenantID, limit, offset int) ([]*models.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*models.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}
	return patients, rows.Err()
}
