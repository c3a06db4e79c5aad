package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"healthhub/internal/models"
)

type TenantRepository interface {
	GetByID(ctx context.Context, id models.TenantID) (*models.Tenant, error)
	GetActiveByID(ctx context.Context, id models.TenantID) (*models.Tenant, error)
	GetActiveByCode(ctx context.Context, code string) (*models.Tenant, error)
	GetActiveByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	ListActive(ctx context.Context) ([]*models.Tenant, error)
	ListByIDs(ctx context.Context, ids []models.TenantID) ([]*models.Tenant, error)
	SetActive(ctx context.Context, id models.TenantID, active bool) error
}

type tenantRepo struct {
	db Querier
}

func NewTenantRepo(db Querier) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, code, name, primary_domain, is_active, created_at, updated_at`

func scanTenant(row interface{ Scan(dest ...interface{}) error }) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(&tenant.ID, &tenant.Code, &tenant.Name, &tenant.PrimaryDomain,
		&tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id models.TenantID) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1
	`
	return scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetActiveByID(ctx context.Context, id models.TenantID) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1 AND is_active = TRUE
	`
	return scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetActiveByCode(ctx context.Context, code string) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE code = $1 AND is_active = TRUE
	`
	return scanTenant(r.db.QueryRow(ctx, query, code))
}

func (r *tenantRepo) GetActiveByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE primary_domain = $1 AND is_active = TRUE
	`
	return scanTenant(r.db.QueryRow(ctx, query, domain))
}

func (r *tenantRepo) SetActive(ctx context.Context, id models.TenantID, active bool) error {
	query := `
		UPDATE tenants
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantRepo) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE is_active = TRUE
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) ListByIDs(ctx context.Context, ids []models.TenantID) ([]*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = ANY($1)
		ORDER BY id
	`
	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}
	rows, err := r.db.Query(ctx, query, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}
