package repositories

import (
	"context"

	"github.com/google/uuid"

	"healthhub/internal/models"
)

// GrantRepository manages admin_user_tenants rows, the per-tenant access
// grants that the access guard consults.
type GrantRepository interface {
	GetRole(ctx context.Context, userID uuid.UUID, tenantID models.TenantID) (models.Role, error)
	ListTenantIDs(ctx context.Context, userID uuid.UUID) ([]models.TenantID, error)
	Grant(ctx context.Context, grant *models.AdminUserTenant) error
	Revoke(ctx context.Context, userID uuid.UUID, tenantID models.TenantID) error
}

type grantRepo struct {
	db Querier
}

func NewGrantRepo(db Querier) GrantRepository {
	return &grantRepo{db: db}
}

func (r *grantRepo) GetRole(ctx context.Context, userID uuid.UUID, tenantID models.TenantID) (models.Role, error) {
	var role models.Role
	query := `
		SELECT role
		FROM admin_user_tenants
		WHERE user_id = $1 AND tenant_id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, tenantID).Scan(&role)
	if err != nil {
		return "", err
	}
	return role, nil
}

func (r *grantRepo) ListTenantIDs(ctx context.Context, userID uuid.UUID) ([]models.TenantID, error) {
	query := `
		SELECT tenant_id
		FROM admin_user_tenants
		WHERE user_id = $1
		ORDER BY tenant_id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []models.TenantID
	for rows.Next() {
		var id models.TenantID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *grantRepo) Grant(ctx context.Context, grant *models.AdminUserTenant) error {
	query := `
		INSERT INTO admin_user_tenants (user_id, tenant_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, tenant_id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := r.db.Exec(ctx, query, grant.UserID, grant.TenantID, grant.Role)
	return err
}

func (r *grantRepo) Revoke(ctx context.Context, userID uuid.UUID, tenantID models.TenantID) error {
	query := `DELETE FROM admin_user_tenants WHERE user_id = $1 AND tenant_id = $2`
	_, err := r.db.Exec(ctx, query, userID, tenantID)
	return err
}
