package repositories

import (
	"context"

	"github.com/google/uuid"

	"healthhub/internal/models"
)

type AccessAuditRepository interface {
	Record(ctx context.Context, entry *models.AccessAuditEntry) error
	ListByTenant(ctx context.Context, tenantID models.TenantID, filters models.AccessAuditFilters) ([]*models.AccessAuditEntry, error)
}

type accessAuditRepo struct {
	db Querier
}

func NewAccessAuditRepo(db Querier) AccessAuditRepository {
	return &accessAuditRepo{db: db}
}

func (r *accessAuditRepo) Record(ctx context.Context, entry *models.AccessAuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO access_audit (id, user_id, tenant_id, action, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.UserID, entry.TenantID, entry.Action)
	return err
}

func (r *accessAuditRepo) ListByTenant(ctx context.Context, tenantID models.TenantID, filters models.AccessAuditFilters) ([]*models.AccessAuditEntry, error) {
	query := `
		SELECT id, user_id, tenant_id, action, created_at
		FROM access_audit
		WHERE tenant_id = $1
		  AND ($2::uuid IS NULL OR user_id = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, tenantID, filters.UserID, filters.Since, filters.Limit, filters.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AccessAuditEntry
	for rows.Next() {
		entry := &models.AccessAuditEntry{}
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.TenantID, &entry.Action, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
