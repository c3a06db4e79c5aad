package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/models"
	"healthhub/internal/repositories"
)

// AccessGuard confirms that an authenticated admin may act within a resolved
// tenant. Every admin-scoped read or write passes through Authorize before
// touching tenant-scoped tables; it is the single place cross-tenant leakage
// is prevented.
type AccessGuard interface {
	Authorize(ctx context.Context, userID uuid.UUID, tenantID models.TenantID) (models.Role, error)
}

type accessGuard struct {
	grants    repositories.GrantRepository
	users     repositories.AdminUserRepository
	audit     repositories.AccessAuditRepository
	directory TenantDirectory
	logger    zerolog.Logger
}

func NewAccessGuard(grants repositories.GrantRepository, users repositories.AdminUserRepository, audit repositories.AccessAuditRepository, directory TenantDirectory, logger zerolog.Logger) AccessGuard {
	return &accessGuard{grants: grants, users: users, audit: audit, directory: directory, logger: logger}
}

// Authorize returns the admin's role for the tenant. It fails with
// ErrForbidden when the tenant is inactive or no grant exists. A user whose
// global role is super_admin is authorized for any active tenant without a
// grant row; every such cross-tenant access is written to the audit trail.
func (g *accessGuard) Authorize(ctx context.Context, userID uuid.UUID, tenantID models.TenantID) (models.Role, error) {
	if _, err := g.directory.ActiveByID(ctx, tenantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", common.ErrForbidden
		}
		return "", err
	}

	role, err := g.grants.GetRole(ctx, userID, tenantID)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", common.ErrForbidden
		}
		return "", err
	}
	if user.Role == models.RoleSuperAdmin {
		g.logger.Warn().
			Str("user_id", userID.String()).
			Int64("tenant_id", int64(tenantID)).
			Msg("super_admin cross-tenant access")
		entry := &models.AccessAuditEntry{
			UserID:   userID,
			TenantID: tenantID,
			Action:   models.AuditActionCrossTenantAccess,
		}
		if err := g.audit.Record(ctx, entry); err != nil {
			// The access itself already succeeded; losing the audit row must
			// not turn an authorized request into a 500.
			g.logger.Error().Err(err).Msg("failed to record cross-tenant audit entry")
		}
		return models.RoleSuperAdmin, nil
	}

	return "", common.ErrForbidden
}
