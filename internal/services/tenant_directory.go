package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"healthhub/internal/caching"
	"healthhub/internal/models"
	"healthhub/internal/repositories"
)

const tenantCacheTTL = 5 * time.Minute

// TenantDirectory is the catalog of tenants keyed by id, code and primary
// domain. Lookups used for resolution only ever return active tenants.
// Reads go through the cache; misses fall back to the database and backfill.
type TenantDirectory interface {
	ActiveByID(ctx context.Context, id models.TenantID) (*models.Tenant, error)
	ActiveByCode(ctx context.Context, code string) (*models.Tenant, error)
	ActiveByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	ListActive(ctx context.Context) ([]*models.Tenant, error)
	ListByIDs(ctx context.Context, ids []models.TenantID) ([]*models.Tenant, error)
	SetTenantActive(ctx context.Context, id models.TenantID, active bool) (*models.Tenant, error)
	WarmCache(ctx context.Context) error
}

type tenantDirectory struct {
	repo   repositories.TenantRepository
	cache  caching.TenantCache
	logger zerolog.Logger
}

func NewTenantDirectory(repo repositories.TenantRepository, cache caching.TenantCache, logger zerolog.Logger) TenantDirectory {
	return &tenantDirectory{repo: repo, cache: cache, logger: logger}
}

func (d *tenantDirectory) cached(ctx context.Context, tenant *models.Tenant, cacheErr error) {
	if cacheErr != nil {
		d.logger.Warn().Err(cacheErr).Msg("tenant cache read failed")
	}
	if tenant == nil {
		return
	}
	if err := d.cache.Set(ctx, tenant, tenantCacheTTL); err != nil {
		d.logger.Warn().Err(err).Int64("tenant_id", int64(tenant.ID)).Msg("tenant cache write failed")
	}
}

func (d *tenantDirectory) ActiveByID(ctx context.Context, id models.TenantID) (*models.Tenant, error) {
	tenant, cacheErr := d.cache.GetByID(ctx, id)
	if tenant != nil && cacheErr == nil {
		if !tenant.IsActive {
			return nil, pgx.ErrNoRows
		}
		return tenant, nil
	}

	tenant, err := d.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cached(ctx, tenant, cacheErr)
	return tenant, nil
}

func (d *tenantDirectory) ActiveByCode(ctx context.Context, code string) (*models.Tenant, error) {
	tenant, cacheErr := d.cache.GetByCode(ctx, code)
	if tenant != nil && cacheErr == nil {
		if !tenant.IsActive {
			return nil, pgx.ErrNoRows
		}
		return tenant, nil
	}

	tenant, err := d.repo.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	d.cached(ctx, tenant, cacheErr)
	return tenant, nil
}

func (d *tenantDirectory) ActiveByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	tenant, cacheErr := d.cache.GetByDomain(ctx, domain)
	if tenant != nil && cacheErr == nil {
		if !tenant.IsActive {
			return nil, pgx.ErrNoRows
		}
		return tenant, nil
	}

	tenant, err := d.repo.GetActiveByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	d.cached(ctx, tenant, cacheErr)
	return tenant, nil
}

func (d *tenantDirectory) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	return d.repo.ListActive(ctx)
}

func (d *tenantDirectory) ListByIDs(ctx context.Context, ids []models.TenantID) ([]*models.Tenant, error) {
	return d.repo.ListByIDs(ctx, ids)
}

// SetTenantActive flips a tenant's active flag and drops its cache entries
// so the change takes effect on the next resolution rather than after the
// TTL. A failed invalidation is returned: the database update has already
// committed, and retrying the call re-runs both steps harmlessly.
func (d *tenantDirectory) SetTenantActive(ctx context.Context, id models.TenantID, active bool) (*models.Tenant, error) {
	if err := d.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	tenant, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.cache.Invalidate(ctx, tenant); err != nil {
		d.logger.Error().Err(err).Int64("tenant_id", int64(id)).Msg("tenant cache invalidation failed")
		return nil, fmt.Errorf("invalidate tenant cache: %w", err)
	}

	d.logger.Info().Int64("tenant_id", int64(id)).Bool("active", active).Msg("tenant active flag updated")
	return tenant, nil
}

// WarmCache pre-populates the cache with every active tenant. Run at startup
// and periodically by the background scheduler.
func (d *tenantDirectory) WarmCache(ctx context.Context) error {
	tenants, err := d.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	var firstErr error
	for _, tenant := range tenants {
		if err := d.cache.Set(ctx, tenant, tenantCacheTTL); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return errors.Join(errors.New("tenant cache warm incomplete"), firstErr)
	}
	return nil
}
