package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/models"
)

// Signals are the raw tenant-resolution inputs carried by a request.
// Resolution is a pure function of these values; there is no fallback to
// previously resolved tenants or any other mutable state.
type Signals struct {
	TenantID   string // X-Tenant-Id header, raw
	TenantCode string // X-Tenant-Code header
	Host       string // Host header, may carry a port suffix
}

type TenantResolver interface {
	Resolve(ctx context.Context, signals Signals) (*models.Tenant, error)
}

type tenantResolver struct {
	directory TenantDirectory
	logger    zerolog.Logger
}

func NewTenantResolver(directory TenantDirectory, logger zerolog.Logger) TenantResolver {
	return &tenantResolver{directory: directory, logger: logger}
}

// Resolve derives the active tenant for a request. Priority order: explicit
// numeric id, explicit code, host-name match against primary_domain. A signal
// that is present but matches no active tenant does not fall through to the
// next one; first present signal wins. Codes and hosts compare
// case-insensitively: both are lowercased here, once, so cache keys and the
// exact-match database lookups see the same value.
func (r *tenantResolver) Resolve(ctx context.Context, signals Signals) (*models.Tenant, error) {
	if raw := strings.TrimSpace(signals.TenantID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, common.ErrTenantNotResolved
		}
		return r.lookup(r.directory.ActiveByID(ctx, models.TenantID(id)))
	}

	if code := strings.ToLower(strings.TrimSpace(signals.TenantCode)); code != "" {
		return r.lookup(r.directory.ActiveByCode(ctx, code))
	}

	if host := stripPort(signals.Host); host != "" {
		return r.lookup(r.directory.ActiveByDomain(ctx, host))
	}

	return nil, common.ErrTenantNotResolved
}

func (r *tenantResolver) lookup(tenant *models.Tenant, err error) (*models.Tenant, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrTenantNotResolved
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// stripPort removes a :port suffix from a host header value.
func stripPort(host string) string {
	host = strings.TrimSpace(strings.ToLower(host))
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i+1:], "]") {
		if _, err := strconv.Atoi(host[i+1:]); err == nil {
			host = host[:i]
		}
	}
	return host
}
