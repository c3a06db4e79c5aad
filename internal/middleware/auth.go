package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/services"
)

const tenantRequiredMessage = "Tenant ID/Code header required or unauthorized access"

// AuthMiddleware composes tenant resolution, session authentication and the
// tenant access guard. It is the single entry point admin routes use; the
// handlers behind it read the resolved identity from the request context and
// never consult the tenant, session or grant tables themselves.
type AuthMiddleware struct {
	resolver services.TenantResolver
	auth     services.AuthService
	guard    services.AccessGuard
	logger   zerolog.Logger
}

func NewAuthMiddleware(resolver services.TenantResolver, auth services.AuthService, guard services.AccessGuard, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, auth: auth, guard: guard, logger: logger}
}

func signalsFromRequest(c echo.Context) services.Signals {
	req := c.Request()
	return services.Signals{
		TenantID:   req.Header.Get("X-Tenant-Id"),
		TenantCode: req.Header.Get("X-Tenant-Code"),
		Host:       req.Host,
	}
}

// RequireAdminTenant chains resolve → authenticate → authorize and stores the
// composed identity in the request context. Resolution failure is fatal on
// admin routes.
func (m *AuthMiddleware) RequireAdminTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			tenant, err := m.resolver.Resolve(ctx, signalsFromRequest(c))
			if err != nil {
				if errors.Is(err, common.ErrTenantNotResolved) {
					return common.SendError(c, http.StatusBadRequest, tenantRequiredMessage)
				}
				m.logger.Error().Err(err).Msg("tenant resolution failed")
				return common.SendServerError(c)
			}

			userID, err := m.auth.Authenticate(ctx, c.Request().Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, common.ErrUnauthenticated) {
					return common.SendUnauthorized(c)
				}
				m.logger.Error().Err(err).Msg("session authentication failed")
				return common.SendServerError(c)
			}

			role, err := m.guard.Authorize(ctx, userID, tenant.ID)
			if err != nil {
				if errors.Is(err, common.ErrForbidden) {
					return common.SendError(c, http.StatusForbidden, tenantRequiredMessage)
				}
				m.logger.Error().Err(err).Msg("tenant authorization failed")
				return common.SendServerError(c)
			}

			identity := common.Identity{TenantID: tenant.ID, UserID: userID, Role: role}
			c.SetRequest(c.Request().WithContext(common.WithIdentity(ctx, identity)))
			return next(c)
		}
	}
}

// ResolveTenant resolves the tenant for public routes. When no signal
// matches, the configured default tenant code is substituted instead of
// failing.
func (m *AuthMiddleware) ResolveTenant(defaultTenantCode string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			tenant, err := m.resolver.Resolve(ctx, signalsFromRequest(c))
			if errors.Is(err, common.ErrTenantNotResolved) && defaultTenantCode != "" {
				tenant, err = m.resolver.Resolve(ctx, services.Signals{TenantCode: defaultTenantCode})
			}
			if err != nil {
				if errors.Is(err, common.ErrTenantNotResolved) {
					return common.SendError(c, http.StatusBadRequest, tenantRequiredMessage)
				}
				m.logger.Error().Err(err).Msg("tenant resolution failed")
				return common.SendServerError(c)
			}

			identity := common.Identity{TenantID: tenant.ID}
			c.SetRequest(c.Request().WithContext(common.WithIdentity(ctx, identity)))
			return next(c)
		}
	}
}
