package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/models"
	"healthhub/internal/repositories"
)

// AuditHandlers exposes the cross-tenant access audit trail to tenant admins.
type AuditHandlers struct {
	audit  repositories.AccessAuditRepository
	logger zerolog.Logger
}

func NewAuditHandlers(audit repositories.AccessAuditRepository, logger zerolog.Logger) *AuditHandlers {
	return &AuditHandlers{audit: audit, logger: logger}
}

// ListAuditEntries handles GET /v1/admin/audit. Entries are scoped to the
// currently resolved tenant; only admins and super_admins may read them.
func (h *AuditHandlers) ListAuditEntries(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}
	if identity.Role != models.RoleAdmin && identity.Role != models.RoleSuperAdmin {
		return common.SendError(c, http.StatusForbidden, "Insufficient role for audit access")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)
	filters := models.AccessAuditFilters{Limit: limit, Offset: offset}

	if raw := c.QueryParam("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return common.SendError(c, http.StatusBadRequest, "Invalid user id")
		}
		filters.UserID = &userID
	}
	if raw := c.QueryParam("since"); raw != "" {
		since, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return common.SendError(c, http.StatusBadRequest, "since must be YYYY-MM-DD")
		}
		filters.Since = &since
	}

	entries, err := h.audit.ListByTenant(ctx, identity.TenantID, filters)
	if err != nil {
		h.logger.Error().Err(err).Int64("tenant_id", int64(identity.TenantID)).Msg("audit list failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"entries": entries})
}
