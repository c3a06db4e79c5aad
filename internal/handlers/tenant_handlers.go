package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/models"
	"healthhub/internal/repositories"
	"healthhub/internal/services"
)

// TenantHandlers exposes the tenants an admin may act in, plus grant
// management for provisioning.
type TenantHandlers struct {
	directory services.TenantDirectory
	grants    repositories.GrantRepository
	logger    zerolog.Logger
}

func NewTenantHandlers(directory services.TenantDirectory, grants repositories.GrantRepository, logger zerolog.Logger) *TenantHandlers {
	return &TenantHandlers{directory: directory, grants: grants, logger: logger}
}

// ListMyTenants handles GET /v1/admin/tenants. A super_admin sees every
// active tenant; everyone else sees only the tenants they hold grants for.
func (h *TenantHandlers) ListMyTenants(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}

	var (
		tenants []*models.Tenant
		err     error
	)
	if identity.Role == models.RoleSuperAdmin {
		tenants, err = h.directory.ListActive(ctx)
	} else {
		var ids []models.TenantID
		ids, err = h.grants.ListTenantIDs(ctx, identity.UserID)
		if err == nil {
			tenants, err = h.directory.ListByIDs(ctx, ids)
		}
	}
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("tenant list failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"tenants": tenants})
}

// SetTenantActive handles PUT /v1/admin/tenants/:id/active. Activating or
// deactivating a brand is a platform-level action reserved for super_admins;
// the directory drops the tenant's cache entries so deactivation takes
// effect immediately.
func (h *TenantHandlers) SetTenantActive(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}
	if identity.Role != models.RoleSuperAdmin {
		return common.SendError(c, http.StatusForbidden, "Insufficient role for tenant management")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid tenant id")
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil || req.Active == nil {
		return common.SendError(c, http.StatusBadRequest, "active is required")
	}

	tenant, err := h.directory.SetTenantActive(ctx, models.TenantID(id), *req.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendError(c, http.StatusNotFound, "Tenant not found")
		}
		h.logger.Error().Err(err).Int64("tenant_id", id).Msg("tenant active update failed")
		return common.SendServerError(c)
	}

	h.logger.Info().
		Str("updated_by", identity.UserID.String()).
		Int64("tenant_id", id).
		Bool("active", *req.Active).
		Msg("tenant active flag changed")
	return c.JSON(http.StatusOK, tenant)
}

// CreateGrant handles POST /v1/admin/grants. It grants another admin access
// to the currently resolved tenant. Only tenant admins and super_admins may
// manage grants.
func (h *TenantHandlers) CreateGrant(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}
	if identity.Role != models.RoleAdmin && identity.Role != models.RoleSuperAdmin {
		return common.SendError(c, http.StatusForbidden, "Insufficient role for grant management")
	}

	var req struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid user id")
	}
	role := models.Role(req.Role)
	if !models.ValidGrantRole(role) {
		return common.SendError(c, http.StatusBadRequest, "role must be one of: admin, editor, viewer")
	}

	grant := &models.AdminUserTenant{UserID: userID, TenantID: identity.TenantID, Role: role}
	if err := h.grants.Grant(ctx, grant); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("grant creation failed")
		return common.SendServerError(c)
	}

	h.logger.Info().
		Str("granted_by", identity.UserID.String()).
		Str("user_id", userID.String()).
		Int64("tenant_id", int64(identity.TenantID)).
		Str("role", string(role)).
		Msg("tenant grant created")
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true})
}

// DeleteGrant handles DELETE /v1/admin/grants/:user_id, revoking another
// admin's access to the currently resolved tenant.
func (h *TenantHandlers) DeleteGrant(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}
	if identity.Role != models.RoleAdmin && identity.Role != models.RoleSuperAdmin {
		return common.SendError(c, http.StatusForbidden, "Insufficient role for grant management")
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid user id")
	}

	if err := h.grants.Revoke(ctx, userID, identity.TenantID); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("grant revocation failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
