package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/repositories"
	"healthhub/internal/services"
)

type AuthHandlers struct {
	authService services.AuthService
	users       repositories.AdminUserRepository
	logger      zerolog.Logger
}

func NewAuthHandlers(authService services.AuthService, users repositories.AdminUserRepository, logger zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{authService: authService, users: users, logger: logger}
}

// Login handles POST /v1/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendError(c, http.StatusBadRequest, "email and password are required")
	}

	session, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			return common.SendError(c, http.StatusUnauthorized, "Invalid email or password")
		}
		h.logger.Error().Err(err).Msg("login failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":      session.Token,
		"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Me handles GET /v1/me. It reports the authenticated admin's identity
// within the resolved tenant.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.IdentityFromContext(ctx)
	if !ok || !identity.Authenticated() {
		return common.SendUnauthorized(c)
	}

	user, err := h.users.GetByID(ctx, identity.UserID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", identity.UserID.String()).Msg("profile fetch failed")
		return common.SendServerError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":   user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"tenant_id": identity.TenantID,
		"role":      identity.Role,
	})
}
