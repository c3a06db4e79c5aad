package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"healthhub/internal/common"
	"healthhub/internal/services"
)

type ReferralHandlers struct {
	referralService services.ReferralService
	logger          zerolog.Logger
}

func NewReferralHandlers(referralService services.ReferralService, logger zerolog.Logger) *ReferralHandlers {
	return &ReferralHandlers{referralService: referralService, logger: logger}
}

type validateReferralResponse struct {
	Valid           bool   `json:"valid"`
	Code            string `json:"code,omitempty"`
	DoctorName      string `json:"doctor_name,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	Message         string `json:"message,omitempty"`
}

// ValidateReferral handles POST /v1/referrals/validate. Validation is
// read-only; the usage counter moves only when a booking applies the code.
func (h *ReferralHandlers) ValidateReferral(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Code == "" {
		return common.SendError(c, http.StatusBadRequest, "code is required")
	}

	rc, err := h.referralService.ValidateCode(ctx, req.Code)
	if err != nil {
		h.logger.Error().Err(err).Msg("referral validation failed")
		return common.SendServerError(c)
	}

	if rc == nil {
		return c.JSON(http.StatusOK, validateReferralResponse{
			Valid:   false,
			Message: "Invalid or inactive referral code",
		})
	}

	return c.JSON(http.StatusOK, validateReferralResponse{
		Valid:           true,
		Code:            rc.Code,
		DoctorName:      rc.DoctorName,
		DiscountPercent: rc.DiscountPercent,
	})
}
