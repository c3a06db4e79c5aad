package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"healthhub/internal/models"
	"healthhub/internal/repositories"
)

// ReferralService answers the standalone, read-only code validation used by
// the public endpoint. Applying a code to a booking (which increments the
// usage counter) happens inside the booking transaction, not here.
type ReferralService interface {
	ValidateCode(ctx context.Context, code string) (*models.ReferralCode, error)
}

type referralService struct {
	referrals repositories.ReferralRepository
}

func NewReferralService(referrals repositories.ReferralRepository) ReferralService {
	return &referralService{referrals: referrals}
}

// ValidateCode returns the active referral code matching the input
// case-insensitively, or nil when no such code exists. An unknown code is
// not an error.
func (s *referralService) ValidateCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	rc, err := s.referrals.GetActiveByCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rc, nil
}
