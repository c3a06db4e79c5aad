package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"healthhub/internal/models"
)

type ReferralRepository interface {
	GetActiveByCode(ctx context.Context, code string) (*models.ReferralCode, error)
	Apply(ctx context.Context, code string) (*models.ReferralApplication, error)
	WithTx(tx pgx.Tx) ReferralRepository
}

type referralRepo struct {
	db Querier
}

func NewReferralRepo(db Querier) ReferralRepository {
	return &referralRepo{db: db}
}

func (r *referralRepo) WithTx(tx pgx.Tx) ReferralRepository {
	return &referralRepo{db: tx}
}

// GetActiveByCode looks up an active referral code case-insensitively.
// It does not touch the usage counter.
func (r *referralRepo) GetActiveByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	rc := &models.ReferralCode{}
	query := `
		SELECT id, code, doctor_name, discount_percent, usage_count, is_active, created_at, updated_at
		FROM referral_codes
		WHERE code = $1 AND is_active = TRUE
	`
	err := r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&rc.ID, &rc.Code, &rc.DoctorName, &rc.DiscountPercent, &rc.UsageCount,
		&rc.IsActive, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// Apply validates the code and increments its usage counter in one atomic
// statement, so concurrent redemptions of the same code are all counted.
// An unknown or inactive code yields (nil, nil): the booking simply proceeds
// without a discount.
func (r *referralRepo) Apply(ctx context.Context, code string) (*models.ReferralApplication, error) {
	app := &models.ReferralApplication{}
	query := `
		UPDATE referral_codes
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE code = $1 AND is_active = TRUE
		RETURNING id, code, discount_percent
	`
	err := r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&app.CodeID, &app.Code, &app.DiscountPercent)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}
