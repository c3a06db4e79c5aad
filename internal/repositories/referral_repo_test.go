package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReferralRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo ReferralRepository
	ctx  context.Context
}

func (suite *ReferralRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewReferralRepo(mock)
	suite.ctx = context.Background()
}

func (suite *ReferralRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestReferralRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ReferralRepoTestSuite))
}

func (suite *ReferralRepoTestSuite) TestGetActiveByCode_UppercasesLookup() {
	codeID := uuid.New()
	now := time.Now()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM referral_codes`).
		WithArgs("OMEGA2025").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "code", "doctor_name", "discount_percent", "usage_count", "is_active", "created_at", "updated_at",
		}).AddRow(codeID, "OMEGA2025", "Dr. Omega", 15, 42, true, now, now))

	rc, err := suite.repo.GetActiveByCode(suite.ctx, "  omega2025 ")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "OMEGA2025", rc.Code)
	assert.Equal(suite.T(), 15, rc.DiscountPercent)
}

func (suite *ReferralRepoTestSuite) TestApply_IncrementsAndReturnsApplication() {
	codeID := uuid.New()
	suite.mock.ExpectQuery(`(?s)UPDATE referral_codes.+RETURNING`).
		WithArgs("OMEGA2025").
		WillReturnRows(pgxmock.NewRows([]string{"id", "code", "discount_percent"}).
			AddRow(codeID, "OMEGA2025", 15))

	app, err := suite.repo.Apply(suite.ctx, "omega2025")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), codeID, app.CodeID)
	assert.Equal(suite.T(), 15, app.DiscountPercent)
}

func (suite *ReferralRepoTestSuite) TestApply_UnknownCodeIsNotAnError() {
	suite.mock.ExpectQuery(`(?s)UPDATE referral_codes.+RETURNING`).
		WithArgs("BADCODE").
		WillReturnError(pgx.ErrNoRows)

	app, err := suite.repo.Apply(suite.ctx, "badcode")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), app)
}
