package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"healthhub/internal/common"
	"healthhub/internal/models"
)

type AccessGuardTestSuite struct {
	suite.Suite
	grants    *MockGrantRepository
	users     *MockAdminUserRepository
	audit     *MockAccessAuditRepository
	directory *MockTenantDirectory
	guard     AccessGuard
	ctx       context.Context
	userID    uuid.UUID
}

func (suite *AccessGuardTestSuite) SetupTest() {
	suite.grants = &MockGrantRepository{}
	suite.users = &MockAdminUserRepository{}
	suite.audit = &MockAccessAuditRepository{}
	suite.directory = &MockTenantDirectory{}
	suite.guard = NewAccessGuard(suite.grants, suite.users, suite.audit, suite.directory, zerolog.Nop())
	suite.ctx = context.Background()
	suite.userID = uuid.New()
	suite.grants.Test(suite.T())
	suite.users.Test(suite.T())
	suite.audit.Test(suite.T())
	suite.directory.Test(suite.T())
}

func (suite *AccessGuardTestSuite) TearDownTest() {
	suite.grants.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
	suite.audit.AssertExpectations(suite.T())
	suite.directory.AssertExpectations(suite.T())
}

func TestAccessGuardTestSuite(t *testing.T) {
	suite.Run(t, new(AccessGuardTestSuite))
}

func (suite *AccessGuardTestSuite) TestAuthorize_GrantedRole() {
	suite.directory.On("ActiveByID", suite.ctx, models.TenantID(5)).
		Return(activeTenant(5, "momguard"), nil)
	suite.grants.On("GetRole", suite.ctx, suite.userID, models.TenantID(5)).
		Return(models.RoleEditor, nil)

	role, err := suite.guard.Authorize(suite.ctx, suite.userID, 5)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleEditor, role)
}

// A valid, unexpired session holder with no grant for the tenant is still
// forbidden.
func (suite *AccessGuardTestSuite) TestAuthorize_NoGrantForbidden() {
	suite.directory.On("ActiveByID", suite.ctx, models.TenantID(6)).
		Return(activeTenant(6, "verifi"), nil)
	suite.grants.On("GetRole", suite.ctx, suite.userID, models.TenantID(6)).
		Return(models.Role(""), pgx.ErrNoRows)
	suite.users.On("GetByID", suite.ctx, suite.userID).
		Return(&models.AdminUser{ID: suite.userID, Role: models.RoleAdmin}, nil)

	role, err := suite.guard.Authorize(suite.ctx, suite.userID, 6)
	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
	assert.Empty(suite.T(), role)
}

func (suite *AccessGuardTestSuite) TestAuthorize_InactiveTenantForbidden() {
	suite.directory.On("ActiveByID", suite.ctx, models.TenantID(9)).
		Return(nil, pgx.ErrNoRows)

	role, err := suite.guard.Authorize(suite.ctx, suite.userID, 9)
	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
	assert.Empty(suite.T(), role)
	suite.grants.AssertNotCalled(suite.T(), "GetRole")
}

func (suite *AccessGuardTestSuite) TestAuthorize_SuperAdminWithoutGrant() {
	suite.directory.On("ActiveByID", suite.ctx, models.TenantID(6)).
		Return(activeTenant(6, "verifi"), nil)
	suite.grants.On("GetRole", suite.ctx, suite.userID, models.TenantID(6)).
		Return(models.Role(""), pgx.ErrNoRows)
	suite.users.On("GetByID", suite.ctx, suite.userID).
		Return(&models.AdminUser{ID: suite.userID, Role: models.RoleSuperAdmin}, nil)
	suite.audit.On("Record", suite.ctx, mock.MatchedBy(func(entry *models.AccessAuditEntry) bool {
		return entry.UserID == suite.userID &&
			entry.TenantID == models.TenantID(6) &&
			entry.Action == models.AuditActionCrossTenantAccess
	})).Return(nil)

	role, err := suite.guard.Authorize(suite.ctx, suite.userID, 6)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleSuperAdmin, role)
}

// An audit write failure is surfaced in the log but never blocks an access
// the guard has already allowed.
func (suite *AccessGuardTestSuite) TestAuthorize_SuperAdminAuditFailureIgnored() {
	suite.directory.On("ActiveByID", suite.ctx, models.TenantID(6)).
		Return(activeTenant(6, "verifi"), nil)
	suite.grants.On("GetRole", suite.ctx, suite.userID, models.TenantID(6)).
		Return(models.Role(""), pgx.ErrNoRows)
	suite.users.On("GetByID", suite.ctx, suite.userID).
		Return(&models.AdminUser{ID: suite.userID, Role: models.RoleSuperAdmin}, nil)
	suite.audit.On("Record", suite.ctx, mock.Anything).Return(assert.AnError)

	role, err := suite.guard.Authorize(suite.ctx, suite.userID, 6)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleSuperAdmin, role)
}
