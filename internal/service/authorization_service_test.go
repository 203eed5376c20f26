package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/service"
)

// MockAuthorizationCache is a mock implementation of port.AuthorizationCache
type MockAuthorizationCache struct {
	mock.Mock
}

func (m *MockAuthorizationCache) GetDecision(ctx context.Context, userID int64, resource, action string) (allowed, found bool, err error) {
	args := m.Called(ctx, userID, resource, action)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockAuthorizationCache) SetDecision(ctx context.Context, userID int64, resource, action string, allowed bool, ttl time.Duration) error {
	args := m.Called(ctx, userID, resource, action, allowed, ttl)
	return args.Error(0)
}

func (m *MockAuthorizationCache) InvalidateUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthorizationCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newCachedAuthz(t testing.TB, cache *MockAuthorizationCache) *service.AuthorizationService {
	t.Helper()
	authz, err := service.NewAuthorizationService(openTestDB(t), cache, "", logger.NewNop())
	require.NoError(t, err)
	return authz
}

// ==================== Default policies ====================

func TestAuthorizationService_DefaultPolicies(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	admin := e.seedUser(t, "root@tracker.test", domain.RoleAdmin, domain.StateActive)
	operator := e.seedUser(t, "op@tracker.test", domain.RoleOperator, domain.StateActive)

	tests := []struct {
		name     string
		userID   int64
		resource string
		action   string
		want     bool
	}{
		{"admin manages accounts", admin.ID, domain.PermAccounts, domain.ActManage, true},
		{"admin manages audits", admin.ID, domain.PermAudits, domain.ActManage, true},
		{"admin manages standards", admin.ID, domain.PermStandards, domain.ActManage, true},
		{"admin does not execute audits", admin.ID, domain.PermAudits, domain.ActExecute, false},
		{"operator executes audits", operator.ID, domain.PermAudits, domain.ActExecute, true},
		{"operator reads standards", operator.ID, domain.PermStandards, domain.ActRead, true},
		{"operator cannot manage accounts", operator.ID, domain.PermAccounts, domain.ActManage, false},
		{"operator cannot manage standards", operator.ID, domain.PermStandards, domain.ActManage, false},
		{"unknown user is denied", 9999, domain.PermAudits, domain.ActExecute, false},
		{"empty resource is denied", admin.ID, "", domain.ActManage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := e.authz.CheckAccess(ctx, tt.userID, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

// ==================== CheckAccess Tests ====================

func TestAuthorizationService_CheckAccess(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockAuthorizationCache)
		wantAllow bool
	}{
		{
			name: "cache hit - allowed without a role",
			setupMock: func(m *MockAuthorizationCache) {
				m.On("GetDecision", mock.Anything, int64(1), domain.PermAudits, domain.ActManage).Return(true, true, nil)
			},
			wantAllow: true,
		},
		{
			name: "cache hit - denied",
			setupMock: func(m *MockAuthorizationCache) {
				m.On("GetDecision", mock.Anything, int64(1), domain.PermAudits, domain.ActManage).Return(false, true, nil)
			},
			wantAllow: false,
		},
		{
			name: "cache miss - falls through to enforcer",
			setupMock: func(m *MockAuthorizationCache) {
				m.On("GetDecision", mock.Anything, int64(1), domain.PermAudits, domain.ActManage).Return(false, false, nil)
				m.On("SetDecision", mock.Anything, int64(1), domain.PermAudits, domain.ActManage, false, mock.Anything).Return(nil).Maybe()
			},
			wantAllow: false,
		},
		{
			name: "cache error - continues to enforcer",
			setupMock: func(m *MockAuthorizationCache) {
				m.On("GetDecision", mock.Anything, int64(1), domain.PermAudits, domain.ActManage).Return(false, false, errors.New("redis error"))
				m.On("SetDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
			},
			wantAllow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCache := new(MockAuthorizationCache)
			tt.setupMock(mockCache)
			authz := newCachedAuthz(t, mockCache)

			allowed, err := authz.CheckAccess(context.Background(), 1, domain.PermAudits, domain.ActManage)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllow, allowed)

			mockCache.AssertCalled(t, "GetDecision", mock.Anything, int64(1), domain.PermAudits, domain.ActManage)
		})
	}
}

func TestAuthorizationService_CheckAccess_MissIsCached(t *testing.T) {
	mockCache := new(MockAuthorizationCache)
	mockCache.On("InvalidateAll", mock.Anything).Return(nil)
	mockCache.On("InvalidateUser", mock.Anything, int64(3)).Return(nil)
	mockCache.On("GetDecision", mock.Anything, int64(3), domain.PermAudits, domain.ActExecute).Return(false, false, nil)
	stored := make(chan bool, 1)
	mockCache.On("SetDecision", mock.Anything, int64(3), domain.PermAudits, domain.ActExecute, true, 5*time.Minute).
		Run(func(args mock.Arguments) { stored <- args.Bool(4) }).
		Return(nil)

	authz := newCachedAuthz(t, mockCache)
	ctx := context.Background()
	_, err := authz.EnsurePolicies(ctx, domain.DefaultPolicies)
	require.NoError(t, err)
	require.NoError(t, authz.AddRoleToUser(ctx, 3, domain.RoleOperator))

	allowed, err := authz.CheckAccess(ctx, 3, domain.PermAudits, domain.ActExecute)
	require.NoError(t, err)
	assert.True(t, allowed)

	select {
	case v := <-stored:
		assert.True(t, v)
	case <-time.After(2 * time.Second):
		t.Fatal("decision was not cached")
	}
}

// ==================== Role management ====================

func TestAuthorizationService_RoleLifecycle(t *testing.T) {
	mockCache := new(MockAuthorizationCache)
	mockCache.On("InvalidateAll", mock.Anything).Return(nil)
	mockCache.On("InvalidateUser", mock.Anything, int64(42)).Return(nil)
	mockCache.On("GetDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, false, nil)
	mockCache.On("SetDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	authz := newCachedAuthz(t, mockCache)
	ctx := context.Background()
	_, err := authz.EnsurePolicies(ctx, domain.DefaultPolicies)
	require.NoError(t, err)

	require.NoError(t, authz.AddRoleToUser(ctx, 42, domain.RoleOperator))
	roles, err := authz.GetUserRoles(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleOperator}, roles)

	require.NoError(t, authz.AddRoleToUser(ctx, 42, domain.RoleAdmin))
	require.NoError(t, authz.RemoveRoleFromUser(ctx, 42, domain.RoleOperator))
	roles, err = authz.GetUserRoles(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleAdmin}, roles)

	require.NoError(t, authz.RemoveUser(ctx, 42))
	roles, err = authz.GetUserRoles(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, roles)

	allowed, err := authz.CheckAccess(ctx, 42, domain.PermAccounts, domain.ActManage)
	require.NoError(t, err)
	assert.False(t, allowed)

	// add, add, remove, remove-user
	mockCache.AssertNumberOfCalls(t, "InvalidateUser", 4)
}

func TestAuthorizationService_EnsurePolicies_Idempotent(t *testing.T) {
	mockCache := new(MockAuthorizationCache)
	mockCache.On("InvalidateAll", mock.Anything).Return(nil)

	authz := newCachedAuthz(t, mockCache)
	ctx := context.Background()

	added, err := authz.EnsurePolicies(ctx, domain.DefaultPolicies)
	require.NoError(t, err)
	assert.Equal(t, len(domain.DefaultPolicies), added)

	added, err = authz.EnsurePolicies(ctx, domain.DefaultPolicies)
	require.NoError(t, err)
	assert.Zero(t, added)

	mockCache.AssertNumberOfCalls(t, "InvalidateAll", 1)
}

func TestAuthorizationService_ReloadPolicies(t *testing.T) {
	mockCache := new(MockAuthorizationCache)
	mockCache.On("InvalidateAll", mock.Anything).Return(nil)

	authz := newCachedAuthz(t, mockCache)
	require.NoError(t, authz.ReloadPolicies(context.Background()))
	mockCache.AssertCalled(t, "InvalidateAll", mock.Anything)
}
