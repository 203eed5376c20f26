package integration

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/andrewhigh08/audit-tracker/internal/adapter/cache/redis"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/content"
	postgresrepo "github.com/andrewhigh08/audit-tracker/internal/adapter/repository/postgres"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
	"github.com/andrewhigh08/audit-tracker/internal/service"
	"github.com/andrewhigh08/audit-tracker/test/fixtures"
)

const adminEmail = "admin@example.com"

// mailbox keeps every message instead of delivering it
type mailbox struct {
	mu   sync.Mutex
	sent []port.Message
}

func (m *mailbox) Send(_ context.Context, msg port.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mailbox) to(email string) []port.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []port.Message
	for _, msg := range m.sent {
		if msg.To == email {
			out = append(out, msg)
		}
	}
	return out
}

// env wires the real repositories, Redis caches and services
type env struct {
	tc       *TestContainers
	mail     *mailbox
	authz    *service.AuthorizationService
	auth     *service.AuthService
	accounts *service.AccountService
	tracker  *service.TrackerService
	admin    domain.Principal
}

func newEnv(t *testing.T, ctx context.Context, tc *TestContainers) *env {
	t.Helper()
	require.NoError(t, tc.CleanupData())

	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	users := postgresrepo.NewUserRepository(tc.DB)
	audits := postgresrepo.NewAuditRepository(tc.DB)
	entries := postgresrepo.NewEntryRepository(tc.DB)
	standards := postgresrepo.NewStandardRepository(tc.DB)
	tx := postgresrepo.NewTransactionManager(tc.DB)

	authz, err := service.NewAuthorizationService(tc.DB, rediscache.NewAuthorizationCache(tc.Redis), "", log)
	require.NoError(t, err)
	activity := service.NewActivityService(postgresrepo.NewActivityLogRepository(tc.DB), log)

	mail := &mailbox{}
	notifications := service.NewNotificationService(mail, "http://localhost:8080", 24*time.Hour, 48*time.Hour, log)

	keys := t.TempDir()
	auth, err := service.NewAuthService(service.AuthDeps{
		Users:          users,
		Tx:             tx,
		Authz:          authz,
		Activity:       activity,
		RefreshCache:   rediscache.NewRefreshTokenCache(tc.Redis),
		TokenCache:     rediscache.NewTokenCache(tc.Redis),
		RateLimitCache: rediscache.NewRateLimitCache(tc.Redis),
	}, service.AuthServiceConfig{
		PrivateKeyPath:   filepath.Join(keys, "private.pem"),
		PublicKeyPath:    filepath.Join(keys, "public.pem"),
		Issuer:           "audit-tracker-test",
		MaxLoginAttempts: 3,
		LockoutDuration:  time.Minute,
		DevMode:          true,
	}, log)
	require.NoError(t, err)

	accounts := service.NewAccountService(service.AccountDeps{
		Users:    users,
		Audits:   audits,
		Tx:       tx,
		Authz:    authz,
		Activity: activity,
		Notify:   notifications,
		Sessions: auth,
		Throttle: rediscache.NewThrottle(tc.Redis),
	}, service.DefaultAccountServiceConfig(), log)

	tracker := service.NewTrackerService(service.TrackerDeps{
		Users:     users,
		Audits:    audits,
		Entries:   entries,
		Standards: standards,
		Tx:        tx,
		Activity:  activity,
		Content:   content.NewCatalog(),
	}, service.DefaultTrackerConfig(), log)

	require.NoError(t, authz.ReloadPolicies(ctx))
	seeder := service.NewSeeder(users, standards, tx, authz, log)
	require.NoError(t, seeder.SeedAll(ctx, service.AdminSeed{Email: adminEmail, Password: fixtures.Password}))

	admin, err := users.FindByEmail(ctx, adminEmail)
	require.NoError(t, err)

	return &env{
		tc:       tc,
		mail:     mail,
		authz:    authz,
		auth:     auth,
		accounts: accounts,
		tracker:  tracker,
		admin:    domain.Principal{UserID: admin.ID, Email: admin.Email, Role: admin.Role},
	}
}

func (e *env) load(t *testing.T, email string) *domain.User {
	t.Helper()
	var user domain.User
	require.NoError(t, e.tc.DB.Where("email = ?", email).First(&user).Error)
	return &user
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, code), "want %s, got %v", code, err)
}

func TestIntegration_AccountLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tc, err := SetupTestContainers(ctx)
	require.NoError(t, err)
	defer tc.Teardown(ctx)

	require.NoError(t, tc.RunMigrations(ctx))
	fx := fixtures.NewUserFixtures()

	t.Run("register verify approve confirm", func(t *testing.T) {
		e := newEnv(t, ctx, tc)
		const email = "operator@example.com"

		registered, err := e.accounts.Register(ctx, fx.RegisterRequest(email))
		require.NoError(t, err)
		assert.Equal(t, domain.StateUnverified, registered.State())
		require.Len(t, e.mail.to(email), 1)

		_, err = e.auth.SignIn(ctx, email, fixtures.Password)
		assertCode(t, err, apperror.CodeEmailNotVerified)

		_, err = e.accounts.Register(ctx, fx.RegisterRequest(email))
		assertCode(t, err, apperror.CodeDuplicateIdentity)

		stored := e.load(t, email)
		require.NotNil(t, stored.EmailVerificationToken)
		assert.Contains(t, e.mail.to(email)[0].Body, *stored.EmailVerificationToken)

		verified, err := e.accounts.VerifyEmail(ctx, *stored.EmailVerificationToken)
		require.NoError(t, err)
		assert.Equal(t, domain.StateEmailVerified, verified.State())

		_, err = e.accounts.VerifyEmail(ctx, *stored.EmailVerificationToken)
		assertCode(t, err, apperror.CodeInvalidToken)

		_, err = e.auth.SignIn(ctx, email, fixtures.Password)
		assertCode(t, err, apperror.CodeWaitingApproval)

		approved, err := e.accounts.ApproveAccount(ctx, registered.ID, e.admin)
		require.NoError(t, err)
		assert.Equal(t, domain.StateApprovedPendingCode, approved.State())

		stored = e.load(t, email)
		require.NotNil(t, stored.ApprovalCode)
		mails := e.mail.to(email)
		assert.Contains(t, mails[len(mails)-1].Body, *stored.ApprovalCode)

		_, err = e.accounts.ConfirmApprovalCode(ctx, email, "not-the-code")
		assertCode(t, err, apperror.CodeCodeMismatch)

		tokens, err := e.accounts.ConfirmApprovalCode(ctx, email, *stored.ApprovalCode)
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)

		claims, err := e.auth.ValidateToken(ctx, tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.UserID)
		assert.Equal(t, domain.RoleOperator, claims.Role)
		assert.Equal(t, domain.StateActive, e.load(t, email).State())

		canExecute, err := e.authz.CheckAccess(ctx, registered.ID, domain.PermAudits, domain.ActExecute)
		require.NoError(t, err)
		assert.True(t, canExecute)
		canManage, err := e.authz.CheckAccess(ctx, registered.ID, domain.PermAccounts, domain.ActManage)
		require.NoError(t, err)
		assert.False(t, canManage)

		session, err := e.auth.SignIn(ctx, email, fixtures.Password)
		require.NoError(t, err)
		refreshed, err := e.auth.RefreshToken(ctx, session.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)

		_, err = e.auth.RefreshToken(ctx, session.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("disable revokes sessions and blocks sign-in", func(t *testing.T) {
		e := newEnv(t, ctx, tc)
		operator := fx.Active("disable@example.com")
		require.NoError(t, tc.DB.Create(operator).Error)

		tokens, err := e.auth.SignIn(ctx, operator.Email, fixtures.Password)
		require.NoError(t, err)

		disabled, err := e.accounts.DisableAccount(ctx, operator.ID, e.admin)
		require.NoError(t, err)
		assert.Equal(t, domain.StateDisabled, disabled.State())

		_, err = e.auth.RefreshToken(ctx, tokens.RefreshToken)
		assert.Error(t, err)
		_, err = e.auth.SignIn(ctx, operator.Email, fixtures.Password)
		assertCode(t, err, apperror.CodeAccountDisabled)

		_, err = e.accounts.DisableAccount(ctx, e.admin.UserID, e.admin)
		assertCode(t, err, apperror.CodePreconditionFailed)

		enabled, err := e.accounts.EnableAccount(ctx, operator.ID, e.admin)
		require.NoError(t, err)
		assert.Equal(t, domain.StateActive, enabled.State())
		_, err = e.auth.SignIn(ctx, operator.Email, fixtures.Password)
		assert.NoError(t, err)
	})

	t.Run("failed sign-ins lock the address", func(t *testing.T) {
		e := newEnv(t, ctx, tc)
		operator := fx.Active("lockout@example.com")
		require.NoError(t, tc.DB.Create(operator).Error)

		for i := 0; i < 3; i++ {
			_, err := e.auth.SignIn(ctx, operator.Email, "wrong-password")
			assertCode(t, err, apperror.CodeInvalidCredentials)
		}
		_, err := e.auth.SignIn(ctx, operator.Email, fixtures.Password)
		assertCode(t, err, apperror.CodeTooManyRequests)
	})

	t.Run("list operators by state", func(t *testing.T) {
		e := newEnv(t, ctx, tc)
		for _, user := range fx.Operators(10) {
			require.NoError(t, tc.DB.Create(user).Error)
		}

		for status, want := range map[string]int64{
			"":              10,
			"unverified":    2,
			"pending":       2,
			"awaiting_code": 2,
			"active":        2,
			"disabled":      2,
		} {
			users, total, err := e.accounts.ListOperators(ctx, domain.OperatorFilter{Status: status, Page: 1, PageSize: 4})
			require.NoError(t, err, status)
			assert.Equal(t, want, total, status)
			assert.LessOrEqual(t, len(users), 4, status)
		}
	})

	t.Run("reject removes the application", func(t *testing.T) {
		e := newEnv(t, ctx, tc)
		operator := fx.EmailVerified("reject@example.com")
		require.NoError(t, tc.DB.Create(operator).Error)

		require.NoError(t, e.accounts.RejectAccount(ctx, operator.ID, e.admin, "incomplete profile"))

		var count int64
		require.NoError(t, tc.DB.Model(&domain.User{}).Where("email = ?", operator.Email).Count(&count).Error)
		assert.Zero(t, count)
		mails := e.mail.to(operator.Email)
		require.Len(t, mails, 1)
		assert.Contains(t, mails[0].Body, "incomplete profile")
	})
}

func TestIntegration_AuditExecution(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tc, err := SetupTestContainers(ctx)
	require.NoError(t, err)
	defer tc.Teardown(ctx)

	require.NoError(t, tc.RunMigrations(ctx))
	fx := fixtures.NewUserFixtures()

	t.Run("assign execute complete", func(t *testing.T) {
		e := newEnv(t, ctx, tc)
		operator := fx.Active("auditor@example.com")
		require.NoError(t, tc.DB.Create(operator).Error)
		caller := domain.Principal{UserID: operator.ID, Email: operator.Email, Role: operator.Role}

		assigned, err := e.tracker.AssignOrCreate(ctx, operator.ID, 2)
		require.NoError(t, err)
		require.Len(t, assigned, 2)

		// Open work is returned instead of handing out more
		again, err := e.tracker.AssignOrCreate(ctx, operator.ID, 5)
		require.NoError(t, err)
		require.Len(t, again, 2)
		assert.ElementsMatch(t, []int64{assigned[0].ID, assigned[1].ID}, []int64{again[0].ID, again[1].ID})

		audit := assigned[0]
		view, err := e.tracker.GetExecutionView(ctx, audit.ID, caller)
		require.NoError(t, err)
		require.NotEmpty(t, view.Entries)
		assert.Equal(t, int64(len(view.Entries)), view.TotalEntries)
		assert.Zero(t, view.EntriesWithResult)

		_, err = e.tracker.CompleteAudit(ctx, audit.ID, caller)
		assertCode(t, err, apperror.CodeIncompletePrerequisite)

		stranger := domain.Principal{UserID: operator.ID + 1000, Role: domain.RoleOperator}
		_, err = e.tracker.GetExecutionView(ctx, audit.ID, stranger)
		assertCode(t, err, apperror.CodeNotFound)

		for i, entry := range view.Entries {
			observed := entry.ReferenceValue
			status := domain.ResultCompliant
			if i%2 == 1 {
				status = domain.ResultNonCompliant
			}
			result, err := e.tracker.SubmitResult(ctx, entry.ID, caller, domain.SubmitResultRequest{
				ObservedValue: &observed,
				Status:        status,
				Comment:       "checked on site",
			})
			require.NoError(t, err)
			assert.Equal(t, status, result.Status)
		}

		completed, err := e.tracker.CompleteAudit(ctx, audit.ID, caller)
		require.NoError(t, err)
		assert.Equal(t, domain.AuditStatusCompleted, completed.Status)
		assert.NotNil(t, completed.CompletedAt)
		assert.Equal(t, 100, completed.Progress)

		_, err = e.tracker.RegenerateEntries(ctx, audit.ID, caller)
		assertCode(t, err, apperror.CodePreconditionFailed)

		dashboard, err := e.tracker.OperatorDashboard(ctx, operator.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), dashboard.Stats.Total)
		assert.Equal(t, int64(1), dashboard.Stats.Completed)
	})

	t.Run("admin created audit is claimed by an operator", func(t *testing.T) {
		e := newEnv(t, ctx, tc)
		operator := fx.Active("claimer@example.com")
		require.NoError(t, tc.DB.Create(operator).Error)

		created, err := e.tracker.CreateAudit(ctx, &domain.CreateAuditRequest{
			Title:   "Quarterly security review",
			Type:    domain.AuditTypeSecurity,
			DueDate: time.Now().AddDate(0, 0, 14),
		}, e.admin)
		require.NoError(t, err)
		assert.Nil(t, created.AssignedToID)

		unassigned, err := e.tracker.ListUnassigned(ctx)
		require.NoError(t, err)
		require.Len(t, unassigned, 1)

		claimed, err := e.tracker.AssignOrCreate(ctx, operator.ID, 1)
		require.NoError(t, err)
		require.Len(t, claimed, 1)
		assert.Equal(t, created.ID, claimed[0].ID)

		unassigned, err = e.tracker.ListUnassigned(ctx)
		require.NoError(t, err)
		assert.Empty(t, unassigned)
	})
}

func TestIntegration_RedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tc, err := SetupTestContainers(ctx)
	require.NoError(t, err)
	defer tc.Teardown(ctx)

	t.Run("authorization cache", func(t *testing.T) {
		cache := rediscache.NewAuthorizationCache(tc.Redis)

		require.NoError(t, cache.SetDecision(ctx, 1, domain.PermAudits, domain.ActExecute, true, 5*time.Minute))

		allowed, found, err := cache.GetDecision(ctx, 1, domain.PermAudits, domain.ActExecute)
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, allowed)

		require.NoError(t, cache.InvalidateUser(ctx, 1))
		_, found, err = cache.GetDecision(ctx, 1, domain.PermAudits, domain.ActExecute)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("counters", func(t *testing.T) {
		counters := rediscache.NewRateLimitCache(tc.Redis)

		for i := 0; i < 5; i++ {
			count, err := counters.Increment(ctx, "signin:192.168.1.1", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, int64(i+1), count)
		}

		require.NoError(t, counters.Reset(ctx, "signin:192.168.1.1"))
		count, err := counters.GetCount(ctx, "signin:192.168.1.1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("throttle", func(t *testing.T) {
		throttle := rediscache.NewThrottle(tc.Redis)

		for i := 0; i < 2; i++ {
			res, err := throttle.Allow(ctx, "resend:operator@example.com", 2, time.Hour)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}
		res, err := throttle.Allow(ctx, "resend:operator@example.com", 2, time.Hour)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Positive(t, res.RetryAfter)
	})
}
