package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/service"
)

func strPtr(s string) *string { return &s }

func TestNotificationService_VerificationLink(t *testing.T) {
	notify := service.NewNotificationService(&fakeMailer{}, "https://tracker.test/", time.Hour, 0, logger.NewNop())
	assert.Equal(t, "https://tracker.test/auth/verify-email/abc", notify.VerificationLink("abc"))
}

func TestNotificationService_Mails(t *testing.T) {
	user := &domain.User{
		Email:                  "ivan@tracker.test",
		FirstName:              "Ivan",
		EmailVerificationToken: strPtr("tok-1"),
		ApprovalCode:           strPtr("314159"),
	}

	tests := []struct {
		name        string
		codeTTL     time.Duration
		send        func(*service.NotificationService)
		subject     string
		wantInBody  []string
		wantOutBody []string
	}{
		{
			name:       "verification",
			send:       func(n *service.NotificationService) { n.SendVerification(context.Background(), user) },
			subject:    "verify your email address",
			wantInBody: []string{"Hello Ivan", "https://tracker.test/auth/verify-email/tok-1", "valid for 24 hours"},
		},
		{
			name:       "approval code with expiry",
			codeTTL:    48 * time.Hour,
			send:       func(n *service.NotificationService) { n.SendApprovalCode(context.Background(), user) },
			subject:    "approved",
			wantInBody: []string{"314159", "valid for 48 hours"},
		},
		{
			name:       "approval code without expiry",
			send:       func(n *service.NotificationService) { n.SendApprovalCode(context.Background(), user) },
			subject:    "approved",
			wantInBody: []string{"314159", "valid until it is used"},
		},
		{
			name:        "rejected without reason",
			send:        func(n *service.NotificationService) { n.SendRejected(context.Background(), user, "  ") },
			subject:     "declined",
			wantOutBody: []string{"Reason:"},
		},
		{
			name:       "disabled",
			send:       func(n *service.NotificationService) { n.SendDisabled(context.Background(), user) },
			subject:    "disabled",
			wantInBody: []string{"disabled by an administrator"},
		},
		{
			name:       "deleted",
			send:       func(n *service.NotificationService) { n.SendDeleted(context.Background(), user) },
			subject:    "deleted",
			wantInBody: []string{"released"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			notify := service.NewNotificationService(mailer, "https://tracker.test", 24*time.Hour, tt.codeTTL, logger.NewNop())

			tt.send(notify)

			mails := mailer.to(user.Email)
			require.Len(t, mails, 1)
			assert.Contains(t, mails[0].Subject, "Audit Tracker")
			assert.Contains(t, mails[0].Subject, tt.subject)
			for _, s := range tt.wantInBody {
				assert.Contains(t, mails[0].Body, s)
			}
			for _, s := range tt.wantOutBody {
				assert.NotContains(t, mails[0].Body, s)
			}
		})
	}
}

func TestNotificationService_SkipsWithoutSecret(t *testing.T) {
	mailer := &fakeMailer{}
	notify := service.NewNotificationService(mailer, "https://tracker.test", time.Hour, time.Hour, logger.NewNop())
	user := &domain.User{Email: "nobody@tracker.test"}

	notify.SendVerification(context.Background(), user)
	notify.SendApprovalCode(context.Background(), user)

	assert.Empty(t, mailer.sent)
}

func TestNotificationService_GreetingFallsBackToEmail(t *testing.T) {
	mailer := &fakeMailer{}
	notify := service.NewNotificationService(mailer, "https://tracker.test", time.Hour, time.Hour, logger.NewNop())

	notify.SendEnabled(context.Background(), &domain.User{Email: "anon@tracker.test"})

	mails := mailer.to("anon@tracker.test")
	require.Len(t, mails, 1)
	assert.Contains(t, mails[0].Body, "Hello anon@tracker.test")
}

func TestNotificationService_DeliveryFailureIsSwallowed(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	notify := service.NewNotificationService(mailer, "https://tracker.test", time.Hour, time.Hour, logger.NewNop())

	assert.NotPanics(t, func() {
		notify.SendActivated(context.Background(), &domain.User{Email: "x@tracker.test"})
	})
	assert.Empty(t, mailer.sent)
}

func TestAccountService_Register_SurvivesMailFailure(t *testing.T) {
	e := newEnv(t)
	e.mailer.err = errors.New("smtp down")

	user := registerOperator(t, e, "quiet@tracker.test")
	assert.Equal(t, domain.StateUnverified, e.reload(t, user.ID).State())
}
