package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

const productName = "Audit Tracker"

// NotificationService implements port.NotificationService.
// NotificationService реализует интерфейс port.NotificationService.
//
// Delivery is best effort. A failed send is logged and counted and the caller
// never sees it.
// Доставка негарантированная. Ошибка отправки логируется и считается,
// вызывающий её не видит.
type NotificationService struct {
	notifier        port.Notifier
	baseURL         string
	verificationTTL time.Duration
	codeTTL         time.Duration
	logger          *logger.Logger
}

// NewNotificationService creates a new NotificationService instance.
// baseURL prefixes the links placed in the mail.
// NewNotificationService создаёт новый экземпляр NotificationService.
// baseURL является префиксом ссылок в письмах.
func NewNotificationService(notifier port.Notifier, baseURL string, verificationTTL, codeTTL time.Duration, log *logger.Logger) *NotificationService {
	return &NotificationService{
		notifier:        notifier,
		baseURL:         strings.TrimRight(baseURL, "/"),
		verificationTTL: verificationTTL,
		codeTTL:         codeTTL,
		logger:          log.WithComponent("notification_service"),
	}
}

// VerificationLink returns the address a user opens to prove their mailbox.
// VerificationLink возвращает адрес для подтверждения почтового ящика.
func (s *NotificationService) VerificationLink(token string) string {
	return s.baseURL + "/auth/verify-email/" + token
}

// SendVerification mails the verification link.
func (s *NotificationService) SendVerification(ctx context.Context, user *domain.User) {
	if user.EmailVerificationToken == nil {
		return
	}
	body := fmt.Sprintf(`Hello %s,

Thank you for signing up to %s.
Please confirm your email address by opening the following link:

%s

The link is valid for %s.

Once your address is confirmed an administrator will review your registration.
You will receive an activation code when it is approved.

The %s team
`, greetingName(user), productName, s.VerificationLink(*user.EmailVerificationToken), humanDuration(s.verificationTTL), productName)

	s.send(ctx, "verification", user.Email, productName+" - verify your email address", body)
}

// SendApprovalCode mails the activation code issued on approval.
// SendApprovalCode отправляет код активации, выданный при одобрении.
func (s *NotificationService) SendApprovalCode(ctx context.Context, user *domain.User) {
	if user.ApprovalCode == nil {
		return
	}
	validity := "until it is used"
	if s.codeTTL > 0 {
		validity = "for " + humanDuration(s.codeTTL)
	}
	body := fmt.Sprintf(`Hello %s,

Your %s account has been approved by an administrator.

To finish the activation, sign in and enter the following code when asked:

%s

The code is valid %s.

The %s team
`, greetingName(user), productName, *user.ApprovalCode, validity, productName)

	s.send(ctx, "approval_code", user.Email, productName+" - your account has been approved", body)
}

// SendActivated confirms the account is fully active.
func (s *NotificationService) SendActivated(ctx context.Context, user *domain.User) {
	body := fmt.Sprintf(`Hello %s,

Your %s account is now active. You can sign in and use every feature of the platform.

The %s team
`, greetingName(user), productName, productName)

	s.send(ctx, "activated", user.Email, productName+" - your account is active", body)
}

// SendRejected tells the user their registration was declined.
func (s *NotificationService) SendRejected(ctx context.Context, user *domain.User, reason string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour registration on %s has been declined by an administrator.\n", greetingName(user), productName)
	if reason = strings.TrimSpace(reason); reason != "" {
		fmt.Fprintf(&b, "\nReason: %s\n", reason)
	}
	fmt.Fprintf(&b, "\nYour account data has been removed.\n\nThe %s team\n", productName)

	s.send(ctx, "rejected", user.Email, productName+" - registration declined", b.String())
}

// SendDisabled tells the user their account was disabled.
func (s *NotificationService) SendDisabled(ctx context.Context, user *domain.User) {
	body := fmt.Sprintf(`Hello %s,

Your %s account has been disabled by an administrator. Contact your administrator for details.

The %s team
`, greetingName(user), productName, productName)

	s.send(ctx, "disabled", user.Email, productName+" - account disabled", body)
}

// SendEnabled tells the user their account was enabled again.
func (s *NotificationService) SendEnabled(ctx context.Context, user *domain.User) {
	body := fmt.Sprintf(`Hello %s,

Your %s account has been enabled again. You can sign in.

The %s team
`, greetingName(user), productName, productName)

	s.send(ctx, "enabled", user.Email, productName+" - account enabled", body)
}

// SendDeleted tells the user their account was removed.
func (s *NotificationService) SendDeleted(ctx context.Context, user *domain.User) {
	body := fmt.Sprintf(`Hello %s,

Your %s account has been deleted by an administrator. Audits assigned to you were released.

The %s team
`, greetingName(user), productName, productName)

	s.send(ctx, "deleted", user.Email, productName+" - account deleted", body)
}

func (s *NotificationService) send(ctx context.Context, kind, to, subject, body string) {
	err := s.notifier.Send(ctx, port.Message{To: to, Subject: subject, Body: body})
	if err != nil {
		mailDeliveriesTotal.WithLabelValues(kind, "failed").Inc()
		s.logger.WithContext(ctx).Warn("mail delivery failed", "kind", kind, "to", to, "error", err)
		return
	}
	mailDeliveriesTotal.WithLabelValues(kind, "sent").Inc()
	s.logger.WithContext(ctx).Debug("mail delivered", "kind", kind, "to", to)
}

func greetingName(user *domain.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	if name := user.FullName(); name != "" {
		return name
	}
	return user.Email
}

// humanDuration renders whole hours as "24 hours" and anything else with time.Duration.String.
func humanDuration(d time.Duration) string {
	if d > 0 && d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return d.String()
}

var _ port.NotificationService = (*NotificationService)(nil)
