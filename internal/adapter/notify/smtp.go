// Package notify delivers account mail over SMTP or to the log.
// Пакет notify доставляет письма аккаунтов по SMTP или в лог.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/andrewhigh08/audit-tracker/internal/config"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/circuitbreaker"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender composes RFC 5322 messages and hands them to an SMTP relay.
// SMTPSender формирует письма RFC 5322 и передаёт их SMTP серверу.
type SMTPSender struct {
	addr     string
	auth     smtp.Auth
	from     *mail.Address
	now      func() time.Time
	sendMail sendFunc
}

// NewSMTPSender creates a sender for the configured relay. Credentials are optional.
// NewSMTPSender создаёт отправителя для настроенного сервера. Учётные данные необязательны.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:     auth,
		from:     &mail.Address{Name: cfg.FromName, Address: cfg.From},
		now:      time.Now,
		sendMail: smtp.SendMail,
	}
}

// Send delivers msg. A cancelled context aborts before the relay is contacted.
// Send доставляет msg. Отменённый контекст прерывает отправку до обращения к серверу.
func (s *SMTPSender) Send(ctx context.Context, msg port.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := s.compose(msg)
	if err != nil {
		return apperror.Internal("failed to compose mail", err)
	}
	if err := s.sendMail(s.addr, s.auth, s.from.Address, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp send to %s: %w", s.addr, err)
	}
	return nil
}

func (s *SMTPSender) compose(msg port.Message) ([]byte, error) {
	var h mail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*mail.Address{s.from})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	h.SetSubject(msg.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LogSender writes messages to the log instead of delivering them. Used in development.
// LogSender пишет письма в лог вместо доставки. Используется при разработке.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.WithComponent("mail")}
}

// Send logs msg and never fails.
func (s *LogSender) Send(ctx context.Context, msg port.Message) error {
	s.log.WithContext(ctx).Info("mail not delivered (log driver)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

// GuardedNotifier places a circuit breaker in front of a transport.
// GuardedNotifier ставит circuit breaker перед транспортом.
type GuardedNotifier struct {
	inner port.Notifier
	cb    *circuitbreaker.CircuitBreaker
}

// NewGuardedNotifier wraps inner with cb.
func NewGuardedNotifier(inner port.Notifier, cb *circuitbreaker.CircuitBreaker) *GuardedNotifier {
	return &GuardedNotifier{inner: inner, cb: cb}
}

// Send delivers msg unless the breaker is open.
func (n *GuardedNotifier) Send(ctx context.Context, msg port.Message) error {
	return n.cb.Execute(ctx, func(ctx context.Context) error {
		return n.inner.Send(ctx, msg)
	})
}

// State returns the breaker state.
func (n *GuardedNotifier) State() circuitbreaker.State { return n.cb.State() }

// New selects the transport from config: "smtp" or "log".
// New выбирает транспорт по конфигурации: "smtp" или "log".
func New(cfg config.MailConfig, log *logger.Logger, cb *circuitbreaker.CircuitBreaker) port.Notifier {
	var inner port.Notifier
	switch cfg.Driver {
	case "smtp":
		inner = NewSMTPSender(cfg)
	default:
		inner = NewLogSender(log)
	}
	return NewGuardedNotifier(inner, cb)
}

var (
	_ port.Notifier = (*SMTPSender)(nil)
	_ port.Notifier = (*LogSender)(nil)
	_ port.Notifier = (*GuardedNotifier)(nil)
)
