package port

import (
	"context"
	"io"
	"time"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
)

// Message is a plain-text mail to a single recipient.
// Message — текстовое письмо одному получателю.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers mail.
// Notifier доставляет письма.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// ObjectStorage keeps binary objects such as result images and avatars.
// ObjectStorage хранит бинарные объекты: изображения результатов и аватары.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, size int64, body io.Reader) error
	Delete(ctx context.Context, key string) error

	// PresignGet returns a temporary download URL.
	// PresignGet возвращает временную ссылку на скачивание.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ContentProvider answers checklist templates for a standard code.
// Unknown and empty codes are answered from a fallback table.
// ContentProvider возвращает шаблоны чек-листа по коду стандарта.
// Неизвестные и пустые коды обслуживаются резервной таблицей.
type ContentProvider interface {
	TemplatesFor(standardCode string) domain.TemplateSet
}

// GoogleIdentity is the verified content of a Google ID token.
// GoogleIdentity — проверенное содержимое Google ID токена.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
}

// GoogleVerifier checks Google ID tokens.
// GoogleVerifier проверяет Google ID токены.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}
