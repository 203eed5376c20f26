// Package logger provides structured logging functionality based on slog.
// Пакет logger предоставляет функциональность структурированного логирования на базе slog.
//
// Besides the logger itself the package carries request-scoped values
// (request id, user id, trace id, client address and user agent) through
// context.Context so services can log and record them without HTTP types.
// Помимо логгера пакет переносит значения запроса (request id, user id,
// trace id, адрес клиента и user agent) через context.Context, чтобы сервисы
// могли логировать и сохранять их без HTTP типов.
//
//	log := logger.New(logger.Config{Level: "info", Format: "json"})
//	log.WithComponent("tracker_service").Info("audit completed", slog.Int64("audit_id", id))
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

type contextKey string

// Context keys for storing values in context.
// Ключи контекста для хранения значений в контексте.
const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	TraceIDKey   contextKey = "trace_id"
	ClientKey    contextKey = "client"
)

// Client describes the remote side of a request.
// Client описывает удалённую сторону запроса.
type Client struct {
	IP        string
	UserAgent string
}

// Logger wraps slog.Logger with additional functionality.
// Logger оборачивает slog.Logger с дополнительной функциональностью.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration options.
// Config содержит параметры конфигурации логгера.
type Config struct {
	Level      string    // debug, info, warn, error
	Format     string    // json, text
	AddSource  bool      // include file:line
	TimeFormat string    // default RFC3339
	Output     io.Writer // default os.Stdout
}

// DefaultConfig returns the default logger configuration.
// DefaultConfig возвращает конфигурацию логгера по умолчанию.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	}
}

// New creates a new Logger with the given configuration.
// New создаёт новый Logger с заданной конфигурацией.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewNop returns a logger that discards everything. Handy in tests.
// NewNop возвращает логгер, который всё отбрасывает. Удобно в тестах.
func NewNop() *Logger {
	return New(Config{Level: "error", Output: io.Discard})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext returns a logger enriched with request id, user id, trace id and client IP.
// WithContext возвращает логгер с request id, user id, trace id и IP клиента.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	attrs := make([]any, 0, 4)

	if v := GetRequestIDFromContext(ctx); v != "" {
		attrs = append(attrs, slog.String("request_id", v))
	}
	if v := GetUserIDFromContext(ctx); v != 0 {
		attrs = append(attrs, slog.Int64("user_id", v))
	}
	if v, ok := ctx.Value(TraceIDKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String("trace_id", v))
	}
	if c := GetClientFromContext(ctx); c.IP != "" {
		attrs = append(attrs, slog.String("client_ip", c.IP))
	}

	if len(attrs) == 0 {
		return l
	}
	return &Logger{Logger: l.Logger.With(attrs...)}
}

// WithError returns a logger with error information.
// WithError возвращает логгер с информацией об ошибке.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// WithFields returns a logger with additional custom fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return &Logger{Logger: l.Logger.With(attrs...)}
}

// WithComponent returns a logger with a component name field.
// WithComponent возвращает логгер с полем имени компонента.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", component))}
}

// LogRequest logs a finished HTTP request.
// LogRequest логирует завершённый HTTP запрос.
func (l *Logger) LogRequest(method, path string, statusCode int, duration time.Duration, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}
	l.Log(context.Background(), level, "http request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", statusCode),
		slog.Duration("duration", duration),
		slog.String("client_ip", clientIP),
	)
}

// LogAuthAttempt logs a sign-in attempt.
// LogAuthAttempt логирует попытку входа.
func (l *Logger) LogAuthAttempt(email string, success bool, reason string) {
	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}
	l.Log(context.Background(), level, "auth attempt",
		slog.String("email", email),
		slog.Bool("success", success),
		slog.String("reason", reason),
	)
}

// LogAuthzDecision logs an authorization decision.
func (l *Logger) LogAuthzDecision(userID int64, resource, action string, allowed bool) {
	l.Debug("authz decision",
		slog.Int64("user_id", userID),
		slog.String("resource", resource),
		slog.String("action", action),
		slog.Bool("allowed", allowed),
	)
}

// LogTransition logs a state change of an account or an audit.
// LogTransition логирует изменение состояния аккаунта или аудита.
func (l *Logger) LogTransition(action, resourceType string, resourceID int64, from, to string) {
	l.Info("state transition",
		slog.String("action", action),
		slog.String("resource_type", resourceType),
		slog.Int64("resource_id", resourceID),
		slog.String("from", from),
		slog.String("to", to),
	)
}

// Fatal logs a fatal error message and exits the application with code 1.
// Fatal логирует фатальную ошибку и завершает приложение с кодом 1.
func (l *Logger) Fatal(msg string, args ...any) {
	_, file, line, _ := runtime.Caller(1)
	args = append(args, slog.String("caller", file), slog.Int("line", line))
	l.Error(msg, args...)
	os.Exit(1)
}

var defaultLogger = New(DefaultConfig())

// Default returns the default global logger instance.
func Default() *Logger {
	return defaultLogger
}

// SetDefault sets the default global logger instance and slog's default.
// SetDefault устанавливает глобальный логгер и логгер slog по умолчанию.
func SetDefault(l *Logger) {
	defaultLogger = l
	slog.SetDefault(l.Logger)
}

// WithRequestIDContext adds a request ID to the context.
func WithRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserIDContext adds a user ID to the context.
func WithUserIDContext(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithTraceIDContext adds a trace ID to the context.
func WithTraceIDContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithClientContext adds the remote address and user agent to the context.
// WithClientContext добавляет адрес клиента и user agent в контекст.
func WithClientContext(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, ClientKey, Client{IP: ip, UserAgent: userAgent})
}

// GetRequestIDFromContext retrieves the request ID from context.
func GetRequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// GetUserIDFromContext retrieves the user ID from context.
func GetUserIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(UserIDKey).(int64); ok {
		return v
	}
	return 0
}

// GetClientFromContext retrieves the remote side of the request, zero when absent.
// GetClientFromContext извлекает клиента запроса, нулевое значение при отсутствии.
func GetClientFromContext(ctx context.Context) Client {
	if v, ok := ctx.Value(ClientKey).(Client); ok {
		return v
	}
	return Client{}
}
