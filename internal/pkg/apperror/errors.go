// Package apperror provides structured application error types.
// Пакет apperror предоставляет структурированные типы ошибок приложения.
//
// Every domain failure of the account lifecycle and the audit tracker is an
// *AppError carrying a stable code and the HTTP status it maps to. Storage and
// transport failures are wrapped with Internal or ServiceUnavailable and are
// never confused with the domain kinds.
//
// Каждая доменная ошибка жизненного цикла аккаунта и трекера аудитов — это
// *AppError со стабильным кодом и соответствующим HTTP статусом. Ошибки хранилища
// и транспорта оборачиваются в Internal или ServiceUnavailable.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Generic error codes.
// Общие коды ошибок.
const (
	CodeNotFound           = "NOT_FOUND"           // Resource not found / Ресурс не найден
	CodeValidation         = "VALIDATION_ERROR"    // Validation failed / Ошибка валидации
	CodeUnauthorized       = "UNAUTHORIZED"        // Authentication required / Требуется аутентификация
	CodeForbidden          = "FORBIDDEN"           // Access denied / Доступ запрещён
	CodeInternal           = "INTERNAL_ERROR"      // Internal server error / Внутренняя ошибка сервера
	CodeBadRequest         = "BAD_REQUEST"         // Invalid request / Неверный запрос
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"   // Rate limit exceeded / Превышен лимит запросов
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE" // Service unavailable / Сервис недоступен
)

// Account lifecycle and audit tracker codes.
// Коды жизненного цикла аккаунта и трекера аудитов.
const (
	CodeDuplicateIdentity      = "DUPLICATE_IDENTITY"      // Email already registered / Email уже зарегистрирован
	CodeInvalidCredential      = "INVALID_CREDENTIAL"      // Password rejected by policy / Пароль не прошёл политику
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"     // Wrong email or password / Неверный email или пароль
	CodeInvalidToken           = "INVALID_TOKEN"           // Unknown verification token / Неизвестный токен
	CodeExpiredToken           = "EXPIRED_TOKEN"           // Token or code too old / Токен или код устарел
	CodeCodeMismatch           = "CODE_MISMATCH"           // Approval code differs / Код подтверждения не совпал
	CodePreconditionFailed     = "PRECONDITION_FAILED"     // State gate violated / Нарушено условие состояния
	CodeIncompletePrerequisite = "INCOMPLETE_PREREQUISITE" // Entries without result / Пункты без результата
	CodeEmailNotVerified       = "EMAIL_NOT_VERIFIED"      // Sign-in before email proof / Email не подтверждён
	CodeWaitingApproval        = "WAITING_APPROVAL"        // Sign-in before approval / Ожидает одобрения
	CodeApprovalCodeRequired   = "APPROVAL_CODE_REQUIRED"  // Sign-in before code entry / Требуется код активации
	CodeAccountDisabled        = "ACCOUNT_DISABLED"        // Sign-in while disabled / Аккаунт отключён
)

// AppError represents a structured application error.
// AppError представляет структурированную ошибку приложения.
//
// Fields / Поля:
//   - Code: Machine-readable error code / Машиночитаемый код ошибки
//   - Message: Human-readable error message / Человекочитаемое сообщение
//   - HTTPStatus: Corresponding HTTP status code / Соответствующий HTTP статус-код
//   - Details: Additional error details / Дополнительные детали ошибки
//   - Err: Wrapped underlying error / Обёрнутая исходная ошибка
type AppError struct {
	Code       string                 `json:"code"`              // Error code / Код ошибки
	Message    string                 `json:"message"`           // Error message / Сообщение об ошибке
	HTTPStatus int                    `json:"-"`                 // HTTP status / HTTP статус
	Details    map[string]interface{} `json:"details,omitempty"` // Additional details / Доп. детали
	Err        error                  `json:"-"`                 // Wrapped error / Обёрнутая ошибка
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *AppError) Unwrap() error { return e.Err }

// WithDetails replaces the error details.
// WithDetails заменяет детали ошибки.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithError attaches an underlying cause.
// WithError прикрепляет исходную причину.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates a new AppError with the specified code, message, and HTTP status.
// New создаёт новую AppError с указанным кодом, сообщением и HTTP статусом.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// ==================== Generic constructors ====================

// NotFound creates a not found error for a specific resource.
// NotFound создаёт ошибку "не найдено" для конкретного ресурса.
func NotFound(resource string, id interface{}) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound).
		WithDetails(map[string]interface{}{"resource": resource, "id": id})
}

// ValidationError creates a validation error with details.
// ValidationError создаёт ошибку валидации с деталями.
func ValidationError(message string, details map[string]interface{}) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// Unauthorized creates an authentication error.
// Unauthorized создаёт ошибку аутентификации.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// Forbidden creates the PermissionDenied error.
// Forbidden создаёт ошибку отказа в доступе (PermissionDenied).
func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return New(CodeForbidden, message, http.StatusForbidden)
}

// Internal creates an infrastructure error with an optional wrapped error.
// Internal создаёт инфраструктурную ошибку с опциональной обёрнутой ошибкой.
func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError).WithError(err)
}

// BadRequest creates a bad request error.
// BadRequest создаёт ошибку неверного запроса.
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

// TooManyRequests creates a rate limit exceeded error.
// TooManyRequests создаёт ошибку превышения лимита запросов.
func TooManyRequests(message string, retryAfter int) *AppError {
	return New(CodeTooManyRequests, message, http.StatusTooManyRequests).
		WithDetails(map[string]interface{}{"retry_after_seconds": retryAfter})
}

// ServiceUnavailable creates a service unavailable error.
// ServiceUnavailable создаёт ошибку недоступности сервиса.
func ServiceUnavailable(message string) *AppError {
	return New(CodeServiceUnavailable, message, http.StatusServiceUnavailable)
}

// ==================== Domain constructors ====================

// DuplicateIdentity reports an email that is already registered.
// DuplicateIdentity сообщает, что email уже зарегистрирован.
func DuplicateIdentity(email string) *AppError {
	return New(CodeDuplicateIdentity, "an account with this email already exists", http.StatusConflict).
		WithDetails(map[string]interface{}{"email": email})
}

// InvalidCredential reports a password rejected by the password policy.
// InvalidCredential сообщает, что пароль отклонён политикой паролей.
func InvalidCredential(problems []string) *AppError {
	return New(CodeInvalidCredential, "password does not meet requirements", http.StatusBadRequest).
		WithDetails(map[string]interface{}{"errors": problems})
}

// InvalidCredentials reports a failed sign-in without revealing which half was wrong.
// InvalidCredentials сообщает о неудачном входе, не раскрывая причину.
func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized)
}

// InvalidToken reports an unknown email verification token.
func InvalidToken() *AppError {
	return New(CodeInvalidToken, "verification token is invalid", http.StatusBadRequest)
}

// ExpiredToken reports a token or code whose validity window has passed.
func ExpiredToken(what string) *AppError {
	return New(CodeExpiredToken, what+" has expired", http.StatusBadRequest)
}

// CodeMismatch reports an approval code that differs from the stored one.
func CodeMismatch() *AppError {
	return New(CodeCodeMismatch, "approval code does not match", http.StatusBadRequest)
}

// PreconditionFailed reports an operation attempted from the wrong state.
// PreconditionFailed сообщает об операции из недопустимого состояния.
func PreconditionFailed(message string) *AppError {
	return New(CodePreconditionFailed, message, http.StatusConflict)
}

// IncompletePrerequisite reports an audit completion attempted with missing results.
// IncompletePrerequisite сообщает о попытке завершить аудит без всех результатов.
func IncompletePrerequisite(missing int64) *AppError {
	return New(CodeIncompletePrerequisite, "not every entry has a recorded result", http.StatusUnprocessableEntity).
		WithDetails(map[string]interface{}{"entries_without_result": missing})
}

// SignInBlocked reports a correct password presented for an account that is not active yet.
// The status detail tells the client which step comes next.
//
// SignInBlocked сообщает о верном пароле для ещё не активного аккаунта.
// Деталь status подсказывает клиенту следующий шаг.
func SignInBlocked(code, message, email string) *AppError {
	return New(code, message, http.StatusForbidden).WithDetails(map[string]interface{}{
		"status": signInStatus[code],
		"email":  email,
	})
}

var signInStatus = map[string]string{
	CodeEmailNotVerified:     "email_not_verified",
	CodeWaitingApproval:      "waiting_admin_approval",
	CodeApprovalCodeRequired: "approval_code_required",
	CodeAccountDisabled:      "account_disabled",
}

// ==================== Inspection ====================

// IsAppError checks if an error is an AppError.
// IsAppError проверяет, является ли ошибка AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError converts an error to AppError if possible.
// AsAppError преобразует ошибку в AppError, если это возможно.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
// HasCode проверяет, является ли err ошибкой AppError с данным кодом.
func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// FromError wraps a generic error as an internal AppError.
// FromError оборачивает обычную ошибку как внутреннюю AppError.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal("an unexpected error occurred", err)
}
