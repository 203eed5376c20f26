// Package validator provides custom validation tags and the password policy.
// Пакет validator предоставляет кастомные теги валидации и политику паролей.
package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
	standardCodeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,49}$`)
)

// email header injection and script vectors
var dangerousEmailPatterns = []string{"<script", "javascript:", "data:", "\n", "\r", "%0a", "%0d"}

// CustomValidator wraps the standard validator with custom validations.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a validator with every custom tag registered.
// New создаёт валидатор со всеми кастомными тегами.
func New() (*CustomValidator, error) {
	v := validator.New()
	if err := Register(v); err != nil {
		return nil, err
	}
	return &CustomValidator{validate: v}, nil
}

// Validate validates a struct using the registered validations.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// Register adds the custom tags (safeemail, nohtml, standardcode) to v.
// Register добавляет кастомные теги (safeemail, nohtml, standardcode) в v.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"safeemail":    validateSafeEmail,
		"nohtml":       validateNoHTML,
		"standardcode": validateStandardCode,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGin registers the custom tags on gin's binding engine so that
// `binding:"safeemail"` works in request structs.
// RegisterGin регистрирует кастомные теги в движке привязки gin.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

func validateSafeEmail(fl validator.FieldLevel) bool {
	email := fl.Field().String()
	if !emailRegex.MatchString(email) {
		return false
	}

	lower := strings.ToLower(email)
	for _, pattern := range dangerousEmailPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

func validateNoHTML(fl validator.FieldLevel) bool {
	return !htmlTagRegex.MatchString(fl.Field().String())
}

// validateStandardCode accepts keys like "iso-9001".
func validateStandardCode(fl validator.FieldLevel) bool {
	return standardCodeRegex.MatchString(fl.Field().String())
}

// ValidationErrors represents a map of field names to error messages.
type ValidationErrors map[string]string

// FormatValidationErrors converts validator.ValidationErrors to a user-friendly format.
// FormatValidationErrors преобразует validator.ValidationErrors в удобный для пользователя формат.
func FormatValidationErrors(err error) ValidationErrors {
	result := make(ValidationErrors)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			result[strings.ToLower(e.Field())] = formatErrorMessage(e)
		}
	}
	return result
}

func formatErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email", "safeemail":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + e.Param() + " characters"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	case "nohtml":
		return "HTML tags are not allowed"
	case "standardcode":
		return "Must be lowercase letters, digits and dashes"
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}

// PasswordStrength represents the strength of a password.
// PasswordStrength представляет силу пароля.
type PasswordStrength int

// Password strength levels.
const (
	PasswordWeak PasswordStrength = iota
	PasswordFair
	PasswordGood
	PasswordStrong
)

// String returns a string representation of password strength.
func (ps PasswordStrength) String() string {
	switch ps {
	case PasswordStrong:
		return "strong"
	case PasswordGood:
		return "good"
	case PasswordFair:
		return "fair"
	default:
		return "weak"
	}
}

type charClasses struct {
	upper, lower, digit, special bool
}

func classify(password string) charClasses {
	var c charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			c.special = true
		}
	}
	return c
}

func (c charClasses) count() int {
	n := 0
	for _, ok := range []bool{c.upper, c.lower, c.digit, c.special} {
		if ok {
			n++
		}
	}
	return n
}

// CheckPasswordStrength scores length (8, 12, 16) plus character variety.
// CheckPasswordStrength оценивает длину (8, 12, 16) и разнообразие символов.
func CheckPasswordStrength(password string) PasswordStrength {
	score := classify(password).count()
	for _, threshold := range []int{8, 12, 16} {
		if len([]rune(password)) >= threshold {
			score++
		}
	}

	switch {
	case score >= 6:
		return PasswordStrong
	case score >= 4:
		return PasswordGood
	case score >= 2:
		return PasswordFair
	default:
		return PasswordWeak
	}
}

// PasswordPolicy is the set of rules a new password must satisfy.
// PasswordPolicy — набор правил для нового пароля.
type PasswordPolicy struct {
	MinLength      int
	MaxLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
	DisallowCommon bool
}

// DefaultPasswordPolicy requires 8..128 characters with upper, lower, digit and special.
// DefaultPasswordPolicy требует 8..128 символов с заглавной, строчной, цифрой и спецсимволом.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:      8,
		MaxLength:      128,
		RequireUpper:   true,
		RequireLower:   true,
		RequireDigit:   true,
		RequireSpecial: true,
		DisallowCommon: true,
	}
}

// Check returns every rule the password violates; an empty slice means it passed.
// Check возвращает все нарушенные правила; пустой срез означает успех.
func (p PasswordPolicy) Check(password string) []string {
	problems := []string{}
	length := len([]rune(password))

	if length < p.MinLength {
		problems = append(problems, "Password must be at least "+strconv.Itoa(p.MinLength)+" characters long")
	}
	if p.MaxLength > 0 && length > p.MaxLength {
		problems = append(problems, "Password must be at most "+strconv.Itoa(p.MaxLength)+" characters long")
	}

	c := classify(password)
	if p.RequireUpper && !c.upper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if p.RequireLower && !c.lower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if p.RequireDigit && !c.digit {
		problems = append(problems, "Password must contain at least one digit")
	}
	if p.RequireSpecial && !c.special {
		problems = append(problems, "Password must contain at least one special character")
	}
	if p.DisallowCommon && commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "Password is too common")
	}
	return problems
}

var commonPasswords = map[string]bool{
	"password": true, "password1": true, "password123": true, "password1!": true,
	"12345678": true, "123456789": true, "1234567890": true,
	"qwerty123": true, "qwertyuiop": true, "letmein1": true,
	"admin123": true, "welcome1": true, "changeme": true,
	"passw0rd": true, "p@ssw0rd": true, "p@ssword": true, "p@ssw0rd!": true,
	"iloveyou": true, "trustno1": true, "sunshine": true, "football": true,
}
