package fixtures

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
)

// Password is the plain-text password behind every fixture hash.
const Password = "Audit!Tracker42"

// UserFixtures provides users in each account state
type UserFixtures struct {
	hash string
}

// NewUserFixtures creates a new UserFixtures instance
func NewUserFixtures() *UserFixtures {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return &UserFixtures{hash: string(hash)}
}

// Unverified returns an operator that has not confirmed their email
func (f *UserFixtures) Unverified(email string) *domain.User {
	now := time.Now().UTC()
	token := fmt.Sprintf("%064x", now.UnixNano())
	return &domain.User{
		Email:                   email,
		PasswordHash:            f.hash,
		FirstName:               "Test",
		LastName:                "Operator",
		Role:                    domain.RoleOperator,
		AuthProvider:            domain.AuthProviderLocal,
		EmailVerificationToken:  &token,
		EmailVerificationSentAt: &now,
		CreatedAt:               now.Add(-time.Hour),
		UpdatedAt:               now,
	}
}

// EmailVerified returns an operator waiting for administrator review
func (f *UserFixtures) EmailVerified(email string) *domain.User {
	user := f.Unverified(email)
	user.EmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationSentAt = nil
	return user
}

// ApprovedPendingCode returns an approved operator holding the given code
func (f *UserFixtures) ApprovedPendingCode(email, code string) *domain.User {
	user := f.EmailVerified(email)
	now := time.Now().UTC()
	user.AdminApproved = true
	user.ApprovalCode = &code
	user.ApprovalCodeSentAt = &now
	return user
}

// Active returns an operator that can sign in
func (f *UserFixtures) Active(email string) *domain.User {
	user := f.EmailVerified(email)
	now := time.Now().UTC()
	user.AdminApproved = true
	user.IsActive = true
	user.ActivatedAt = &now
	return user
}

// Disabled returns a previously active operator switched off by an administrator
func (f *UserFixtures) Disabled(email string) *domain.User {
	user := f.Active(email)
	user.IsActive = false
	return user
}

// Admin returns an active administrator
func (f *UserFixtures) Admin(email string) *domain.User {
	user := f.Active(email)
	user.Role = domain.RoleAdmin
	user.FirstName = "Admin"
	user.LastName = "User"
	return user
}

// RegisterRequest returns a valid self-registration request
func (f *UserFixtures) RegisterRequest(email string) *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Email:     email,
		Password:  Password,
		Role:      domain.RoleOperator,
		FirstName: "New",
		LastName:  "Operator",
	}
}

// Operators returns count operators cycling through every account state
func (f *UserFixtures) Operators(count int) []*domain.User {
	builders := []func(string) *domain.User{
		f.Unverified,
		f.EmailVerified,
		func(email string) *domain.User { return f.ApprovedPendingCode(email, "123456") },
		f.Active,
		f.Disabled,
	}
	users := make([]*domain.User, count)
	for i := range users {
		users[i] = builders[i%len(builders)](fmt.Sprintf("operator%02d@example.com", i))
		if users[i].EmailVerificationToken != nil {
			token := fmt.Sprintf("%062x%02d", i, i)
			users[i].EmailVerificationToken = &token
		}
	}
	return users
}
