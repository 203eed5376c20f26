package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_State(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		user User
		want AccountState
	}{
		{"fresh operator", User{Role: RoleOperator}, StateUnverified},
		{"verified operator", User{Role: RoleOperator, EmailVerified: true}, StateEmailVerified},
		{"approved operator", User{Role: RoleOperator, EmailVerified: true, AdminApproved: true}, StateApprovedPendingCode},
		{"active operator", User{Role: RoleOperator, EmailVerified: true, AdminApproved: true, ActivatedAt: &now, IsActive: true}, StateActive},
		{"disabled operator", User{Role: RoleOperator, EmailVerified: true, AdminApproved: true, ActivatedAt: &now}, StateDisabled},
		{"admin", User{Role: RoleAdmin, EmailVerified: true, AdminApproved: true, IsActive: true}, StateActive},
		{"disabled admin", User{Role: RoleAdmin, EmailVerified: true, AdminApproved: true}, StateDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.State())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "operator@example.com", NormalizeEmail("  Operator@Example.COM "))
}

func TestAudit_Delay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	overdue := Audit{Status: AuditStatusInProgress, DueDate: now.Add(-72 * time.Hour)}
	assert.True(t, overdue.IsDelayed(now))
	assert.Equal(t, 3, overdue.DaysOverdue(now))

	completed := Audit{Status: AuditStatusCompleted, DueDate: now.Add(-72 * time.Hour)}
	assert.False(t, completed.IsDelayed(now))
	assert.Zero(t, completed.DaysOverdue(now))

	upcoming := Audit{Status: AuditStatusPending, DueDate: now.Add(time.Hour)}
	assert.False(t, upcoming.IsDelayed(now))

	view := NewAuditView(overdue, now)
	assert.True(t, view.IsDelayed)
	assert.Equal(t, 3, view.DaysOverdue)
}

func TestAudit_Ownership(t *testing.T) {
	owner := int64(4)
	a := Audit{AssignedToID: &owner}

	assert.True(t, a.IsAssignedTo(4))
	assert.False(t, a.IsAssignedTo(5))
	assert.False(t, (&Audit{}).IsAssignedTo(4))
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		withResult, total int64
		want              int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 66},
		{10, 10, 100},
		{7, 15, 46},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ComputeProgress(tt.withResult, tt.total), "%d/%d", tt.withResult, tt.total)
	}
}

func TestValidResultStatus(t *testing.T) {
	assert.True(t, ValidResultStatus(ResultCompliant))
	assert.True(t, ValidResultStatus(ResultNonCompliant))
	assert.True(t, ValidResultStatus(ResultNotApplicable))
	assert.False(t, ValidResultStatus("ok"))
	assert.False(t, ValidResultStatus(""))
}

func TestAudit_PrimaryStandardCode(t *testing.T) {
	assert.Equal(t, "", (&Audit{}).PrimaryStandardCode())
	a := Audit{Standards: []Standard{{Code: "iso-9001"}, {Code: "iso-14001"}}}
	assert.Equal(t, "iso-9001", a.PrimaryStandardCode())
}
