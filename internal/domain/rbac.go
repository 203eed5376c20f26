package domain

import "strconv"

// RBAC resources guarded by the enforcer.
// Ресурсы RBAC, защищаемые enforcer'ом.
const (
	PermAccounts  = "accounts"
	PermAudits    = "audits"
	PermStandards = "standards"
)

// RBAC actions.
const (
	ActManage  = "manage"
	ActExecute = "execute"
	ActRead    = "read"
)

// Policy is one (role, resource, action) rule.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies grant administrators account, audit and standard management
// and operators audit execution plus standard reads.
// DefaultPolicies дают администраторам управление аккаунтами, аудитами и
// стандартами, а операторам выполнение аудитов и чтение стандартов.
var DefaultPolicies = []Policy{
	{RoleAdmin, PermAccounts, ActManage},
	{RoleAdmin, PermAudits, ActManage},
	{RoleAdmin, PermStandards, ActManage},
	{RoleAdmin, PermStandards, ActRead},
	{RoleOperator, PermAudits, ActExecute},
	{RoleOperator, PermStandards, ActRead},
}

// UserSubject is the casbin subject of a user.
func UserSubject(userID int64) string { return "user:" + strconv.FormatInt(userID, 10) }

// RoleSubject is the casbin subject of a role.
func RoleSubject(role string) string { return "role:" + role }
