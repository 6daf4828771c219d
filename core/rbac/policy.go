package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Permission string

const (
	PermReportsCreate     Permission = "reports.create"
	PermReportsViewOwn    Permission = "reports.view_own"
	PermReportsViewAll    Permission = "reports.view_all"
	PermReportsTransition Permission = "reports.transition"
	PermReportsDelete     Permission = "reports.delete"
	PermReportsMedia      Permission = "reports.media"
	PermReportsStats      Permission = "reports.stats"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

const policyModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

// rolePermissions is the closed role->permission table. Roles are fixed;
// there is no runtime role editing in this product.
var rolePermissions = map[string][]Permission{
	RoleCitizen: {
		PermReportsCreate,
		PermReportsViewOwn,
		PermReportsMedia,
	},
	RoleAdmin: {
		PermReportsViewAll,
		PermReportsTransition,
		PermReportsDelete,
		PermReportsStats,
	},
}

type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the in-memory enforcer. Admin inherits every citizen
// permission via a grouping rule.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	for role, perms := range rolePermissions {
		for _, perm := range perms {
			if _, err := e.AddPolicy(role, string(perm)); err != nil {
				return nil, err
			}
		}
	}
	if _, err := e.AddGroupingPolicy(RoleAdmin, RoleCitizen); err != nil {
		return nil, err
	}
	return &Policy{enforcer: e}, nil
}

func (p *Policy) Allowed(role string, perm Permission) bool {
	if p == nil || p.enforcer == nil {
		return false
	}
	ok, err := p.enforcer.Enforce(role, string(perm))
	return err == nil && ok
}

func ValidRole(role string) bool {
	return role == RoleCitizen || role == RoleAdmin
}
