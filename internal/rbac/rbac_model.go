package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type Policy struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// DefaultPolicies grants staff the day-to-day ledger operations; admin
// inherits them and adds reporting, purging and staff management.
func DefaultPolicies() []Policy {
	return []Policy{
		{"staff", "calendar", "read"},
		{"staff", "attendance", "read"},
		{"staff", "attendance", "write"},
		{"staff", "event", "read"},
		{"staff", "event", "write"},
		{"staff", "bulletin", "read"},
		{"staff", "bulletin", "write"},
		{"admin", "attendance", "report"},
		{"admin", "attendance", "purge"},
		{"admin", "event", "purge"},
		{"admin", "bulletin", "purge"},
		{"admin", "staff", "read"},
		{"admin", "staff", "manage"},
		{"admin", "rbac", "read"},
	}
}

// NewEnforcer builds an in-memory enforcer with admin inheriting staff.
func NewEnforcer(policies []Policy) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicy("admin", "staff"); err != nil {
		return nil, err
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return nil, err
		}
	}
	return e, nil
}
