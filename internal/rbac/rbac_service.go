package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

const rbacModel = `
[request_definition]
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

// rolePolicies is the fixed permission table: the role set is closed
// (employee, manager, admin), so the policy lives in code instead of storage.
var rolePolicies = [][3]string{
	{"employee", "attendance", "clock"},
	{"employee", "attendance", "read"},
	{"employee", "breaks", "write"},
	{"employee", "breaks", "read"},
	{"employee", "reports", "read"},
	{"employee", "leaves", "request"},
	{"employee", "leaves", "read"},
	{"employee", "advances", "read"},
	{"employee", "deductions", "read"},

	{"manager", "attendance", "manage"},
	{"manager", "attendance", "import"},
	{"manager", "users", "read"},
	{"manager", "users", "write"},
	{"manager", "reports", "read_all"},
	{"manager", "reports", "export"},
	{"manager", "breaks", "read_all"},
	{"manager", "leaves", "approve"},
	{"manager", "advances", "write"},
	{"manager", "deductions", "write"},
	{"manager", "qr", "issue"},
}

// roleInheritance: manager covers employee, admin covers manager.
var roleInheritance = [][2]string{
	{"manager", "employee"},
	{"admin", "manager"},
}

// NewService builds a casbin enforcer with the static role policy loaded.
func NewService() (Service, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
