package auth

import (
	"github.com/casbin/casbin/v2"
)

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService loads the role model and the CSV policy file. The policy
// is file-backed; the gateway owns no database of its own.
func NewCasbinService(modelPath, policyPath string) (*CasbinService, error) {
	E, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E}, nil
}
