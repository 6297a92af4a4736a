package authz

import (
	"github.com/casbin/casbin/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"idops-controlplane/internal/config"
)

var Module = fx.Module("authz",
	fx.Provide(ProvideOracle),
)

// CasbinOracle adapts a casbin enforcer to the Oracle contract. Requests are
// evaluated as (actor, object, capability) against the configured model.
type CasbinOracle struct {
	enforcer *casbin.Enforcer
	object   string
}

func NewCasbinOracle(modelPath, policyPath, object string) (*CasbinOracle, error) {
	e, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	return &CasbinOracle{enforcer: e, object: object}, nil
}

func (o *CasbinOracle) Allow(actor string, cap Capability) bool {
	ok, err := o.enforcer.Enforce(actor, o.object, string(cap))
	if err != nil {
		zap.L().Error("casbin enforce failed",
			zap.String("actor", actor),
			zap.String("capability", string(cap)),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// ProvideOracle selects the oracle backend from config. Anything other than
// casbin mode degrades to AllowAll so a dev instance works with zero policy.
func ProvideOracle(cfg *config.Config) (Oracle, error) {
	if cfg.Authz.Mode != "casbin" {
		zap.L().Info("[Authz] capability oracle running in allow-all mode")
		return AllowAll{}, nil
	}

	oracle, err := NewCasbinOracle(cfg.Authz.ModelPath, cfg.Authz.PolicyPath, cfg.Authz.Object)
	if err != nil {
		return nil, err
	}

	zap.L().Info("[Authz] casbin capability oracle configured",
		zap.String("model", cfg.Authz.ModelPath),
		zap.String("policy", cfg.Authz.PolicyPath),
	)
	return oracle, nil
}
