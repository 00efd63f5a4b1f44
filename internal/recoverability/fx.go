package recoverability

import (
	"github.com/smallbiznis/ledgerline/internal/recoverability/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recoverability.service",
	fx.Provide(service.NewService),
)
