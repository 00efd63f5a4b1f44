package profitability

import (
	"github.com/smallbiznis/ledgerline/internal/profitability/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profitability.service",
	fx.Provide(service.NewService),
)
