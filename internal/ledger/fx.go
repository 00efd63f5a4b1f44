package ledger

import (
	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	"github.com/smallbiznis/ledgerline/internal/ledger/source"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("ledger.source",
	fx.Provide(
		func(db *gorm.DB, log *zap.Logger) ledgerdomain.RawSource {
			return source.NewRawSource(db, log)
		},
		func(db *gorm.DB, log *zap.Logger) ledgerdomain.AggregateSource {
			return source.NewAggregateSource(db, log)
		},
	),
)
