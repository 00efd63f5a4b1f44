package source

import (
	"context"
	"strings"
	"time"

	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AggregateSource reads the precomputed life-to-date and monthly tables
// maintained by the upstream aggregation pipeline.
type AggregateSource struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAggregateSource(db *gorm.DB, log *zap.Logger) *AggregateSource {
	return &AggregateSource{
		db:  db,
		log: log.Named("ledger.source.aggregate"),
	}
}

func (s *AggregateSource) FetchLifeToDateAggregates(ctx context.Context, billerCode string, cutoff, asOf time.Time) ([]ledgerdomain.ClientLTDAggregate, error) {
	billerCode = strings.TrimSpace(billerCode)
	if billerCode == "" {
		return nil, ledgerdomain.ErrInvalidBiller
	}

	// Aging figures are stored per as-of date. The requested asOf wins over
	// whatever date the report happens to be generated on.
	var rows []ledgerdomain.ClientLTDAggregate
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, biller_code, client_id, as_of_date, total_balance,
		        aging_current, aging31_to60, aging61_to90, aging91_to120, aging120_plus,
		        invoice_count, avg_days_outstanding, current_period_receipts, prior_period_balance
		 FROM client_ltd_aggregates
		 WHERE biller_code = ?
		   AND as_of_date = ?
		 ORDER BY client_id ASC`,
		billerCode,
		asOf.UTC(),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AggregateSource) FetchMonthlyAggregates(ctx context.Context, billerCode string, fiscalYear int) ([]ledgerdomain.ClientMonthlyAggregate, error) {
	billerCode = strings.TrimSpace(billerCode)
	if billerCode == "" {
		return nil, ledgerdomain.ErrInvalidBiller
	}

	var rows []ledgerdomain.ClientMonthlyAggregate
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, biller_code, client_id, fiscal_year, fiscal_month_index,
		        opening_balance, billings, receipts
		 FROM client_monthly_aggregates
		 WHERE biller_code = ?
		   AND fiscal_year = ?
		 ORDER BY client_id ASC, fiscal_month_index ASC`,
		billerCode,
		fiscalYear,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
