package source

import (
	"context"
	"strings"
	"time"

	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RawSource reads the append-only transaction tables directly.
type RawSource struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRawSource(db *gorm.DB, log *zap.Logger) *RawSource {
	return &RawSource{
		db:  db,
		log: log.Named("ledger.source.raw"),
	}
}

func (s *RawSource) FetchTransactions(ctx context.Context, billerCode string, cutoff time.Time) ([]ledgerdomain.Transaction, error) {
	return s.fetch(ctx, "ledger_transactions", billerCode, cutoff)
}

func (s *RawSource) FetchWIPTransactions(ctx context.Context, billerCode string, cutoff time.Time) ([]ledgerdomain.Transaction, error) {
	return s.fetch(ctx, "wip_transactions", billerCode, cutoff)
}

func (s *RawSource) fetch(ctx context.Context, table, billerCode string, cutoff time.Time) ([]ledgerdomain.Transaction, error) {
	billerCode = strings.TrimSpace(billerCode)
	if billerCode == "" {
		return nil, ledgerdomain.ErrInvalidBiller
	}

	var rows []ledgerdomain.Transaction
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, biller_code, client_id, invoice_id, amount, txn_date, service_line_code, created_at
		 FROM `+table+`
		 WHERE biller_code = ?
		   AND txn_date <= ?
		 ORDER BY client_id ASC, txn_date ASC, id ASC`,
		billerCode,
		cutoff.UTC(),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
