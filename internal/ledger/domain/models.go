package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Transaction is one signed ledger row for a biller's client. Positive amounts
// are billings, negative amounts are receipts. Rows are produced upstream,
// append-only, and never mutated by the reporting engine.
type Transaction struct {
	ID              snowflake.ID    `gorm:"primaryKey"`
	BillerCode      string          `gorm:"type:text;not null;index:ix_ledger_txn_biller_client_date,priority:1"`
	ClientID        string          `gorm:"type:text;not null;index:ix_ledger_txn_biller_client_date,priority:2"`
	InvoiceID       *string         `gorm:"type:text"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TxnDate         time.Time       `gorm:"not null;index:ix_ledger_txn_biller_client_date,priority:3"`
	ServiceLineCode string          `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "ledger_transactions" }

// WIPTransaction mirrors Transaction for the work-in-progress ledger: positive
// amounts are time and disbursement postings, negative amounts are billing
// relief.
type WIPTransaction struct {
	ID              snowflake.ID    `gorm:"primaryKey"`
	BillerCode      string          `gorm:"type:text;not null;index:ix_wip_txn_biller_client_date,priority:1"`
	ClientID        string          `gorm:"type:text;not null;index:ix_wip_txn_biller_client_date,priority:2"`
	InvoiceID       *string         `gorm:"type:text"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TxnDate         time.Time       `gorm:"not null;index:ix_wip_txn_biller_client_date,priority:3"`
	ServiceLineCode string          `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (WIPTransaction) TableName() string { return "wip_transactions" }

// Ledger converts a WIP row into the shared transaction shape the engine consumes.
func (t WIPTransaction) Ledger() Transaction {
	return Transaction{
		ID:              t.ID,
		BillerCode:      t.BillerCode,
		ClientID:        t.ClientID,
		InvoiceID:       t.InvoiceID,
		Amount:          t.Amount,
		TxnDate:         t.TxnDate,
		ServiceLineCode: t.ServiceLineCode,
		CreatedAt:       t.CreatedAt,
	}
}

// ClientLTDAggregate is one row of the precomputed life-to-date aggregate: the
// upstream pipeline has already derived the aging figures as of AsOfDate.
type ClientLTDAggregate struct {
	ID                    snowflake.ID    `gorm:"primaryKey"`
	BillerCode            string          `gorm:"type:text;not null;index:ix_ltd_agg_biller_asof,priority:1"`
	ClientID              string          `gorm:"type:text;not null"`
	AsOfDate              time.Time       `gorm:"not null;index:ix_ltd_agg_biller_asof,priority:2"`
	TotalBalance          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	AgingCurrent          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Aging31To60           decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Aging61To90           decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Aging91To120          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Aging120Plus          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	InvoiceCount          int             `gorm:"not null"`
	AvgDaysOutstanding    float64         `gorm:"not null"`
	CurrentPeriodReceipts decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	PriorPeriodBalance    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// TableName sets the database table name.
func (ClientLTDAggregate) TableName() string { return "client_ltd_aggregates" }

// ClientMonthlyAggregate is one precomputed fiscal-month rollforward row.
// FiscalMonthIndex is 1..12 counted from September.
type ClientMonthlyAggregate struct {
	ID               snowflake.ID    `gorm:"primaryKey"`
	BillerCode       string          `gorm:"type:text;not null;index:ix_monthly_agg_biller_fy,priority:1"`
	ClientID         string          `gorm:"type:text;not null"`
	FiscalYear       int             `gorm:"not null;index:ix_monthly_agg_biller_fy,priority:2"`
	FiscalMonthIndex int             `gorm:"not null"`
	OpeningBalance   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Billings         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Receipts         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// TableName sets the database table name.
func (ClientMonthlyAggregate) TableName() string { return "client_monthly_aggregates" }
