package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Epsilon is the materiality floor for the client inclusion filter: balances
// at or below a cent of residual are treated as settled.
var Epsilon = decimal.New(1, -2)

// AgingBuckets holds the five day-outstanding ranges open invoice balances are
// classified into. Buckets can carry negative contributions from negative,
// non-offset invoices so that their sum reconciles with the non-excluded
// invoice balances.
type AgingBuckets struct {
	Current     decimal.Decimal `json:"current"`
	Days31To60  decimal.Decimal `json:"days_31_60"`
	Days61To90  decimal.Decimal `json:"days_61_90"`
	Days91To120 decimal.Decimal `json:"days_91_120"`
	Days120Plus decimal.Decimal `json:"days_120_plus"`
}

func (b AgingBuckets) IsZero() bool {
	return b.Current.IsZero() &&
		b.Days31To60.IsZero() &&
		b.Days61To90.IsZero() &&
		b.Days91To120.IsZero() &&
		b.Days120Plus.IsZero()
}

func (b AgingBuckets) Total() decimal.Decimal {
	return b.Current.
		Add(b.Days31To60).
		Add(b.Days61To90).
		Add(b.Days91To120).
		Add(b.Days120Plus)
}

func (b AgingBuckets) Add(o AgingBuckets) AgingBuckets {
	return AgingBuckets{
		Current:     b.Current.Add(o.Current),
		Days31To60:  b.Days31To60.Add(o.Days31To60),
		Days61To90:  b.Days61To90.Add(o.Days61To90),
		Days91To120: b.Days91To120.Add(o.Days91To120),
		Days120Plus: b.Days120Plus.Add(o.Days120Plus),
	}
}

// MonthlyReceipt is one fiscal month of the balance rollforward.
// closingBalance = openingBalance + billings − receipts;
// variance = receipts − openingBalance;
// recoveryPercent = 100·receipts/openingBalance when openingBalance > 0, else 0.
type MonthlyReceipt struct {
	Month           FiscalMonth     `json:"month"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	Billings        decimal.Decimal `json:"billings"`
	Receipts        decimal.Decimal `json:"receipts"`
	Variance        decimal.Decimal `json:"variance"`
	RecoveryPercent decimal.Decimal `json:"recovery_percent"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
}

type ClientEntry struct {
	ClientID                  string           `json:"client_id"`
	ClientCode                string           `json:"client_code"`
	GroupCode                 string           `json:"group_code"`
	GroupDesc                 string           `json:"group_desc"`
	ServiceLineCode           string           `json:"service_line_code"`
	ServiceLineName           string           `json:"service_line_name"`
	TotalBalance              decimal.Decimal  `json:"total_balance"`
	Aging                     AgingBuckets     `json:"aging"`
	CurrentPeriodReceipts     decimal.Decimal  `json:"current_period_receipts"`
	PriorMonthBalance         decimal.Decimal  `json:"prior_month_balance"`
	InvoiceCount              int              `json:"invoice_count"`
	AvgPaymentDaysOutstanding float64          `json:"avg_payment_days_outstanding"`
	MonthlyReceipts           []MonthlyReceipt `json:"monthly_receipts,omitempty"`
}

type ReceiptsComparison struct {
	CurrentPeriodReceipts decimal.Decimal `json:"current_period_receipts"`
	PriorMonthBalance     decimal.Decimal `json:"prior_month_balance"`
	Variance              decimal.Decimal `json:"variance"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Report is the aggregation root returned by both report services. Clients are
// sorted by (group description, client code); global totals include clients the
// inclusion filter later hides.
type Report struct {
	Clients            []ClientEntry      `json:"clients"`
	TotalAging         AgingBuckets       `json:"total_aging"`
	ReceiptsComparison ReceiptsComparison `json:"receipts_comparison"`
	BillerCode         string             `json:"biller_code"`
	FiscalYear         *int               `json:"fiscal_year,omitempty"`
	FiscalMonth        *FiscalMonth       `json:"fiscal_month,omitempty"`
	DateRange          *DateRange         `json:"date_range,omitempty"`
}
