package engine

import (
	"time"

	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/shopspring/decimal"
)

// AgingResult carries the bucketed balances plus the figures derived while
// bucketing: the count of aged invoices and the balance-weighted mean days
// outstanding.
type AgingResult struct {
	Buckets                   reportingdomain.AgingBuckets
	InvoiceCount              int
	AvgPaymentDaysOutstanding float64
}

// ClassifyAging buckets every non-excluded, non-zero invoice balance by days
// outstanding relative to asOf. Negative balances age into buckets too, which
// keeps the bucket sum reconciled with the non-excluded invoice balances,
// a different quantity from the client's cumulative balance.
func ClassifyAging(ledger *ClientLedger, excluded map[string]struct{}, asOf time.Time) AgingResult {
	var result AgingResult
	weightedDays := decimal.Zero
	balanceSum := decimal.Zero

	for id, invoice := range ledger.Invoices {
		if invoice.NetBalance.IsZero() {
			continue
		}
		if _, skip := excluded[id]; skip {
			continue
		}

		days := daysOutstanding(asOf, invoice.InvoiceDate)
		switch {
		case days <= 30:
			result.Buckets.Current = result.Buckets.Current.Add(invoice.NetBalance)
		case days <= 60:
			result.Buckets.Days31To60 = result.Buckets.Days31To60.Add(invoice.NetBalance)
		case days <= 90:
			result.Buckets.Days61To90 = result.Buckets.Days61To90.Add(invoice.NetBalance)
		case days <= 120:
			result.Buckets.Days91To120 = result.Buckets.Days91To120.Add(invoice.NetBalance)
		default:
			result.Buckets.Days120Plus = result.Buckets.Days120Plus.Add(invoice.NetBalance)
		}

		weightedDays = weightedDays.Add(decimal.NewFromInt(int64(days)).Mul(invoice.NetBalance.Abs()))
		balanceSum = balanceSum.Add(invoice.NetBalance)
		result.InvoiceCount++
	}

	if !balanceSum.IsZero() {
		result.AvgPaymentDaysOutstanding, _ = weightedDays.Div(balanceSum).Float64()
	}
	return result
}

// daysOutstanding is max(0, floor((asOf − invoiceDate) in days)). An invoice
// whose group carries no billing row has no invoice date and ages as current.
func daysOutstanding(asOf, invoiceDate time.Time) int {
	if invoiceDate.IsZero() {
		return 0
	}
	days := int(asOf.Sub(invoiceDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
