package engine

import (
	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MonthlyRollforward computes the twelve fiscal months of opening balance,
// billings, receipts and the derived figures for one client. The opening
// balance is recomputed per month from the full stream rather than carried
// forward from the previous month's close; month-to-month chaining still holds
// because adjacent months partition the same signed transaction set over
// contiguous, non-overlapping ranges.
func MonthlyRollforward(ledger *ClientLedger, fiscalYear int) []reportingdomain.MonthlyReceipt {
	months := make([]reportingdomain.MonthlyReceipt, 0, 12)

	for index := 1; index <= 12; index++ {
		start, end := reportingdomain.FiscalMonthBounds(fiscalYear, index)

		opening := decimal.Zero
		billings := decimal.Zero
		receipts := decimal.Zero
		for _, txn := range ledger.Transactions {
			switch {
			case txn.TxnDate.Before(start):
				opening = opening.Add(txn.Amount)
			case !txn.TxnDate.After(end):
				if txn.Amount.Sign() > 0 {
					billings = billings.Add(txn.Amount)
				} else if txn.Amount.Sign() < 0 {
					receipts = receipts.Add(txn.Amount.Abs())
				}
			}
		}

		recovery := decimal.Zero
		if opening.Sign() > 0 {
			recovery = receipts.Mul(hundred).Div(opening)
		}

		months = append(months, reportingdomain.MonthlyReceipt{
			Month:           reportingdomain.FiscalMonthAt(index),
			OpeningBalance:  opening,
			Billings:        billings,
			Receipts:        receipts,
			Variance:        receipts.Sub(opening),
			RecoveryPercent: recovery,
			ClosingBalance:  opening.Add(billings).Sub(receipts),
		})
	}

	return months
}
