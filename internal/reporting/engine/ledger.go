package engine

import (
	"time"

	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// Invoice is the derived per-invoice view within one report run: the net of
// every transaction sharing the (client, invoice) key.
type Invoice struct {
	InvoiceID        string
	NetBalance       decimal.Decimal
	InvoiceDate      time.Time // earliest billing date; zero when the group has no positive rows
	OriginalAmount   decimal.Decimal
	PaymentsReceived decimal.Decimal
}

// ClientLedger holds everything derived for one client in one run. The
// cumulative balance sums every transaction regardless of invoice grouping or
// offset exclusion.
type ClientLedger struct {
	ClientID              string
	Transactions          []ledgerdomain.Transaction
	Invoices              map[string]*Invoice
	CumulativeBalance     decimal.Decimal
	CurrentPeriodReceipts decimal.Decimal
	PriorPeriodBalance    decimal.Decimal
}

// AggregateTransactions groups the biller's transactions by client and invoice
// identifier. Rows without an invoice identifier still move the balances but
// never participate in invoice-level aging. Malformed rows are not errors: a
// zero-value amount simply contributes nothing.
func AggregateTransactions(txns []ledgerdomain.Transaction, windowStart, windowEnd time.Time) map[string]*ClientLedger {
	ledgers := make(map[string]*ClientLedger)

	for _, txn := range txns {
		ledger, ok := ledgers[txn.ClientID]
		if !ok {
			ledger = &ClientLedger{
				ClientID: txn.ClientID,
				Invoices: make(map[string]*Invoice),
			}
			ledgers[txn.ClientID] = ledger
		}

		ledger.Transactions = append(ledger.Transactions, txn)
		ledger.CumulativeBalance = ledger.CumulativeBalance.Add(txn.Amount)

		inWindow := !txn.TxnDate.Before(windowStart) && !txn.TxnDate.After(windowEnd)
		if inWindow && txn.Amount.Sign() < 0 {
			ledger.CurrentPeriodReceipts = ledger.CurrentPeriodReceipts.Add(txn.Amount.Abs())
		}
		if txn.TxnDate.Before(windowStart) {
			ledger.PriorPeriodBalance = ledger.PriorPeriodBalance.Add(txn.Amount)
		}

		if txn.InvoiceID == nil || *txn.InvoiceID == "" {
			continue
		}

		invoice, ok := ledger.Invoices[*txn.InvoiceID]
		if !ok {
			invoice = &Invoice{InvoiceID: *txn.InvoiceID}
			ledger.Invoices[*txn.InvoiceID] = invoice
		}
		invoice.NetBalance = invoice.NetBalance.Add(txn.Amount)
		if txn.Amount.Sign() > 0 {
			invoice.OriginalAmount = invoice.OriginalAmount.Add(txn.Amount)
			// Payments never move the invoice date.
			if invoice.InvoiceDate.IsZero() || txn.TxnDate.Before(invoice.InvoiceDate) {
				invoice.InvoiceDate = txn.TxnDate
			}
		} else if txn.Amount.Sign() < 0 {
			invoice.PaymentsReceived = invoice.PaymentsReceived.Add(txn.Amount.Abs())
		}
	}

	return ledgers
}
