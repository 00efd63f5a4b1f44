package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func agedInvoice(id string, balance float64, invoiceDate time.Time) *Invoice {
	return &Invoice{InvoiceID: id, NetBalance: decimal.NewFromFloat(balance), InvoiceDate: invoiceDate}
}

func TestClassifyAgingBucketBoundaries(t *testing.T) {
	asOf := day(2026, time.March, 31)
	ledger := &ClientLedger{Invoices: map[string]*Invoice{
		"d30":  agedInvoice("d30", 1, asOf.AddDate(0, 0, -30)),
		"d31":  agedInvoice("d31", 2, asOf.AddDate(0, 0, -31)),
		"d60":  agedInvoice("d60", 4, asOf.AddDate(0, 0, -60)),
		"d61":  agedInvoice("d61", 8, asOf.AddDate(0, 0, -61)),
		"d90":  agedInvoice("d90", 16, asOf.AddDate(0, 0, -90)),
		"d91":  agedInvoice("d91", 32, asOf.AddDate(0, 0, -91)),
		"d120": agedInvoice("d120", 64, asOf.AddDate(0, 0, -120)),
		"d121": agedInvoice("d121", 128, asOf.AddDate(0, 0, -121)),
	}}

	result := ClassifyAging(ledger, nil, asOf)

	assert.True(t, result.Buckets.Current.Equal(decimal.NewFromInt(1)))
	assert.True(t, result.Buckets.Days31To60.Equal(decimal.NewFromInt(6)))
	assert.True(t, result.Buckets.Days61To90.Equal(decimal.NewFromInt(24)))
	assert.True(t, result.Buckets.Days91To120.Equal(decimal.NewFromInt(96)))
	assert.True(t, result.Buckets.Days120Plus.Equal(decimal.NewFromInt(128)))
	assert.Equal(t, 8, result.InvoiceCount)
}

func TestClassifyAgingSkipsExcludedAndZero(t *testing.T) {
	asOf := day(2026, time.March, 31)
	ledger := &ClientLedger{Invoices: map[string]*Invoice{
		"kept":     agedInvoice("kept", 100, asOf.AddDate(0, 0, -10)),
		"offset":   agedInvoice("offset", 500, asOf.AddDate(0, 0, -10)),
		"settled":  agedInvoice("settled", 0, asOf.AddDate(0, 0, -10)),
	}}

	result := ClassifyAging(ledger, map[string]struct{}{"offset": {}}, asOf)

	assert.True(t, result.Buckets.Total().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, result.InvoiceCount)
}

func TestClassifyAgingMissingInvoiceDateAgesCurrent(t *testing.T) {
	asOf := day(2026, time.March, 31)
	ledger := &ClientLedger{Invoices: map[string]*Invoice{
		// Credit-only group: no billing row, so no invoice date.
		"credit": agedInvoice("credit", -40, time.Time{}),
	}}

	result := ClassifyAging(ledger, nil, asOf)

	assert.True(t, result.Buckets.Current.Equal(decimal.NewFromInt(-40)))
	assert.Equal(t, 1, result.InvoiceCount)
}

func TestClassifyAgingFutureDatedClampsToZeroDays(t *testing.T) {
	asOf := day(2026, time.March, 31)
	ledger := &ClientLedger{Invoices: map[string]*Invoice{
		"future": agedInvoice("future", 60, asOf.AddDate(0, 0, 15)),
	}}

	result := ClassifyAging(ledger, nil, asOf)

	assert.True(t, result.Buckets.Current.Equal(decimal.NewFromInt(60)))
}

func TestClassifyAgingWeightedAverageDays(t *testing.T) {
	asOf := day(2026, time.March, 31)
	ledger := &ClientLedger{Invoices: map[string]*Invoice{
		"a": agedInvoice("a", 100, asOf.AddDate(0, 0, -10)),
		"b": agedInvoice("b", 300, asOf.AddDate(0, 0, -50)),
	}}

	result := ClassifyAging(ledger, nil, asOf)

	// (10·100 + 50·300) / 400 = 40
	assert.InDelta(t, 40.0, result.AvgPaymentDaysOutstanding, 0.001)
}
