package engine

import (
	"testing"
	"time"

	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyRollforwardChains(t *testing.T) {
	ledger := &ClientLedger{
		ClientID: "C1",
		Transactions: []ledgerdomain.Transaction{
			txn("C1", "INV-0", 1000, day(2025, time.June, 1)),   // pre-year opening
			txn("C1", "INV-1", 500, day(2025, time.October, 10)), // Oct billing
			txn("C1", "INV-0", -400, day(2025, time.October, 20)), // Oct receipt
			txn("C1", "INV-1", -200, day(2026, time.January, 15)),
		},
	}

	months := MonthlyRollforward(ledger, 2026)
	require.Len(t, months, 12)

	sep := months[0]
	assert.Equal(t, reportingdomain.FiscalMonth("Sep"), sep.Month)
	assert.True(t, sep.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, sep.ClosingBalance.Equal(decimal.NewFromInt(1000)))

	oct := months[1]
	assert.True(t, oct.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, oct.Billings.Equal(decimal.NewFromInt(500)))
	assert.True(t, oct.Receipts.Equal(decimal.NewFromInt(400)))
	assert.True(t, oct.ClosingBalance.Equal(decimal.NewFromInt(1100)))
	assert.True(t, oct.Variance.Equal(decimal.NewFromInt(-600)))
	assert.True(t, oct.RecoveryPercent.Equal(decimal.NewFromInt(40)))

	// Every month's close must equal the next month's opening.
	for i := 0; i < 11; i++ {
		assert.True(t, months[i].ClosingBalance.Equal(months[i+1].OpeningBalance),
			"month %s close != %s open", months[i].Month, months[i+1].Month)
	}

	assert.True(t, months[11].ClosingBalance.Equal(decimal.NewFromInt(900)))
}

func TestMonthlyRollforwardRecoveryOnlyForPositiveOpening(t *testing.T) {
	ledger := &ClientLedger{
		ClientID: "C1",
		Transactions: []ledgerdomain.Transaction{
			txn("C1", "", -100, day(2025, time.May, 1)), // credit opening
			txn("C1", "", -50, day(2025, time.September, 10)),
		},
	}

	months := MonthlyRollforward(ledger, 2026)

	sep := months[0]
	assert.True(t, sep.OpeningBalance.Equal(decimal.NewFromInt(-100)))
	assert.True(t, sep.Receipts.Equal(decimal.NewFromInt(50)))
	assert.True(t, sep.RecoveryPercent.IsZero())
}

func TestMonthlyRollforwardEmptyLedger(t *testing.T) {
	months := MonthlyRollforward(&ClientLedger{ClientID: "C1"}, 2026)

	require.Len(t, months, 12)
	for _, month := range months {
		assert.True(t, month.OpeningBalance.IsZero())
		assert.True(t, month.ClosingBalance.IsZero())
	}
}
