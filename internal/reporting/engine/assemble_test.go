package engine

import (
	"testing"

	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(code, group string, balance float64) reportingdomain.ClientEntry {
	e := reportingdomain.ClientEntry{
		ClientID:     code,
		ClientCode:   code,
		GroupDesc:    group,
		TotalBalance: decimal.NewFromFloat(balance),
	}
	if balance != 0 {
		e.Aging.Current = e.TotalBalance
	}
	return e
}

func TestAssembleTotalsIncludeHiddenClients(t *testing.T) {
	hidden := reportingdomain.ClientEntry{
		ClientCode:            "TINY",
		TotalBalance:          decimal.NewFromFloat(0.005),
		CurrentPeriodReceipts: decimal.NewFromInt(30),
		PriorMonthBalance:     decimal.NewFromInt(10),
	}
	shown := entry("BIG", "Alpha", 900)
	shown.CurrentPeriodReceipts = decimal.NewFromInt(70)
	shown.PriorMonthBalance = decimal.NewFromInt(40)

	included, totalAging, comparison := Assemble([]reportingdomain.ClientEntry{hidden, shown})

	require.Len(t, included, 1)
	assert.Equal(t, "BIG", included[0].ClientCode)

	// Global figures count the hidden client too.
	assert.True(t, totalAging.Total().Equal(decimal.NewFromInt(900)))
	assert.True(t, comparison.CurrentPeriodReceipts.Equal(decimal.NewFromInt(100)))
	assert.True(t, comparison.PriorMonthBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, comparison.Variance.Equal(decimal.NewFromInt(50)))
}

func TestAssembleInclusionAtEpsilon(t *testing.T) {
	atFloor := reportingdomain.ClientEntry{ClientCode: "AT", TotalBalance: decimal.NewFromFloat(0.01)}
	above := reportingdomain.ClientEntry{ClientCode: "ABOVE", TotalBalance: decimal.NewFromFloat(0.02)}
	zeroWithAging := reportingdomain.ClientEntry{ClientCode: "AGED"}
	zeroWithAging.Aging.Days120Plus = decimal.NewFromInt(500)
	zeroWithAging.Aging.Current = decimal.NewFromInt(-500)

	included, _, _ := Assemble([]reportingdomain.ClientEntry{atFloor, above, zeroWithAging})

	codes := make([]string, 0, len(included))
	for _, e := range included {
		codes = append(codes, e.ClientCode)
	}
	// A balance exactly at the floor is hidden; nonzero aging forces inclusion
	// even when the buckets net to zero balance.
	assert.NotContains(t, codes, "AT")
	assert.Contains(t, codes, "ABOVE")
	assert.Contains(t, codes, "AGED")
}

func TestAssembleSortOrder(t *testing.T) {
	included, _, _ := Assemble([]reportingdomain.ClientEntry{
		entry("zeta", "Beta Group", 100),
		entry("ALPHA", "Beta Group", 100),
		entry("mid", "alpha group", 100),
	})

	require.Len(t, included, 3)
	// Group description first (case-insensitive), then client code.
	assert.Equal(t, "mid", included[0].ClientCode)
	assert.Equal(t, "ALPHA", included[1].ClientCode)
	assert.Equal(t, "zeta", included[2].ClientCode)
}

func TestAssembleEmpty(t *testing.T) {
	included, totalAging, comparison := Assemble(nil)

	assert.Empty(t, included)
	assert.True(t, totalAging.IsZero())
	assert.True(t, comparison.Variance.IsZero())
}
