package engine

import (
	"sort"

	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Assemble merges per-client entries into the report body. Global totals are
// accumulated over every entry BEFORE the inclusion filter runs, so clients
// hidden for immateriality still count toward the biller's totals. Included
// clients are sorted by (group description, client code) using locale-aware
// comparison.
func Assemble(entries []reportingdomain.ClientEntry) (
	[]reportingdomain.ClientEntry,
	reportingdomain.AgingBuckets,
	reportingdomain.ReceiptsComparison,
) {
	var totalAging reportingdomain.AgingBuckets
	var comparison reportingdomain.ReceiptsComparison

	included := make([]reportingdomain.ClientEntry, 0, len(entries))
	for _, entry := range entries {
		totalAging = totalAging.Add(entry.Aging)
		comparison.CurrentPeriodReceipts = comparison.CurrentPeriodReceipts.Add(entry.CurrentPeriodReceipts)
		comparison.PriorMonthBalance = comparison.PriorMonthBalance.Add(entry.PriorMonthBalance)

		if entry.TotalBalance.Abs().GreaterThan(reportingdomain.Epsilon) || !entry.Aging.IsZero() {
			included = append(included, entry)
		}
	}
	comparison.Variance = comparison.CurrentPeriodReceipts.Sub(comparison.PriorMonthBalance)

	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(included, func(i, j int) bool {
		if cmp := collator.CompareString(included[i].GroupDesc, included[j].GroupDesc); cmp != 0 {
			return cmp < 0
		}
		return collator.CompareString(included[i].ClientCode, included[j].ClientCode) < 0
	})

	return included, totalAging, comparison
}
