package engine

// DetectOffsets finds invoices whose net balances cancel against another
// invoice of the same client and marks them all for exclusion from aging.
// When several invoices share the same absolute amount the whole group is
// excluded rather than paired one-to-one; that grouping is deliberate and
// must not be narrowed without confirming intent. The scan is symmetric and
// idempotent: the exclusion set depends only on the invoice map.
func DetectOffsets(invoices map[string]*Invoice) map[string]struct{} {
	byBalance := make(map[string]struct{}, len(invoices))
	for _, invoice := range invoices {
		if invoice.NetBalance.IsZero() {
			continue
		}
		byBalance[invoice.NetBalance.String()] = struct{}{}
	}

	excluded := make(map[string]struct{})
	for id, invoice := range invoices {
		if invoice.NetBalance.IsZero() {
			continue
		}
		if _, ok := byBalance[invoice.NetBalance.Neg().String()]; ok {
			excluded[id] = struct{}{}
		}
	}
	return excluded
}
