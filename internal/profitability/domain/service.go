package domain

import (
	"context"

	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
)

// Service produces the work-in-progress profitability report: unbilled WIP
// balances aged the same way receivables are, with the fiscal-month
// rollforward of postings against relief.
type Service interface {
	GetReport(ctx context.Context, req reportingdomain.ReportRequest) (reportingdomain.Report, error)
}
