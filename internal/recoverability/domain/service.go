package domain

import (
	"context"

	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
)

// Service produces the accounts-receivable recoverability report: aged open
// balances, receipts versus the prior period, and the fiscal-month
// rollforward per client.
type Service interface {
	GetReport(ctx context.Context, req reportingdomain.ReportRequest) (reportingdomain.Report, error)
}
