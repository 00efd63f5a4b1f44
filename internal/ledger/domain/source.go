package domain

import (
	"context"
	"errors"
	"time"
)

// RawSource supplies raw signed transactions up to a cut-off date, ordered by
// (client_id, txn_date) ascending.
type RawSource interface {
	FetchTransactions(ctx context.Context, billerCode string, cutoff time.Time) ([]Transaction, error)
	FetchWIPTransactions(ctx context.Context, billerCode string, cutoff time.Time) ([]Transaction, error)
}

// AggregateSource supplies the precomputed per-client life-to-date figures and
// the precomputed fiscal-month rollforward rows. Its internal computation is an
// upstream concern; only this contract matters here.
type AggregateSource interface {
	FetchLifeToDateAggregates(ctx context.Context, billerCode string, cutoff, asOf time.Time) ([]ClientLTDAggregate, error)
	FetchMonthlyAggregates(ctx context.Context, billerCode string, fiscalYear int) ([]ClientMonthlyAggregate, error)
}

var (
	ErrInvalidBiller = errors.New("invalid_biller")
)
