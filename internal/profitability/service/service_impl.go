package service

import (
	"context"
	"strings"

	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	obsmetrics "github.com/smallbiznis/ledgerline/internal/observability/metrics"
	"github.com/smallbiznis/ledgerline/internal/profitability/domain"
	referencedomain "github.com/smallbiznis/ledgerline/internal/reference/domain"
	"github.com/smallbiznis/ledgerline/internal/reportcache"
	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/smallbiznis/ledgerline/internal/reporting/engine"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const reportKind = "profitability"

type Params struct {
	fx.In

	RawSrc       ledgerdomain.RawSource
	ReferenceSvc referencedomain.Service
	Cache        *reportcache.Cache
	Metrics      *obsmetrics.ReportMetrics `optional:"true"`
	Log          *zap.Logger
}

// Service reads the WIP stream through the raw source only. There is no
// precomputed aggregate feed for WIP.
type Service struct {
	rawSrc       ledgerdomain.RawSource
	referenceSvc referencedomain.Service
	cache        *reportcache.Cache
	metrics      *obsmetrics.ReportMetrics
	log          *zap.Logger
}

func NewService(p Params) domain.Service {
	return &Service{
		rawSrc:       p.RawSrc,
		referenceSvc: p.ReferenceSvc,
		cache:        p.Cache,
		metrics:      p.Metrics,
		log:          p.Log.Named("profitability.service"),
	}
}

func (s *Service) GetReport(ctx context.Context, req reportingdomain.ReportRequest) (reportingdomain.Report, error) {
	req.BillerCode = strings.TrimSpace(req.BillerCode)
	if req.BillerCode == "" {
		return reportingdomain.Report{}, ledgerdomain.ErrInvalidBiller
	}

	period, err := req.Resolve()
	if err != nil {
		return reportingdomain.Report{}, err
	}

	key := reportcache.Key(reportKind, req.BillerCode, period.CacheKeyPart())
	if report, ok := s.cache.Get(ctx, key); ok {
		s.metrics.IncCacheHit(reportKind)
		return report, nil
	}
	s.metrics.IncCacheMiss(reportKind)

	report, err := s.build(ctx, req, period)
	if err != nil {
		return reportingdomain.Report{}, err
	}
	s.cache.Set(ctx, key, period, report)
	return report, nil
}

func (s *Service) build(ctx context.Context, req reportingdomain.ReportRequest, period reportingdomain.Period) (reportingdomain.Report, error) {
	var (
		clients     map[string]referencedomain.Client
		lines       map[string]referencedomain.ServiceLine
		masterLines map[string]string
		txns        []ledgerdomain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.referenceSvc.ListClients(gctx, req.BillerCode)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = s.referenceSvc.ListServiceLines(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		masterLines, err = s.referenceSvc.ListMasterServiceLines(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txns, err = s.rawSrc.FetchWIPTransactions(gctx, req.BillerCode, period.AsOf)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("report build failed",
			zap.String("biller_code", req.BillerCode),
			zap.Error(err),
		)
		return reportingdomain.Report{}, err
	}

	ledgers := engine.AggregateTransactions(txns, period.WindowStart, period.WindowEnd)
	entries := make([]reportingdomain.ClientEntry, 0, len(ledgers))
	for _, ledger := range ledgers {
		excluded := engine.DetectOffsets(ledger.Invoices)
		aging := engine.ClassifyAging(ledger, excluded, period.AsOf)

		entry := reportingdomain.ClientEntry{
			ClientID:                  ledger.ClientID,
			TotalBalance:              ledger.CumulativeBalance,
			Aging:                     aging.Buckets,
			CurrentPeriodReceipts:     ledger.CurrentPeriodReceipts,
			PriorMonthBalance:         ledger.PriorPeriodBalance,
			InvoiceCount:              aging.InvoiceCount,
			AvgPaymentDaysOutstanding: aging.AvgPaymentDaysOutstanding,
		}
		if period.IncludeMonthly {
			entry.MonthlyReceipts = engine.MonthlyRollforward(ledger, period.FiscalYear)
		}
		decorate(&entry, clients, lines, masterLines)
		entries = append(entries, entry)
	}

	included, totalAging, comparison := engine.Assemble(entries)

	report := reportingdomain.Report{
		Clients:            included,
		TotalAging:         totalAging,
		ReceiptsComparison: comparison,
		BillerCode:         req.BillerCode,
	}
	switch req.Mode {
	case reportingdomain.ModeFiscal:
		fy := req.FiscalYear
		report.FiscalYear = &fy
		if req.FiscalMonth != "" {
			month := req.FiscalMonth
			report.FiscalMonth = &month
		}
	case reportingdomain.ModeCustom:
		report.DateRange = &reportingdomain.DateRange{
			Start: period.WindowStart,
			End:   period.WindowEnd,
		}
	}
	return report, nil
}

func decorate(
	entry *reportingdomain.ClientEntry,
	clients map[string]referencedomain.Client,
	lines map[string]referencedomain.ServiceLine,
	masterLines map[string]string,
) {
	client, ok := clients[entry.ClientID]
	if !ok {
		entry.ClientCode = entry.ClientID
		return
	}

	entry.ClientCode = client.ClientCode
	entry.GroupCode = client.GroupCode
	entry.GroupDesc = client.GroupDesc
	entry.ServiceLineCode = client.ServiceLineCode

	line, ok := lines[client.ServiceLineCode]
	if !ok {
		return
	}
	entry.ServiceLineName = line.Description
	if entry.ServiceLineName == "" {
		entry.ServiceLineName = masterLines[line.MasterCode]
	}
}
