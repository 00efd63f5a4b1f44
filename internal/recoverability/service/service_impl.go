package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/config"
	ledgerdomain "github.com/smallbiznis/ledgerline/internal/ledger/domain"
	obsmetrics "github.com/smallbiznis/ledgerline/internal/observability/metrics"
	"github.com/smallbiznis/ledgerline/internal/prewarm"
	"github.com/smallbiznis/ledgerline/internal/recoverability/domain"
	referencedomain "github.com/smallbiznis/ledgerline/internal/reference/domain"
	"github.com/smallbiznis/ledgerline/internal/reportcache"
	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/smallbiznis/ledgerline/internal/reporting/engine"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const reportKind = "recoverability"

var hundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	Cfg          config.Config
	Holder       *config.ReportConfigHolder
	RawSrc       ledgerdomain.RawSource
	AggregateSrc ledgerdomain.AggregateSource
	ReferenceSvc referencedomain.Service
	Cache        *reportcache.Cache
	Pool         *prewarm.Pool             `optional:"true"`
	Metrics      *obsmetrics.ReportMetrics `optional:"true"`
	Log          *zap.Logger
}

type Service struct {
	cfg          config.Config
	holder       *config.ReportConfigHolder
	rawSrc       ledgerdomain.RawSource
	aggregateSrc ledgerdomain.AggregateSource
	referenceSvc referencedomain.Service
	cache        *reportcache.Cache
	pool         *prewarm.Pool
	metrics      *obsmetrics.ReportMetrics
	log          *zap.Logger
}

func NewService(p Params) domain.Service {
	return &Service{
		cfg:          p.Cfg,
		holder:       p.Holder,
		rawSrc:       p.RawSrc,
		aggregateSrc: p.AggregateSrc,
		referenceSvc: p.ReferenceSvc,
		cache:        p.Cache,
		pool:         p.Pool,
		metrics:      p.Metrics,
		log:          p.Log.Named("recoverability.service"),
	}
}

// GetReport resolves the requested period, serves from cache when possible and
// otherwise builds the report from the configured ledger source. Serving a
// fiscal-mode report also schedules warm-up of the adjacent prior years.
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
		s.schedulePrewarm(req)
		return report, nil
	}
	s.metrics.IncCacheMiss(reportKind)

	report, err := s.build(ctx, req, period)
	if err != nil {
		return reportingdomain.Report{}, err
	}

	s.cache.Set(ctx, key, period, report)
	s.schedulePrewarm(req)
	return report, nil
}

func (s *Service) build(ctx context.Context, req reportingdomain.ReportRequest, period reportingdomain.Period) (reportingdomain.Report, error) {
	var (
		clients     map[string]referencedomain.Client
		lines       map[string]referencedomain.ServiceLine
		masterLines map[string]string
		entries     []reportingdomain.ClientEntry
	)

	// The ledger fetch and the three descriptive lookups are independent; any
	// failure fails the whole request because a partial report would silently
	// misattribute balances.
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
		if s.cfg.LedgerSourceMode == config.SourceModeAggregate {
			entries, err = s.aggregateEntries(gctx, req.BillerCode, period)
		} else {
			entries, err = s.rawEntries(gctx, req.BillerCode, period)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("report build failed",
			zap.String("biller_code", req.BillerCode),
			zap.Error(err),
		)
		return reportingdomain.Report{}, err
	}

	for i := range entries {
		decorate(&entries[i], clients, lines, masterLines)
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

// rawEntries derives every client figure from the raw transaction stream.
func (s *Service) rawEntries(ctx context.Context, billerCode string, period reportingdomain.Period) ([]reportingdomain.ClientEntry, error) {
	txns, err := s.rawSrc.FetchTransactions(ctx, billerCode, period.AsOf)
	if err != nil {
		return nil, err
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
		entries = append(entries, entry)
	}
	return entries, nil
}

// aggregateEntries maps the precomputed tables into the same entry shape the
// raw path produces.
func (s *Service) aggregateEntries(ctx context.Context, billerCode string, period reportingdomain.Period) ([]reportingdomain.ClientEntry, error) {
	rows, err := s.aggregateSrc.FetchLifeToDateAggregates(ctx, billerCode, period.AsOf, period.AsOf)
	if err != nil {
		return nil, err
	}

	var monthly map[string][]reportingdomain.MonthlyReceipt
	if period.IncludeMonthly {
		monthly, err = s.monthlyByClient(ctx, billerCode, period.FiscalYear)
		if err != nil {
			return nil, err
		}
	}

	entries := make([]reportingdomain.ClientEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, reportingdomain.ClientEntry{
			ClientID:     row.ClientID,
			TotalBalance: row.TotalBalance,
			Aging: reportingdomain.AgingBuckets{
				Current:     row.AgingCurrent,
				Days31To60:  row.Aging31To60,
				Days61To90:  row.Aging61To90,
				Days91To120: row.Aging91To120,
				Days120Plus: row.Aging120Plus,
			},
			CurrentPeriodReceipts:     row.CurrentPeriodReceipts,
			PriorMonthBalance:         row.PriorPeriodBalance,
			InvoiceCount:              row.InvoiceCount,
			AvgPaymentDaysOutstanding: row.AvgDaysOutstanding,
			MonthlyReceipts:           monthly[row.ClientID],
		})
	}
	return entries, nil
}

func (s *Service) monthlyByClient(ctx context.Context, billerCode string, fiscalYear int) (map[string][]reportingdomain.MonthlyReceipt, error) {
	rows, err := s.aggregateSrc.FetchMonthlyAggregates(ctx, billerCode, fiscalYear)
	if err != nil {
		return nil, err
	}

	byClient := make(map[string][]reportingdomain.MonthlyReceipt)
	for _, row := range rows {
		if row.FiscalMonthIndex < 1 || row.FiscalMonthIndex > 12 {
			continue
		}
		months, ok := byClient[row.ClientID]
		if !ok {
			months = emptyMonths()
		}
		receipt := &months[row.FiscalMonthIndex-1]
		receipt.OpeningBalance = row.OpeningBalance
		receipt.Billings = row.Billings
		receipt.Receipts = row.Receipts
		receipt.Variance = row.Receipts.Sub(row.OpeningBalance)
		if row.OpeningBalance.Sign() > 0 {
			receipt.RecoveryPercent = row.Receipts.Mul(hundred).Div(row.OpeningBalance)
		}
		receipt.ClosingBalance = row.OpeningBalance.Add(row.Billings).Sub(row.Receipts)
		byClient[row.ClientID] = months
	}
	return byClient, nil
}

// schedulePrewarm queues full-year reports for the prior fiscal years so the
// periods an analyst reaches for next are already cached. Misses here cost a
// background recomputation, never a failed request.
func (s *Service) schedulePrewarm(req reportingdomain.ReportRequest) {
	if s.pool == nil || req.Mode != reportingdomain.ModeFiscal {
		return
	}

	years := s.holder.Get().PrewarmYears
	for offset := 1; offset <= years; offset++ {
		prior := reportingdomain.ReportRequest{
			BillerCode: req.BillerCode,
			Mode:       reportingdomain.ModeFiscal,
			FiscalYear: req.FiscalYear - offset,
		}
		if prior.FiscalYear <= 0 {
			break
		}
		period, err := prior.Resolve()
		if err != nil {
			continue
		}
		key := reportcache.Key(reportKind, prior.BillerCode, period.CacheKeyPart())
		s.pool.Submit(prewarm.Task{
			Key: key,
			Run: func(ctx context.Context) error {
				if s.cache.Contains(ctx, key) {
					return nil
				}
				report, err := s.build(ctx, prior, period)
				if err != nil {
					return err
				}
				s.cache.Set(ctx, key, period, report)
				return nil
			},
		})
	}
}

// decorate joins the descriptive reference data onto a computed entry. An
// unknown client keeps its ledger identifier as the code so the balance is
// never dropped.
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

func emptyMonths() []reportingdomain.MonthlyReceipt {
	months := make([]reportingdomain.MonthlyReceipt, 12)
	for i := range months {
		months[i].Month = reportingdomain.FiscalMonthAt(i + 1)
	}
	return months
}
