package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Mode string

const (
	ModeFiscal Mode = "fiscal"
	ModeCustom Mode = "custom"
)

var (
	ErrInvalidFiscalMonth = errors.New("invalid_fiscal_month")
	ErrInvalidFiscalYear  = errors.New("invalid_fiscal_year")
	ErrInvalidDateRange   = errors.New("invalid_date_range")
	ErrInvalidMode        = errors.New("invalid_mode")
)

// ReportRequest is the contract the routing layer hands to the engine.
type ReportRequest struct {
	BillerCode  string
	Mode        Mode
	FiscalYear  int
	FiscalMonth FiscalMonth // empty = whole fiscal year
	StartDate   time.Time   // custom mode only
	EndDate     time.Time   // custom mode only
}

// Period is the resolved reporting window. AsOf drives aging; the window
// bounds current-period receipts; the fetch cutoff is always AsOf because
// balances are cumulative from inception.
type Period struct {
	AsOf           time.Time
	WindowStart    time.Time
	WindowEnd      time.Time
	FiscalYear     int
	IncludeMonthly bool
}

// Resolve validates the request and derives the reporting period. Aging is
// computed relative to the resolved as-of date, never the wall-clock date the
// report is generated on.
func (r ReportRequest) Resolve() (Period, error) {
	switch r.Mode {
	case ModeFiscal:
		if r.FiscalYear <= 0 {
			return Period{}, ErrInvalidFiscalYear
		}
		if r.FiscalMonth != "" {
			index := r.FiscalMonth.Index()
			if index == 0 {
				return Period{}, ErrInvalidFiscalMonth
			}
			start, end := FiscalMonthBounds(r.FiscalYear, index)
			return Period{
				AsOf:           end,
				WindowStart:    start,
				WindowEnd:      end,
				FiscalYear:     r.FiscalYear,
				IncludeMonthly: true,
			}, nil
		}
		return Period{
			AsOf:           FiscalYearEnd(r.FiscalYear),
			WindowStart:    FiscalYearStart(r.FiscalYear),
			WindowEnd:      FiscalYearEnd(r.FiscalYear),
			FiscalYear:     r.FiscalYear,
			IncludeMonthly: true,
		}, nil
	case ModeCustom:
		if r.StartDate.IsZero() || r.EndDate.IsZero() || r.EndDate.Before(r.StartDate) {
			return Period{}, ErrInvalidDateRange
		}
		start := MonthStart(r.StartDate)
		end := MonthEnd(r.EndDate)
		return Period{
			AsOf:        end,
			WindowStart: start,
			WindowEnd:   end,
		}, nil
	default:
		return Period{}, ErrInvalidMode
	}
}

// Closed reports whether the period's window has fully elapsed. Closed periods
// are immutable and cacheable for much longer.
func (p Period) Closed(now time.Time) bool {
	return p.WindowEnd.Before(now.UTC())
}

// CacheKeyPart is the period component of the report cache key.
func (p Period) CacheKeyPart() string {
	if p.FiscalYear > 0 {
		return fmt.Sprintf("fy%d|%s..%s",
			p.FiscalYear,
			p.WindowStart.Format("2006-01-02"),
			p.WindowEnd.Format("2006-01-02"),
		)
	}
	return p.WindowStart.Format("2006-01-02") + ".." + p.WindowEnd.Format("2006-01-02")
}

// Service is the shared contract both report services implement.
type Service interface {
	GetReport(ctx context.Context, req ReportRequest) (Report, error)
}

// ParseMode normalizes the mode query value, defaulting to fiscal.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ModeFiscal):
		return ModeFiscal, nil
	case string(ModeCustom):
		return ModeCustom, nil
	default:
		return "", ErrInvalidMode
	}
}
