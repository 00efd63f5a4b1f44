package domain

import (
	"strings"
	"time"
)

// FiscalMonth is one of the twelve recognized month labels. The fiscal year
// runs September through August and is labeled by its ending calendar year, so
// fiscal 2026 is Sep 2025 through Aug 2026 and "Sep" is month 1.
type FiscalMonth string

var fiscalMonthLabels = [12]FiscalMonth{
	"Sep", "Oct", "Nov", "Dec", "Jan", "Feb",
	"Mar", "Apr", "May", "Jun", "Jul", "Aug",
}

// ParseFiscalMonth resolves a label case-insensitively.
func ParseFiscalMonth(raw string) (FiscalMonth, error) {
	trimmed := strings.TrimSpace(raw)
	for _, label := range fiscalMonthLabels {
		if strings.EqualFold(trimmed, string(label)) {
			return label, nil
		}
	}
	return "", ErrInvalidFiscalMonth
}

// Index returns the 1-based fiscal position (Sep = 1, Aug = 12), or 0 for an
// unrecognized label.
func (m FiscalMonth) Index() int {
	for i, label := range fiscalMonthLabels {
		if label == m {
			return i + 1
		}
	}
	return 0
}

// FiscalMonthAt returns the label for a 1-based fiscal index.
func FiscalMonthAt(index int) FiscalMonth {
	return fiscalMonthLabels[index-1]
}

// FiscalYearStart returns the first instant of the fiscal year (Sep 1 of the
// prior calendar year, UTC).
func FiscalYearStart(fiscalYear int) time.Time {
	return time.Date(fiscalYear-1, time.September, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYearEnd returns the last instant of the fiscal year.
func FiscalYearEnd(fiscalYear int) time.Time {
	return FiscalYearStart(fiscalYear + 1).Add(-time.Nanosecond)
}

// FiscalMonthBounds returns the inclusive [start, end] instants of the given
// 1-based fiscal month.
func FiscalMonthBounds(fiscalYear, index int) (time.Time, time.Time) {
	start := FiscalYearStart(fiscalYear).AddDate(0, index-1, 0)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// MonthStart snaps a date to the first instant of its calendar month.
func MonthStart(value time.Time) time.Time {
	value = value.UTC()
	return time.Date(value.Year(), value.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd snaps a date to the last instant of its calendar month.
func MonthEnd(value time.Time) time.Time {
	return MonthStart(value).AddDate(0, 1, 0).Add(-time.Nanosecond)
}
