package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReportService struct {
	lastReq reportingdomain.ReportRequest
	report  reportingdomain.Report
	err     error
}

func (f *fakeReportService) GetReport(_ context.Context, req reportingdomain.ReportRequest) (reportingdomain.Report, error) {
	f.lastReq = req
	if f.err != nil {
		return reportingdomain.Report{}, f.err
	}
	return f.report, nil
}

func newTestServer(t *testing.T) (*gin.Engine, *fakeReportService, *fakeReportService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	recov := &fakeReportService{report: reportingdomain.Report{BillerCode: "B100"}}
	profit := &fakeReportService{report: reportingdomain.Report{BillerCode: "B100"}}
	NewServer(ServerParams{
		Engine:            engine,
		RecoverabilitySvc: recov,
		ProfitabilitySvc:  profit,
		Log:               zap.NewNop(),
	})
	return engine, recov, profit
}

func doRequest(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGetRecoverabilityReport(t *testing.T) {
	engine, recov, _ := newTestServer(t)

	rec := doRequest(engine, "/api/v1/reports/recoverability?biller_code=B100&fiscal_year=2026&fiscal_month=mar")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "B100", recov.lastReq.BillerCode)
	assert.Equal(t, reportingdomain.ModeFiscal, recov.lastReq.Mode)
	assert.Equal(t, 2026, recov.lastReq.FiscalYear)
	assert.Equal(t, reportingdomain.FiscalMonth("Mar"), recov.lastReq.FiscalMonth)

	var body reportingdomain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "B100", body.BillerCode)
}

func TestGetProfitabilityReport(t *testing.T) {
	engine, _, profit := newTestServer(t)

	rec := doRequest(engine, "/api/v1/reports/profitability?biller_code=B100&fiscal_year=2025")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2025, profit.lastReq.FiscalYear)
	assert.Empty(t, profit.lastReq.FiscalMonth)
}

func TestCustomModeParsing(t *testing.T) {
	engine, recov, _ := newTestServer(t)

	rec := doRequest(engine, "/api/v1/reports/recoverability?biller_code=B100&mode=custom&start=2026-01-10&end=2026-02-20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reportingdomain.ModeCustom, recov.lastReq.Mode)
	assert.Equal(t, 10, recov.lastReq.StartDate.Day())
	assert.Equal(t, 20, recov.lastReq.EndDate.Day())
}

func TestReportRequestValidation(t *testing.T) {
	engine, _, _ := newTestServer(t)

	cases := []struct {
		name   string
		target string
		field  string
	}{
		{"missing biller", "/api/v1/reports/recoverability?fiscal_year=2026", "biller_code"},
		{"missing fiscal year", "/api/v1/reports/recoverability?biller_code=B100", "fiscal_year"},
		{"bad fiscal year", "/api/v1/reports/recoverability?biller_code=B100&fiscal_year=abc", "fiscal_year"},
		{"bad fiscal month", "/api/v1/reports/recoverability?biller_code=B100&fiscal_year=2026&fiscal_month=Sept", "fiscal_month"},
		{"bad mode", "/api/v1/reports/recoverability?biller_code=B100&mode=weekly", "mode"},
		{"bad custom start", "/api/v1/reports/recoverability?biller_code=B100&mode=custom&start=nope&end=2026-02-20", "start"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(engine, tc.target)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "validation_error", body.Error.Type)
			require.Len(t, body.Error.Errors, 1)
			assert.Equal(t, tc.field, body.Error.Errors[0].Field)
		})
	}
}

func TestDomainErrorMapping(t *testing.T) {
	engine, recov, _ := newTestServer(t)
	recov.err = reportingdomain.ErrInvalidDateRange

	rec := doRequest(engine, "/api/v1/reports/recoverability?biller_code=B100&fiscal_year=2026")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Type)
	assert.Equal(t, "invalid_date_range", body.Error.Errors[0].Code)
}

func TestInternalErrorMapping(t *testing.T) {
	engine, recov, _ := newTestServer(t)
	recov.err = assert.AnError

	rec := doRequest(engine, "/api/v1/reports/recoverability?biller_code=B100&fiscal_year=2026")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error.Type)
}
