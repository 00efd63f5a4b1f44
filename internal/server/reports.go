package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obsmetrics "github.com/smallbiznis/ledgerline/internal/observability/metrics"
	profitabilitydomain "github.com/smallbiznis/ledgerline/internal/profitability/domain"
	recoverabilitydomain "github.com/smallbiznis/ledgerline/internal/recoverability/domain"
	reportingdomain "github.com/smallbiznis/ledgerline/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	engine            *gin.Engine
	recoverabilitySvc recoverabilitydomain.Service
	profitabilitySvc  profitabilitydomain.Service
	reportMetrics     *obsmetrics.ReportMetrics
	log               *zap.Logger
}

type ServerParams struct {
	fx.In

	Engine            *gin.Engine
	RecoverabilitySvc recoverabilitydomain.Service
	ProfitabilitySvc  profitabilitydomain.Service
	ReportMetrics     *obsmetrics.ReportMetrics `optional:"true"`
	Log               *zap.Logger
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:            p.Engine,
		recoverabilitySvc: p.RecoverabilitySvc,
		profitabilitySvc:  p.ProfitabilitySvc,
		reportMetrics:     p.ReportMetrics,
		log:               p.Log.Named("server"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	reports := api.Group("/reports")
	reports.GET("/recoverability", s.GetRecoverabilityReport)
	reports.GET("/profitability", s.GetProfitabilityReport)
}

func (s *Server) GetRecoverabilityReport(c *gin.Context) {
	if s.recoverabilitySvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	req, err := parseReportRequest(c)
	if err != nil {
		s.reportMetrics.IncRequest("recoverability", http.StatusBadRequest)
		AbortWithError(c, err)
		return
	}

	start := time.Now()
	report, err := s.recoverabilitySvc.GetReport(c.Request.Context(), req)
	if err != nil {
		status, _ := mapError(err)
		s.reportMetrics.IncRequest("recoverability", status)
		AbortWithError(c, err)
		return
	}
	s.reportMetrics.ObserveBuild("recoverability", time.Since(start))
	s.reportMetrics.IncRequest("recoverability", http.StatusOK)

	c.JSON(http.StatusOK, report)
}

func (s *Server) GetProfitabilityReport(c *gin.Context) {
	if s.profitabilitySvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	req, err := parseReportRequest(c)
	if err != nil {
		s.reportMetrics.IncRequest("profitability", http.StatusBadRequest)
		AbortWithError(c, err)
		return
	}

	start := time.Now()
	report, err := s.profitabilitySvc.GetReport(c.Request.Context(), req)
	if err != nil {
		status, _ := mapError(err)
		s.reportMetrics.IncRequest("profitability", status)
		AbortWithError(c, err)
		return
	}
	s.reportMetrics.ObserveBuild("profitability", time.Since(start))
	s.reportMetrics.IncRequest("profitability", http.StatusOK)

	c.JSON(http.StatusOK, report)
}

func parseReportRequest(c *gin.Context) (reportingdomain.ReportRequest, error) {
	billerCode := strings.TrimSpace(c.Query("biller_code"))
	if billerCode == "" {
		return reportingdomain.ReportRequest{}, newValidationError("biller_code", "invalid_biller", "biller_code is required")
	}

	mode, err := reportingdomain.ParseMode(c.Query("mode"))
	if err != nil {
		return reportingdomain.ReportRequest{}, newValidationError("mode", "invalid_mode", "mode must be fiscal or custom")
	}

	req := reportingdomain.ReportRequest{
		BillerCode: billerCode,
		Mode:       mode,
	}

	switch mode {
	case reportingdomain.ModeFiscal:
		yearValue := strings.TrimSpace(c.Query("fiscal_year"))
		if yearValue == "" {
			return reportingdomain.ReportRequest{}, newValidationError("fiscal_year", "invalid_fiscal_year", "fiscal_year is required")
		}
		year, err := strconv.Atoi(yearValue)
		if err != nil || year <= 0 {
			return reportingdomain.ReportRequest{}, newValidationError("fiscal_year", "invalid_fiscal_year", "fiscal_year must be a positive integer")
		}
		req.FiscalYear = year

		if monthValue := strings.TrimSpace(c.Query("fiscal_month")); monthValue != "" {
			month, err := reportingdomain.ParseFiscalMonth(monthValue)
			if err != nil {
				return reportingdomain.ReportRequest{}, newValidationError("fiscal_month", "invalid_fiscal_month", "unrecognized fiscal month")
			}
			req.FiscalMonth = month
		}
	case reportingdomain.ModeCustom:
		start, err := parseDate(c.Query("start"))
		if err != nil {
			return reportingdomain.ReportRequest{}, newValidationError("start", "invalid_date_range", "invalid start date")
		}
		end, err := parseDate(c.Query("end"))
		if err != nil {
			return reportingdomain.ReportRequest{}, newValidationError("end", "invalid_date_range", "invalid end date")
		}
		req.StartDate = start
		req.EndDate = end
	}

	return req, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
