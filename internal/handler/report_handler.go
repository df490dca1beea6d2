package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/middleware"
	"github.com/dafibh/fluxo/fluxo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// runwayDaysUnlimited is what clients display when the projection never
// runs out of cash. It never appears in runwayDays itself.
const runwayDaysUnlimited = 999

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		now:           time.Now,
	}
}

// DRETotalsResponse holds the named aggregates of an income statement
type DRETotalsResponse struct {
	GrossRevenue      string `json:"grossRevenue"`
	Deductions        string `json:"deductions"`
	NetRevenue        string `json:"netRevenue"`
	VariableCosts     string `json:"variableCosts"`
	GrossProfit       string `json:"grossProfit"`
	OperatingExpenses string `json:"operatingExpenses"`
	EBITDA            string `json:"ebitda"`
	NetIncome         string `json:"netIncome"`
}

// DREResponse represents a monthly income statement in API responses
type DREResponse struct {
	Month            string             `json:"month"`
	Rows             []domain.ReportRow `json:"rows"`
	Totals           DRETotalsResponse  `json:"totals"`
	TransactionCount int                `json:"transactionCount"`
}

// CashFlowResponse represents a cash-flow projection in API responses
type CashFlowResponse struct {
	StartingBalance   string              `json:"startingBalance"`
	EndingBalance     string              `json:"endingBalance"`
	HorizonDays       int                 `json:"horizonDays"`
	Points            []domain.ChartPoint `json:"points"`
	RunwayDays        *int                `json:"runwayDays"`
	RunwayDaysDisplay int                 `json:"runwayDaysDisplay"`
	Confidence        string              `json:"confidence,omitempty"`
}

// SummaryResponse carries the headline numbers of the overview
type SummaryResponse struct {
	GrossMargin       string `json:"grossMargin"`
	EBITDAMargin      string `json:"ebitdaMargin"`
	NetMargin         string `json:"netMargin"`
	CurrentBalance    string `json:"currentBalance"`
	EndingBalance     string `json:"endingBalance"`
	LowestBalance     string `json:"lowestBalance"`
	LowestBalanceOn   int    `json:"lowestBalanceOn"`
	RunwayDays        *int   `json:"runwayDays"`
	RunwayDaysDisplay int    `json:"runwayDaysDisplay"`
}

// OverviewResponse represents the combined report in API responses
type OverviewResponse struct {
	Month    string           `json:"month"`
	IsClosed bool             `json:"isClosed"`
	DRE      DREResponse      `json:"dre"`
	CashFlow CashFlowResponse `json:"cashFlow"`
	Summary  SummaryResponse  `json:"summary"`
	Goals    []GoalResponse   `json:"goals"`
}

// GetDRE handles GET /api/v1/reports/dre?month=YYYY-MM
func (h *ReportHandler) GetDRE(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, err := h.parseMonth(c)
	if err != nil {
		return respondFieldError(c, err)
	}

	report, err := h.reportService.GetDRE(c.Request().Context(), userID, month)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to build income statement")
	}

	return c.JSON(http.StatusOK, toDREResponse(report))
}

// GetCashFlow handles GET /api/v1/reports/cashflow?horizon=N&confidence=x
func (h *ReportHandler) GetCashFlow(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	horizon, err := parseHorizon(c)
	if err != nil {
		return respondFieldError(c, err)
	}

	projection, err := h.reportService.GetCashFlow(c.Request().Context(), userID, horizon, c.QueryParam("confidence"))
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to project cash flow")
	}

	return c.JSON(http.StatusOK, toCashFlowResponse(projection))
}

// GetOverview handles GET /api/v1/reports/overview?month=YYYY-MM&horizon=N
func (h *ReportHandler) GetOverview(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, err := h.parseMonth(c)
	if err != nil {
		return respondFieldError(c, err)
	}
	horizon, err := parseHorizon(c)
	if err != nil {
		return respondFieldError(c, err)
	}

	overview, err := h.reportService.GetOverview(c.Request().Context(), userID, month, horizon)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to build report overview")
	}

	return c.JSON(http.StatusOK, toOverviewResponse(overview))
}

// parseMonth reads the month query param, defaulting to the current month
func (h *ReportHandler) parseMonth(c echo.Context) (domain.CalendarMonth, error) {
	s := c.QueryParam("month")
	if s == "" {
		return domain.MonthOf(h.now().UTC()), nil
	}
	month, err := domain.ParseCalendarMonth(s)
	if err != nil {
		return domain.CalendarMonth{}, &fieldError{detail: "Invalid month", field: "month", message: "Must be in YYYY-MM format"}
	}
	return month, nil
}

// parseHorizon reads the horizon query param. 0 means the configured default.
func parseHorizon(c echo.Context) (int, error) {
	s := c.QueryParam("horizon")
	if s == "" {
		return 0, nil
	}
	horizon, err := strconv.Atoi(s)
	if err != nil {
		return 0, &fieldError{detail: "Invalid horizon", field: "horizon", message: "Must be an integer number of days"}
	}
	return horizon, nil
}

func runwayDisplay(runwayDays *int) int {
	if runwayDays == nil {
		return runwayDaysUnlimited
	}
	return *runwayDays
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1)
}

func toDREResponse(report *domain.DREReport) DREResponse {
	t := report.Totals
	return DREResponse{
		Month: report.Month.String(),
		Rows:  service.BuildRows(report),
		Totals: DRETotalsResponse{
			GrossRevenue:      money(t.GrossRevenue),
			Deductions:        money(t.Deductions),
			NetRevenue:        money(t.NetRevenue),
			VariableCosts:     money(t.VariableCosts),
			GrossProfit:       money(t.GrossProfit),
			OperatingExpenses: money(t.OperatingExpenses),
			EBITDA:            money(t.EBITDA),
			NetIncome:         money(t.NetIncome),
		},
		TransactionCount: report.TransactionCount,
	}
}

func toCashFlowResponse(projection *domain.CashFlowProjection) CashFlowResponse {
	return CashFlowResponse{
		StartingBalance:   money(projection.StartingBalance),
		EndingBalance:     money(projection.EndingBalance()),
		HorizonDays:       projection.HorizonDays,
		Points:            service.BuildSeries(projection),
		RunwayDays:        projection.RunwayDays,
		RunwayDaysDisplay: runwayDisplay(projection.RunwayDays),
		Confidence:        projection.Confidence,
	}
}

func toOverviewResponse(overview *domain.ReportOverview) OverviewResponse {
	s := overview.Summary
	resp := OverviewResponse{
		Month:    overview.Month.String(),
		IsClosed: overview.IsClosed,
		DRE:      toDREResponse(overview.DRE),
		CashFlow: toCashFlowResponse(overview.CashFlow),
		Summary: SummaryResponse{
			GrossMargin:       percent(s.GrossMargin),
			EBITDAMargin:      percent(s.EBITDAMargin),
			NetMargin:         percent(s.NetMargin),
			CurrentBalance:    money(s.CurrentBalance),
			EndingBalance:     money(s.EndingBalance),
			LowestBalance:     money(s.LowestBalance),
			LowestBalanceOn:   s.LowestBalanceOn,
			RunwayDays:        s.RunwayDays,
			RunwayDaysDisplay: runwayDisplay(s.RunwayDays),
		},
		Goals: make([]GoalResponse, len(overview.Goals)),
	}
	for i, g := range overview.Goals {
		resp.Goals[i] = toGoalResponse(g.Goal)
	}
	return resp
}
