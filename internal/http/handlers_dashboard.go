package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"familybudget/internal/core"
	"familybudget/internal/report"
	"familybudget/internal/services"
)

// overviewResponse is the dashboard aggregate for one month. It is derived
// on demand and never persisted.
type overviewResponse struct {
	Month              core.MonthKey               `json:"month"`
	TotalIncome        core.Money                  `json:"totalIncome"`
	TotalFixed         core.Money                  `json:"totalFixedExpenses"`
	TotalVariable      core.Money                  `json:"totalVariableExpenses"`
	TotalExpenses      core.Money                  `json:"totalExpenses"`
	NetBalance         core.Money                  `json:"netBalance"`
	IncomeTrend        report.Trend                `json:"incomeTrend"`
	ExpenseTrend       report.Trend                `json:"expenseTrend"`
	ExpensesByCategory map[string]report.Breakdown `json:"expensesByCategory"`
	IncomeBySource     map[string]report.Breakdown `json:"incomeBySource"`
	Goals              []goalJSON                  `json:"goals"`
}

// monthCollections loads the three record collections concurrently; they
// live under independent keys so the reads never contend.
func (s *Server) monthCollections(r *http.Request) (fixed, variable, income []core.Record, err error) {
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		fixed, err = s.svc.Records(ctx, services.KindFixed)
		return err
	})
	g.Go(func() error {
		var err error
		variable, err = s.svc.Records(ctx, services.KindVariable)
		return err
	})
	g.Go(func() error {
		var err error
		income, err = s.svc.Records(ctx, services.KindIncome)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return fixed, variable, income, nil
}

func buildOverview(month core.MonthKey, fixed, variable, income []core.Record) overviewResponse {
	curFixed := report.FilterByMonth(fixed, month)
	curVariable := report.FilterByMonth(variable, month)
	curIncome := report.FilterByMonth(income, month)

	prev := report.PreviousMonth(month)
	prevExpenses := report.Sum(report.FilterByMonth(fixed, prev)).
		Add(report.Sum(report.FilterByMonth(variable, prev)))
	prevIncome := report.Sum(report.FilterByMonth(income, prev))

	totalFixed := report.Sum(curFixed)
	totalVariable := report.Sum(curVariable)
	totalIncome := report.Sum(curIncome)
	totalExpenses := totalFixed.Add(totalVariable)

	expenses := make(map[string]report.Breakdown)
	for k, v := range report.BreakdownBy(curFixed, report.ByCategory, core.FallbackCategory) {
		expenses[k] = v
	}
	for k, v := range report.BreakdownBy(curVariable, report.ByCategory, core.FallbackCategory) {
		b := expenses[k]
		b.Count += v.Count
		b.Total = b.Total.Add(v.Total)
		expenses[k] = b
	}

	return overviewResponse{
		Month:              month,
		TotalIncome:        totalIncome,
		TotalFixed:         totalFixed,
		TotalVariable:      totalVariable,
		TotalExpenses:      totalExpenses,
		NetBalance:         report.NetBalance(curIncome, curFixed, curVariable),
		IncomeTrend:        report.TrendPercent(totalIncome, prevIncome),
		ExpenseTrend:       report.TrendPercent(totalExpenses, prevExpenses),
		ExpensesByCategory: expenses,
		IncomeBySource:     report.BreakdownBy(curIncome, report.BySource, core.FallbackSource),
	}
}

// handleOverview serves the per-month dashboard aggregate. The month
// defaults to the current one.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	month := core.MonthKeyFor(s.now())
	if raw := r.URL.Query().Get("month"); raw != "" {
		key, ok := core.ParseMonthKey(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, errors.New("invalid month, want YYYY-MM"))
			return
		}
		month = key
	}

	if cached, ok := s.overviewCache.Get(string(month)); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	fixed, variable, income, err := s.monthCollections(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	goals, err := s.svc.Goals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	overview := buildOverview(month, fixed, variable, income)
	overview.Goals = make([]goalJSON, len(goals))
	for i, g := range goals {
		overview.Goals[i] = goalToJSON(g)
	}
	s.overviewCache.Set(string(month), overview)
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	fixed, variable, income, err := s.monthCollections(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report.AvailableMonths(s.now(), fixed, variable, income))
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	fixed, variable, income, err := s.monthCollections(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	goals, err := s.svc.Goals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report.AvailableYears(s.now(), goals, fixed, variable, income))
}

type yearlyResponse struct {
	Year    int                   `json:"year"`
	Period  report.Period         `json:"period"`
	Summary report.PeriodSummary  `json:"summary"`
	Monthly []report.MonthSummary `json:"monthly"`
}

// handleYearly serves a year's rollup sliced to the requested period.
func (s *Server) handleYearly(w http.ResponseWriter, r *http.Request) {
	year := s.now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			writeError(w, http.StatusBadRequest, errors.New("invalid year"))
			return
		}
		year = parsed
	}

	period, err := report.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cacheKey := fmt.Sprintf("%d", year)
	rollup, ok := s.yearlyCache.Get(cacheKey)
	if !ok {
		fixed, variable, income, err := s.monthCollections(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		rollup = report.BuildYear(year, fixed, variable, income)
		s.yearlyCache.Set(cacheKey, rollup)
	}

	monthly := make([]report.MonthSummary, 0, 12)
	for _, idx := range period.MonthIndexes() {
		monthly = append(monthly, rollup.Monthly[idx])
	}

	writeJSON(w, http.StatusOK, yearlyResponse{
		Year:    year,
		Period:  period,
		Summary: report.SlicePeriod(rollup, period),
		Monthly: monthly,
	})
}
