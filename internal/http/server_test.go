package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"familybudget/internal/services"
	"familybudget/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	svc := services.NewBudgetService(store.New(store.NewMemoryKV()), nil)
	s := NewServer(":0", svc)
	s.now = func() time.Time {
		return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() {
		if err := s.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v\nbody: %s", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func TestRecordLifecycle(t *testing.T) {
	s := newTestServer(t)

	var created recordJSON
	rec := doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 50, "category": "Housing", "description": "Rent", "createdAt": "2024-03-15T10:00:00Z"}`,
		&created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if created.ID == "" {
		t.Error("created record has no id")
	}
	if created.MonthKey != "2024-03" {
		t.Errorf("monthKey = %q, want 2024-03", created.MonthKey)
	}

	var inMarch []recordJSON
	doJSON(t, s, http.MethodGet, "/api/records/fixed?month=2024-03", "", &inMarch)
	if len(inMarch) != 1 {
		t.Fatalf("march records = %d, want 1", len(inMarch))
	}

	var inApril []recordJSON
	doJSON(t, s, http.MethodGet, "/api/records/fixed?month=2024-04", "", &inApril)
	if len(inApril) != 0 {
		t.Errorf("april records = %d, want 0", len(inApril))
	}

	var updated recordJSON
	rec = doJSON(t, s, http.MethodPut, "/api/records/fixed/"+created.ID,
		`{"amount": 60, "category": "Housing", "description": "Rent increase", "createdAt": "2024-03-15T10:00:00Z"}`,
		&updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if updated.Amount.Cents != 6000 {
		t.Errorf("updated amount = %d cents, want 6000", updated.Amount.Cents)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/records/fixed/"+created.ID, "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	var remaining []recordJSON
	doJSON(t, s, http.MethodGet, "/api/records/fixed", "", &remaining)
	if len(remaining) != 0 {
		t.Errorf("records after delete = %d, want 0", len(remaining))
	}
}

func TestRecordErrors(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/records/bogus", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown kind status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/records/fixed?month=march", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/records/fixed", `{"amount": 10}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing description status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/records/fixed/does-not-exist",
		`{"amount": 10, "description": "x"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing record status = %d, want 404", rec.Code)
	}
}

func TestOverview(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/records/income",
		`{"amount": 100, "source": "Salaris", "description": "Loon", "createdAt": "2024-03-01T00:00:00Z"}`, nil)
	doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 30, "category": "Wonen", "description": "Huur", "createdAt": "2024-03-02T00:00:00Z"}`, nil)
	doJSON(t, s, http.MethodPost, "/api/records/variable",
		`{"amount": 20, "description": "Boodschappen", "createdAt": "2024-03-03T00:00:00Z"}`, nil)
	doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 40, "category": "Wonen", "description": "Huur februari", "createdAt": "2024-02-02T00:00:00Z"}`, nil)

	var overview overviewResponse
	rec := doJSON(t, s, http.MethodGet, "/api/overview?month=2024-03", "", &overview)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview status = %d, body: %s", rec.Code, rec.Body.String())
	}

	if overview.TotalIncome.Cents != 10000 {
		t.Errorf("TotalIncome = %d, want 10000", overview.TotalIncome.Cents)
	}
	if overview.TotalExpenses.Cents != 5000 {
		t.Errorf("TotalExpenses = %d, want 5000", overview.TotalExpenses.Cents)
	}
	if overview.NetBalance.Cents != 5000 {
		t.Errorf("NetBalance = %d, want 5000", overview.NetBalance.Cents)
	}

	// March expenses are 50 against 40 in February.
	if overview.ExpenseTrend.Direction != "up" {
		t.Errorf("ExpenseTrend.Direction = %q, want up", overview.ExpenseTrend.Direction)
	}
	if overview.ExpenseTrend.Percentage != 25 {
		t.Errorf("ExpenseTrend.Percentage = %v, want 25", overview.ExpenseTrend.Percentage)
	}

	wonen, ok := overview.ExpensesByCategory["Wonen"]
	if !ok || wonen.Total.Cents != 3000 {
		t.Errorf("ExpensesByCategory[Wonen] = %+v, want total 3000", wonen)
	}
	if fallback := overview.ExpensesByCategory["Overig"]; fallback.Total.Cents != 2000 {
		t.Errorf("uncategorized total = %d, want 2000", fallback.Total.Cents)
	}
	if salaris := overview.IncomeBySource["Salaris"]; salaris.Total.Cents != 10000 {
		t.Errorf("IncomeBySource[Salaris] = %d, want 10000", salaris.Total.Cents)
	}
}

func TestOverviewCacheInvalidation(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 10, "description": "Eerste", "createdAt": "2024-03-01T00:00:00Z"}`, nil)

	var before overviewResponse
	doJSON(t, s, http.MethodGet, "/api/overview?month=2024-03", "", &before)
	if before.TotalExpenses.Cents != 1000 {
		t.Fatalf("TotalExpenses = %d, want 1000", before.TotalExpenses.Cents)
	}

	doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 5, "description": "Tweede", "createdAt": "2024-03-02T00:00:00Z"}`, nil)

	var after overviewResponse
	doJSON(t, s, http.MethodGet, "/api/overview?month=2024-03", "", &after)
	if after.TotalExpenses.Cents != 1500 {
		t.Errorf("TotalExpenses after mutation = %d, want 1500", after.TotalExpenses.Cents)
	}
}

func TestMonthsAndYears(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 10, "description": "Oud", "createdAt": "2023-12-05T00:00:00Z"}`, nil)

	var months []string
	doJSON(t, s, http.MethodGet, "/api/months", "", &months)
	if len(months) != 2 || months[0] != "2024-03" || months[1] != "2023-12" {
		t.Errorf("months = %v, want [2024-03 2023-12]", months)
	}

	var years []int
	doJSON(t, s, http.MethodGet, "/api/years", "", &years)
	if len(years) != 2 || years[0] != 2024 || years[1] != 2023 {
		t.Errorf("years = %v, want [2024 2023]", years)
	}
}

func TestYearly(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/records/income",
		`{"amount": 100, "source": "Salaris", "description": "Loon", "createdAt": "2024-01-10T00:00:00Z"}`, nil)
	doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 30, "category": "Wonen", "description": "Huur", "createdAt": "2024-01-11T00:00:00Z"}`, nil)
	doJSON(t, s, http.MethodPost, "/api/records/variable",
		`{"amount": 99, "description": "Vakantie", "createdAt": "2024-05-01T00:00:00Z"}`, nil)

	var q1 yearlyResponse
	rec := doJSON(t, s, http.MethodGet, "/api/yearly?year=2024&period=q1", "", &q1)
	if rec.Code != http.StatusOK {
		t.Fatalf("yearly status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if q1.Summary.TotalIncome.Cents != 10000 {
		t.Errorf("q1 income = %d, want 10000", q1.Summary.TotalIncome.Cents)
	}
	if q1.Summary.TotalExpenses.Cents != 3000 {
		t.Errorf("q1 expenses = %d, want 3000 (may excludes q1)", q1.Summary.TotalExpenses.Cents)
	}
	if len(q1.Monthly) != 3 {
		t.Errorf("q1 monthly entries = %d, want 3", len(q1.Monthly))
	}

	var full yearlyResponse
	doJSON(t, s, http.MethodGet, "/api/yearly?year=2024", "", &full)
	if full.Summary.TotalExpenses.Cents != 12900 {
		t.Errorf("year expenses = %d, want 12900", full.Summary.TotalExpenses.Cents)
	}
	if len(full.Monthly) != 12 {
		t.Errorf("full year monthly entries = %d, want 12", len(full.Monthly))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/yearly?year=2024&period=h1", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad period status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/yearly?year=banana", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad year status = %d, want 400", rec.Code)
	}
}

func TestGoals(t *testing.T) {
	s := newTestServer(t)

	var created goalJSON
	rec := doJSON(t, s, http.MethodPost, "/api/goals",
		`{"name": "Vakantie", "targetAmount": 1000, "monthlyContribution": 50}`, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if created.Status != "active" {
		t.Errorf("status = %q, want active", created.Status)
	}

	var contributed goalJSON
	rec = doJSON(t, s, http.MethodPost, "/api/goals/"+created.ID+"/contribute",
		`{"amount": 250}`, &contributed)
	if rec.Code != http.StatusOK {
		t.Fatalf("contribute status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if contributed.CurrentBalance.Cents != 25000 {
		t.Errorf("balance = %d, want 25000", contributed.CurrentBalance.Cents)
	}
	if contributed.Progress != 0.25 {
		t.Errorf("progress = %v, want 0.25", contributed.Progress)
	}
	if contributed.Status != "active" {
		t.Errorf("status after contribution = %q, want active", contributed.Status)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/goals/"+created.ID+"/contribute",
		`{"amount": 0}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero contribution status = %d, want 400", rec.Code)
	}

	var overview overviewResponse
	doJSON(t, s, http.MethodGet, "/api/overview", "", &overview)
	if len(overview.Goals) != 1 || overview.Goals[0].Progress != 0.25 {
		t.Errorf("overview goals = %+v, want one goal at 0.25 progress", overview.Goals)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/goals/"+created.ID, "", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete goal status = %d", rec.Code)
	}
}

func TestThemeAndSettings(t *testing.T) {
	s := newTestServer(t)

	var theme themeJSON
	doJSON(t, s, http.MethodGet, "/api/theme", "", &theme)
	if theme.Theme != "light" {
		t.Errorf("default theme = %q, want light", theme.Theme)
	}

	rec := doJSON(t, s, http.MethodPut, "/api/theme", `{"theme": "dark"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("set theme status = %d", rec.Code)
	}
	doJSON(t, s, http.MethodGet, "/api/theme", "", &theme)
	if theme.Theme != "dark" {
		t.Errorf("theme = %q, want dark", theme.Theme)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/theme", `{"theme": "sepia"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad theme status = %d, want 400", rec.Code)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/records/fixed",
		`{"amount": 75, "category": "Wonen", "description": "Huur", "createdAt": "2024-03-01T00:00:00Z"}`, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "familybudget-backup-") {
		t.Errorf("Content-Disposition = %q", got)
	}
	backup := rec.Body.String()

	if code := doJSON(t, s, http.MethodPost, "/api/reset", "", nil).Code; code != http.StatusNoContent {
		t.Fatalf("reset status = %d", code)
	}
	var afterReset []recordJSON
	doJSON(t, s, http.MethodGet, "/api/records/fixed", "", &afterReset)
	if len(afterReset) != 0 {
		t.Fatalf("records after reset = %d, want 0", len(afterReset))
	}

	if code := doJSON(t, s, http.MethodPost, "/api/import", backup, nil).Code; code != http.StatusNoContent {
		t.Fatalf("import status = %d", code)
	}
	var restored []recordJSON
	doJSON(t, s, http.MethodGet, "/api/records/fixed", "", &restored)
	if len(restored) != 1 || restored[0].Amount.Cents != 7500 {
		t.Fatalf("restored = %+v, want one record of 7500 cents", restored)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/import", `[1, 2, 3]`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid import status = %d, want 400", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/records/income",
		`{"amount": 100, "source": "Salaris", "description": "Loon", "createdAt": "2024-03-15T00:00:00Z"}`, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/export/csv", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export csv status = %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "Date,Type,Category,Description,Amount,Notes") {
		t.Errorf("csv header missing, got: %q", body)
	}
	if !strings.Contains(body, "15/03/2024,Income,Salaris,Loon,100.00,") {
		t.Errorf("csv row missing, got: %q", body)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/months", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
