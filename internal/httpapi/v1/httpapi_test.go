package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leasebook/leasebook/internal/fx"
	"github.com/leasebook/leasebook/internal/journal"
	"github.com/leasebook/leasebook/internal/service/posting"
	"github.com/leasebook/leasebook/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type leaseResp struct {
	ID             string `json:"id"`
	ContractNumber string `json:"contract_number"`
	Lessee         string `json:"lessee"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	Standard       string `json:"standard"`
	EndDate        string `json:"end_date"`
	Terms          struct {
		TermMonths int    `json:"term_months"`
		Timing     string `json:"timing"`
	} `json:"terms"`
	Modifications []struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	} `json:"modifications"`
}

type schedResp struct {
	LeaseID   string `json:"lease_id"`
	Currency  string `json:"currency"`
	Truncated bool   `json:"truncated"`
	Rows      []struct {
		Period           int     `json:"period"`
		Payment          float64 `json:"payment"`
		ClosingLiability float64 `json:"closing_liability"`
		Event            string  `json:"event"`
	} `json:"rows"`
}

type entriesResp struct {
	LeaseID string `json:"lease_id"`
	Items   []struct {
		ID          string `json:"id"`
		DebitMinor  int64  `json:"debit_minor"`
		CreditMinor int64  `json:"credit_minor"`
		Amount      string `json:"amount"`
	} `json:"items"`
}

func setup(t *testing.T) http.Handler {
	t.Helper()
	return setupWithToken(t, "")
}

func setupWithToken(t *testing.T, token string) http.Handler {
	t.Helper()
	store := memory.New()
	postings := posting.New(journal.NewRegistry(nil), fx.NewTable("", nil), testLogger())
	return New(store, store, postings, nil, testLogger(), token).Handler()
}

func leaseBody() map[string]any {
	return map[string]any{
		"contract_number": "L-001",
		"lessee":          "Acme Logistics",
		"asset":           "Warehouse A",
		"start_date":      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"currency":        "usd",
		"terms": map[string]any{
			"term_months":         12,
			"payment_amount":      1000,
			"annual_rate_percent": 6,
			"payments_per_year":   12,
		},
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createLease(t *testing.T, h http.Handler) leaseResp {
	t.Helper()
	rec := postJSON(t, h, "/v1/leases", leaseBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create lease expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var lr leaseResp
	if err := json.Unmarshal(rec.Body.Bytes(), &lr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return lr
}

func TestPostLease_ValidAndInvalid(t *testing.T) {
	h := setup(t)

	lr := createLease(t, h)
	if lr.ID == "" || lr.Currency != "USD" || lr.Status != "draft" || lr.Standard != "ifrs16" {
		t.Fatalf("unexpected response: %+v", lr)
	}
	if lr.Terms.Timing != "in_arrears" {
		t.Fatalf("expected default timing, got %q", lr.Terms.Timing)
	}
	if lr.EndDate == "" {
		t.Fatalf("expected derived end_date")
	}

	// duplicate contract number
	rec := postJSON(t, h, "/v1/leases", leaseBody())
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	// invalid: missing lessee
	body := leaseBody()
	body["contract_number"] = "L-002"
	body["lessee"] = ""
	rec = postJSON(t, h, "/v1/leases", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// missing content type
	b, _ := json.Marshal(leaseBody())
	req := httptest.NewRequest(http.MethodPost, "/v1/leases", bytes.NewReader(b))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestLeases_GetListAndStatus(t *testing.T) {
	h := setup(t)
	lr := createLease(t, h)

	req := httptest.NewRequest(http.MethodGet, "/v1/leases/"+lr.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get lease expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id expected 400, got %d", rec.Code)
	}

	b, _ := json.Marshal(map[string]any{"status": "active"})
	preq := httptest.NewRequest(http.MethodPatch, "/v1/leases/"+lr.ID+"/status", bytes.NewReader(b))
	preq.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, preq)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated leaseResp
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Status != "active" {
		t.Fatalf("expected active, got %q", updated.Status)
	}
}

func TestModifications(t *testing.T) {
	h := setup(t)
	lr := createLease(t, h)

	mod := map[string]any{
		"effective_date": "2024-07-01T00:00:00Z",
		"kind":           "payment_change",
		"reason":         "indexation",
		"previous":       map[string]any{"payment_amount": 1000},
		"new":            map[string]any{"payment_amount": 1200},
	}
	rec := postJSON(t, h, "/v1/leases/"+lr.ID+"/modifications", mod)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated leaseResp
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if len(updated.Modifications) != 1 || updated.Modifications[0].Kind != "payment_change" {
		t.Fatalf("unexpected modifications: %+v", updated.Modifications)
	}

	// empty change set
	mod["new"] = map[string]any{}
	rec = postJSON(t, h, "/v1/leases/"+lr.ID+"/modifications", mod)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty change expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	// previous does not cover new
	mod["new"] = map[string]any{"payment_amount": 1200, "term_months": 18}
	rec = postJSON(t, h, "/v1/leases/"+lr.ID+"/modifications", mod)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("asymmetric change expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScheduleEntriesAndPV(t *testing.T) {
	h := setup(t)
	lr := createLease(t, h)

	req := httptest.NewRequest(http.MethodGet, "/v1/leases/"+lr.ID+"/schedule", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("schedule expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var sr schedResp
	if err := json.Unmarshal(rec.Body.Bytes(), &sr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sr.Rows) != 13 || sr.Truncated || sr.Currency != "USD" {
		t.Fatalf("unexpected schedule: %d rows truncated=%v", len(sr.Rows), sr.Truncated)
	}
	if sr.Rows[0].Event != "Initial Recognition" {
		t.Fatalf("expected inception row, got %q", sr.Rows[0].Event)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases/"+lr.ID+"/entries", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("entries expected 200, got %d", rec.Code)
	}
	var er entriesResp
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(er.Items) == 0 {
		t.Fatalf("expected entries")
	}
	for _, item := range er.Items {
		if item.DebitMinor != item.CreditMinor || item.DebitMinor <= 0 {
			t.Fatalf("unbalanced entry %s: %d vs %d", item.ID, item.DebitMinor, item.CreditMinor)
		}
	}

	// single period
	req = httptest.NewRequest(http.MethodGet, "/v1/leases/"+lr.ID+"/entries?period=0", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("period entries expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases/"+lr.ID+"/entries?period=999", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("out-of-range period expected 404, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases/"+lr.ID+"/entries?period=abc", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric period expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases/"+lr.ID+"/pv", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pv expected 200, got %d", rec.Code)
	}
	var pv struct {
		PresentValue float64 `json:"present_value"`
		Currency     string  `json:"currency"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &pv)
	if pv.PresentValue <= 0 || pv.Currency != "USD" {
		t.Fatalf("unexpected pv: %+v", pv)
	}
}

func TestAccounts_GetAndReplace(t *testing.T) {
	h := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("accounts expected 200, got %d", rec.Code)
	}
	var chart journal.Chart
	if err := json.Unmarshal(rec.Body.Bytes(), &chart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if chart[journal.AccountLeaseLiability].Code != "2100" {
		t.Fatalf("unexpected default chart: %+v", chart)
	}

	chart[journal.AccountLeaseLiability] = journal.Account{Code: "2400", Name: "Finance Lease Obligation"}
	b, _ := json.Marshal(chart)
	preq := httptest.NewRequest(http.MethodPut, "/v1/accounts", bytes.NewReader(b))
	preq.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, preq)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// incomplete chart rejected
	delete(chart, journal.AccountCash)
	b, _ = json.Marshal(chart)
	preq = httptest.NewRequest(http.MethodPut, "/v1/accounts", bytes.NewReader(b))
	preq.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, preq)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid chart expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSummaryAndRates(t *testing.T) {
	h := setup(t)
	lr := createLease(t, h)

	b, _ := json.Marshal(map[string]any{"status": "active"})
	preq := httptest.NewRequest(http.MethodPatch, "/v1/leases/"+lr.ID+"/status", bytes.NewReader(b))
	preq.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preq)
	if rec.Code != http.StatusOK {
		t.Fatalf("activate expected 200, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/summary", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary expected 200, got %d", rec.Code)
	}
	var sum struct {
		Currency         string  `json:"currency"`
		TotalLeases      int     `json:"total_leases"`
		ActiveLeases     int     `json:"active_leases"`
		TotalLiabilityPV float64 `json:"total_liability_pv"`
		MonthlyCashOut   float64 `json:"monthly_cash_out"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &sum)
	if sum.Currency != "USD" || sum.TotalLeases != 1 || sum.ActiveLeases != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.TotalLiabilityPV <= 0 || sum.MonthlyCashOut != 1000 {
		t.Fatalf("unexpected totals: %+v", sum)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/reports/summary?currency=IQD", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	_ = json.Unmarshal(rec.Body.Bytes(), &sum)
	if sum.Currency != "IQD" || sum.MonthlyCashOut != 1310000 {
		t.Fatalf("unexpected converted summary: %+v", sum)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/rates", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("rates expected 200, got %d", rec.Code)
	}
	var rates struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &rates)
	if rates.Base != "USD" || rates.Rates["IQD"] != 1310 {
		t.Fatalf("unexpected rates: %+v", rates)
	}
}

func TestBearerAuth(t *testing.T) {
	h := setupWithToken(t, "sekret")

	req := httptest.NewRequest(http.MethodGet, "/v1/leases", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/leases", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token expected 200, got %d", rec.Code)
	}

	// health endpoints stay open
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz expected 200, got %d", rec.Code)
	}
}

func TestAuxEndpoints(t *testing.T) {
	h := setup(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s expected 200, got %d", path, rec.Code)
		}
	}
}
