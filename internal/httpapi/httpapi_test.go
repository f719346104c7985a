package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khatalabs/khata/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type partyResp struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	OpeningBalance float64 `json:"openingBalance"`
}

type entryResp struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	PartyType *string `json:"partyType"`
	PartyID   *string `json:"partyId"`
	Amount    float64 `json:"amount"`
	Paid      float64 `json:"paid"`
}

type totalsResp struct {
	Sales      float64 `json:"sales"`
	Purchases  float64 `json:"purchases"`
	COGS       float64 `json:"cogs"`
	Expenses   float64 `json:"expenses"`
	Cash       float64 `json:"cash"`
	Receivable float64 `json:"receivable"`
	Payable    float64 `json:"payable"`
	Profit     float64 `json:"profit"`
}

func setup(t *testing.T) (*memory.Store, http.Handler) {
	t.Helper()
	store := memory.New()
	h := New(store, store, store, store, store, store, store, testLogger()).Handler()
	return store, h
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v: %s", err, rec.Body.String())
	}
	return v
}

func TestPartyCRUD(t *testing.T) {
	_, h := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/clients", map[string]any{
		"name": "Asha Traders", "phone": "123", "openingBalance": 250,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[partyResp](t, rec)
	if created.ID == "" || created.OpeningBalance != 250 {
		t.Fatalf("unexpected party: %+v", created)
	}

	// name is required
	rec = doJSON(t, h, http.MethodPost, "/v1/clients", map[string]any{"name": " "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name: expected 400, got %d", rec.Code)
	}

	// full-field replace via PUT
	rec = doJSON(t, h, http.MethodPut, "/v1/clients/"+created.ID, map[string]any{
		"name": "Asha & Sons", "openingBalance": 300,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[partyResp](t, rec)
	if updated.Name != "Asha & Sons" || updated.Phone != "" {
		t.Fatalf("update should replace all fields: %+v", updated)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/clients", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	list := decode[[]partyResp](t, rec)
	if len(list) != 1 {
		t.Fatalf("list len = %d", len(list))
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/clients/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/clients/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
}

func TestEntryFlowAndReports(t *testing.T) {
	_, h := setup(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/clients", map[string]any{"name": "Asha"})
	client := decode[partyResp](t, rec)

	// credit sale, partial payment
	rec = doJSON(t, h, http.MethodPost, "/v1/entries", map[string]any{
		"date": "2025-01-05", "type": "sale",
		"partyType": "client", "partyId": client.ID,
		"ref": "INV-1", "desc": "stock", "amount": 1000, "paid": 400, "method": "cash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entry: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// invalid: vendor reference on a sale
	rec = doJSON(t, h, http.MethodPost, "/v1/entries", map[string]any{
		"date": "2025-01-06", "type": "sale", "partyType": "vendor", "partyId": "v1", "amount": 10,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("mismatched party: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/entries", map[string]any{
		"date": "2025-01-07", "type": "purchase", "category": "COGS", "amount": 300, "paid": 300,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase: %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodPost, "/v1/entries", map[string]any{
		"date": "2025-01-08", "type": "expense", "desc": "rent", "amount": 50, "paid": 50,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expense: %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/reports/totals", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("totals: %d", rec.Code)
	}
	totals := decode[totalsResp](t, rec)
	if totals.Sales != 1000 || totals.COGS != 300 || totals.Expenses != 50 {
		t.Fatalf("totals: %+v", totals)
	}
	if totals.Profit != 650 { // 1000 - 300 - 50
		t.Fatalf("profit = %v", totals.Profit)
	}
	if totals.Cash != 50 { // 400 - 300 - 50
		t.Fatalf("cash = %v", totals.Cash)
	}
	if totals.Receivable != 600 {
		t.Fatalf("receivable = %v", totals.Receivable)
	}

	// balance endpoint
	rec = doJSON(t, h, http.MethodGet, "/v1/clients/"+client.ID+"/balance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: %d", rec.Code)
	}
	bal := decode[map[string]any](t, rec)
	if bal["balance"].(float64) != 600 || bal["name"].(string) != "Asha" {
		t.Fatalf("balance resp: %v", bal)
	}

	// cash flow net always equals totals.cash
	rec = doJSON(t, h, http.MethodGet, "/v1/reports/cash-flow", nil)
	cf := decode[map[string]any](t, rec)
	if cf["net"].(float64) != totals.Cash {
		t.Fatalf("cash flow net %v != cash %v", cf["net"], totals.Cash)
	}

	// deleting the client keeps its entries and zeros its balance
	rec = doJSON(t, h, http.MethodDelete, "/v1/clients/"+client.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete client: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/clients/"+client.ID+"/balance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance after delete should not fail: %d", rec.Code)
	}
	bal = decode[map[string]any](t, rec)
	if bal["balance"].(float64) != 0 || bal["name"].(string) != "-" {
		t.Fatalf("deleted party balance: %v", bal)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/reports/totals", nil)
	totals = decode[totalsResp](t, rec)
	if totals.Sales != 1000 {
		t.Fatalf("sales after party delete = %v", totals.Sales)
	}
	if totals.Receivable != 0 {
		t.Fatalf("receivable after party delete = %v", totals.Receivable)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	_, h := setup(t)

	payload := `{
		"company": {"name": "Shop", "currency": "USD", "fiscalYearStartMonth": 4},
		"clients": [{"id": "c1", "name": "Asha", "phone": "", "address": "", "notes": "", "openingBalance": 250}],
		"vendors": [],
		"ledger": [{
			"id": "e1", "date": "2025-01-05", "type": "sale",
			"partyType": "client", "partyId": "c1",
			"ref": "", "desc": "", "category": "",
			"amount": 1000, "paid": 400, "method": ""
		}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/import", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d", rec.Code)
	}
	first := rec.Body.String()

	// importing the export again must be a no-op
	req = httptest.NewRequest(http.MethodPost, "/v1/import", strings.NewReader(first))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-import: %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/export", nil)
	if rec.Body.String() != first {
		t.Fatalf("export not stable across round trip:\n%s\n%s", first, rec.Body.String())
	}
}

func TestImportRejectsMissingKeys(t *testing.T) {
	_, h := setup(t)
	for _, payload := range []string{
		`{"clients": [], "vendors": [], "ledger": []}`,
		`{"company": {"currency": "USD"}, "vendors": [], "ledger": []}`,
		`{"company": {"currency": "USD"}, "clients": [], "ledger": []}`,
		`{"company": {"currency": "USD"}, "clients": [], "vendors": []}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/v1/import", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestCSVExportEndpoint(t *testing.T) {
	_, h := setup(t)
	rec := doJSON(t, h, http.MethodPost, "/v1/entries", map[string]any{
		"date": "2025-01-05", "type": "expense", "desc": "rent", "amount": 50, "paid": 50,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed entry: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/export/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "date,type,party,ref,desc,category,amount,paid,method\n") {
		t.Fatalf("csv body:\n%s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "2025-01-05,expense,-,,rent,") {
		t.Fatalf("csv row missing:\n%s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/export/csv?type=refund", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type filter: expected 400, got %d", rec.Code)
	}
}

func TestCompanyEndpoint(t *testing.T) {
	_, h := setup(t)
	rec := doJSON(t, h, http.MethodPut, "/v1/company", map[string]any{
		"name": "Demo Store", "currency": "PKR", "fiscalYearStartMonth": 7,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put company: %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodPut, "/v1/company", map[string]any{
		"name": "Demo Store", "currency": "NOPE",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad currency: expected 422, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/company", nil)
	c := decode[map[string]any](t, rec)
	if c["currency"].(string) != "PKR" {
		t.Fatalf("company: %v", c)
	}
}

func TestContentTypeRequired(t *testing.T) {
	_, h := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/entries", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	_, h := setup(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, h, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, rec.Code)
		}
	}
}
