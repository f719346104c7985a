package khata

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/khatalabs/khata/internal/errs"
	"github.com/khatalabs/khata/internal/numeric"
)

const validPayload = `{
	"company": {"name": "Shop", "currency": "usd", "fiscalYearStartMonth": 4},
	"clients": [{"id": "c1", "name": "Asha", "phone": "", "address": "", "notes": "", "openingBalance": 250}],
	"vendors": [],
	"ledger": [{
		"id": "e1", "date": "2025-01-05", "type": "sale",
		"partyType": "client", "partyId": "c1",
		"ref": "INV-1", "desc": "stock", "category": "",
		"amount": 1000, "paid": 400, "method": "cash"
	}]
}`

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot([]byte(validPayload))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Clients) != 1 || len(snap.Ledger) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !snap.Clients[0].OpeningBalance.Equal(numeric.MustParse("250")) {
		t.Fatalf("opening balance = %s", snap.Clients[0].OpeningBalance)
	}
	e := snap.Ledger[0]
	if e.PartyType == nil || *e.PartyType != PartyTypeClient || e.PartyID == nil || *e.PartyID != "c1" {
		t.Fatalf("party ref not decoded: %+v", e)
	}
}

func TestParseSnapshotMissingKeys(t *testing.T) {
	for _, key := range []string{"company", "clients", "vendors", "ledger"} {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal([]byte(validPayload), &raw); err != nil {
			t.Fatal(err)
		}
		delete(raw, key)
		b, _ := json.Marshal(raw)
		_, err := ParseSnapshot(b)
		if !errors.Is(err, errs.ErrBadSnapshot) {
			t.Errorf("missing %q: expected ErrBadSnapshot, got %v", key, err)
		}
		if err == nil || !strings.Contains(err.Error(), key) {
			t.Errorf("missing %q: error should name the key, got %v", key, err)
		}
	}
}

func TestParseSnapshotBadCurrency(t *testing.T) {
	payload := strings.Replace(validPayload, `"currency": "usd"`, `"currency": "XYZ"`, 1)
	_, err := ParseSnapshot([]byte(payload))
	if !errors.Is(err, errs.ErrUnprocessable) {
		t.Fatalf("expected ErrUnprocessable for unknown currency, got %v", err)
	}
}

func TestParseSnapshotLenientAmounts(t *testing.T) {
	payload := strings.Replace(validPayload, `"amount": 1000`, `"amount": "oops"`, 1)
	snap, err := ParseSnapshot([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Ledger[0].Amount.IsZero() {
		t.Fatalf("malformed amount should coerce to 0, got %s", snap.Ledger[0].Amount)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap, err := ParseSnapshot([]byte(validPayload))
	if err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseSnapshot(out)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snap, again) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", snap, again)
	}
}

func TestOutstanding(t *testing.T) {
	e := LedgerEntry{Amount: numeric.MustParse("300"), Paid: numeric.MustParse("350")}
	if got := e.Outstanding().String(); got != "-50" {
		t.Fatalf("outstanding = %s, want -50 (overpayment kept as-is)", got)
	}
}
