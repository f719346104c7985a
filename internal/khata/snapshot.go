package khata

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/govalues/money"

	"github.com/khatalabs/khata/internal/errs"
)

// snapshotKeys are the top-level keys an import payload must carry.
var snapshotKeys = []string{"company", "clients", "vendors", "ledger"}

// ParseSnapshot decodes an import payload, rejecting it eagerly when any
// required top-level key is absent. This is the only place a structurally
// bad snapshot hard-fails; the aggregation core never sees one.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: invalid JSON: %v", errs.ErrBadSnapshot, err)
	}
	for _, k := range snapshotKeys {
		if _, ok := raw[k]; !ok {
			return Snapshot{}, fmt.Errorf("%w: missing top-level key %q", errs.ErrBadSnapshot, k)
		}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", errs.ErrBadSnapshot, err)
	}
	if err := snap.Company.Validate(); err != nil {
		return Snapshot{}, err
	}
	if snap.Clients == nil {
		snap.Clients = []Party{}
	}
	if snap.Vendors == nil {
		snap.Vendors = []Party{}
	}
	if snap.Ledger == nil {
		snap.Ledger = []LedgerEntry{}
	}
	return snap, nil
}

// Validate checks the company profile: currency must be a real ISO 4217
// code and the fiscal year start month a calendar month (or zero, unset).
func (c Company) Validate() error {
	cur := strings.ToUpper(strings.TrimSpace(c.Currency))
	if cur == "" {
		return fmt.Errorf("%w: company currency is required", errs.ErrUnprocessable)
	}
	if _, err := money.ParseCurr(cur); err != nil {
		return fmt.Errorf("%w: unknown currency %q", errs.ErrUnprocessable, c.Currency)
	}
	if c.FiscalYearStartMonth < 0 || c.FiscalYearStartMonth > 12 {
		return fmt.Errorf("%w: fiscal year start month out of range", errs.ErrUnprocessable)
	}
	return nil
}
