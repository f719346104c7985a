package khata

import (
	"github.com/khatalabs/khata/internal/numeric"
)

// PartyType distinguishes the two counterparty collections.
type PartyType string

const (
	// PartyTypeClient is a customer the business extends credit to.
	PartyTypeClient PartyType = "client"
	// PartyTypeVendor is a supplier the business owes.
	PartyTypeVendor PartyType = "vendor"
)

// Valid reports whether t is one of the two known party types.
func (t PartyType) Valid() bool {
	return t == PartyTypeClient || t == PartyTypeVendor
}

// EntryType enumerates the five kinds of ledger event. The set is closed;
// every aggregation switches exhaustively over it.
type EntryType string

const (
	// EntryTypeSale records a sale to a client, possibly on credit.
	EntryTypeSale EntryType = "sale"
	// EntryTypePurchase records a purchase from a vendor, possibly on credit.
	EntryTypePurchase EntryType = "purchase"
	// EntryTypeExpense records an operating expense, assumed cash-settled.
	EntryTypeExpense EntryType = "expense"
	// EntryTypeCashIn records a receipt against a client's balance.
	EntryTypeCashIn EntryType = "cash_in"
	// EntryTypeCashOut records a payment against a vendor's balance.
	EntryTypeCashOut EntryType = "cash_out"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeSale, EntryTypePurchase, EntryTypeExpense, EntryTypeCashIn, EntryTypeCashOut:
		return true
	}
	return false
}

// PartySide returns the party type an entry of this kind may reference.
// Expense entries carry no party.
func (t EntryType) PartySide() (PartyType, bool) {
	switch t {
	case EntryTypeSale, EntryTypeCashIn:
		return PartyTypeClient, true
	case EntryTypePurchase, EntryTypeCashOut:
		return PartyTypeVendor, true
	}
	return "", false
}

// CategoryCOGS is the literal purchase category with accounting meaning:
// purchases tagged exactly "COGS" (case-sensitive) reduce trading profit.
const CategoryCOGS = "COGS"

// UnknownPartyName is the display sentinel for a missing or dangling party.
const UnknownPartyName = "-"

// Party is a client or vendor. Both collections share the shape; the
// collection a party lives in decides which side of the book it is on.
type Party struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
	// OpeningBalance is the balance attributed to the party before any
	// ledger entries exist: receivable for clients, payable for vendors.
	OpeningBalance numeric.Amount `json:"openingBalance"`
}

// LedgerEntry is one recorded financial event. Fields are stored as given;
// read-side computations tolerate semantically odd combinations rather than
// rejecting them.
type LedgerEntry struct {
	ID   string    `json:"id"`
	Date string    `json:"date"` // ISO YYYY-MM-DD; lexicographic order == chronological
	Type EntryType `json:"type"`
	// PartyType and PartyID reference a counterparty, or are null. The
	// reference is not enforced to exist: lookups resolve dangling ids to
	// a sentinel, never an error.
	PartyType *PartyType     `json:"partyType"`
	PartyID   *string        `json:"partyId"`
	Ref       string         `json:"ref"`
	Desc      string         `json:"desc"`
	Category  string         `json:"category"`
	Amount    numeric.Amount `json:"amount"`
	// Paid is the portion of Amount settled in cash at entry time. It is
	// not clamped to Amount; overpayment is recorded as-is.
	Paid   numeric.Amount `json:"paid"`
	Method string         `json:"method"`
}

// PartyRef returns the entry's party reference when it has one.
func (e LedgerEntry) PartyRef() (PartyType, string, bool) {
	if e.PartyType == nil || e.PartyID == nil {
		return "", "", false
	}
	return *e.PartyType, *e.PartyID, true
}

// References reports whether the entry points at the given party.
func (e LedgerEntry) References(t PartyType, id string) bool {
	pt, pid, ok := e.PartyRef()
	return ok && pt == t && pid == id
}

// Outstanding is Amount - Paid, the unsettled portion of a credit entry.
// It may be negative when the entry was overpaid.
func (e LedgerEntry) Outstanding() numeric.Amount {
	return e.Amount.Sub(e.Paid)
}

// Company holds the business profile carried in every snapshot.
type Company struct {
	Name                 string `json:"name"`
	Currency             string `json:"currency"`
	FiscalYearStartMonth int    `json:"fiscalYearStartMonth"`
}

// Snapshot is the interchange shape for persistence and import/export:
// the company profile plus the three flat collections.
type Snapshot struct {
	Company Company       `json:"company"`
	Clients []Party       `json:"clients"`
	Vendors []Party       `json:"vendors"`
	Ledger  []LedgerEntry `json:"ledger"`
}
