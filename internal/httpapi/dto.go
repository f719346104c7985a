package httpapi

import (
	"github.com/khatalabs/khata/internal/khata"
	"github.com/khatalabs/khata/internal/numeric"
)

// Responses reuse the domain types directly: their JSON tags are the
// snapshot interchange shape, so what the API returns is exactly what an
// export would contain.

type partyRequest struct {
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	Notes          string         `json:"notes"`
	OpeningBalance numeric.Amount `json:"openingBalance"`
}

func (r partyRequest) toParty(id string) khata.Party {
	return khata.Party{
		ID:             id,
		Name:           r.Name,
		Phone:          r.Phone,
		Address:        r.Address,
		Notes:          r.Notes,
		OpeningBalance: r.OpeningBalance,
	}
}

type entryRequest struct {
	Date      string           `json:"date"`
	Type      khata.EntryType  `json:"type"`
	PartyType *khata.PartyType `json:"partyType"`
	PartyID   *string          `json:"partyId"`
	Ref       string           `json:"ref"`
	Desc      string           `json:"desc"`
	Category  string           `json:"category"`
	Amount    numeric.Amount   `json:"amount"`
	Paid      numeric.Amount   `json:"paid"`
	Method    string           `json:"method"`
}

func (r entryRequest) toEntry(id string) khata.LedgerEntry {
	return khata.LedgerEntry{
		ID:        id,
		Date:      r.Date,
		Type:      r.Type,
		PartyType: r.PartyType,
		PartyID:   r.PartyID,
		Ref:       r.Ref,
		Desc:      r.Desc,
		Category:  r.Category,
		Amount:    r.Amount,
		Paid:      r.Paid,
		Method:    r.Method,
	}
}

// balanceResponse is the payload of the per-party balance endpoint.
type balanceResponse struct {
	PartyType khata.PartyType `json:"partyType"`
	PartyID   string          `json:"partyId"`
	Name      string          `json:"name"`
	Balance   numeric.Amount  `json:"balance"`
}

// importResponse summarises a successful snapshot import.
type importResponse struct {
	Clients int `json:"clients"`
	Vendors int `json:"vendors"`
	Entries int `json:"entries"`
}
