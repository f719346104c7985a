// Package books is the aggregation and reporting core. Every figure is a
// pure function of a store snapshot fetched at call time: no caches, no
// incremental state, a fresh full scan per call. Nothing in this package
// returns an error for malformed records; a report is always produced.
//
// Scans are O(entries) per total and O(entries x parties) for the combined
// receivable/payable sums, which is fine at a few thousand entries. A much
// larger ledger would need a single-pass per-party index here.
package books

import (
	"context"
	"errors"
	"io"

	"github.com/khatalabs/khata/internal/errs"
	"github.com/khatalabs/khata/internal/khata"
	"github.com/khatalabs/khata/internal/numeric"
)

// Repo defines the read-side snapshot the core computes over.
type Repo interface {
	ListParties(ctx context.Context, t khata.PartyType) ([]khata.Party, error)
	GetParty(ctx context.Context, t khata.PartyType, id string) (khata.Party, error)
	ListEntries(ctx context.Context) ([]khata.LedgerEntry, error)
}

// Totals are the global sums derived from the full entry collection.
type Totals struct {
	Sales      numeric.Amount `json:"sales"`
	Purchases  numeric.Amount `json:"purchases"`
	COGS       numeric.Amount `json:"cogs"`
	Expenses   numeric.Amount `json:"expenses"`
	CashIn     numeric.Amount `json:"cashIn"`
	CashOut    numeric.Amount `json:"cashOut"`
	Cash       numeric.Amount `json:"cash"`
	Receivable numeric.Amount `json:"receivable"`
	Payable    numeric.Amount `json:"payable"`
	Profit     numeric.Amount `json:"profit"`
}

// BalanceSheetLine is one labelled figure in a balance sheet section.
type BalanceSheetLine struct {
	Label  string         `json:"label"`
	Amount numeric.Amount `json:"amount"`
}

// BalanceSheet is the minimal statement the ledger supports: cash and
// receivables on one side, payables on the other, equity the difference.
type BalanceSheet struct {
	Assets           []BalanceSheetLine `json:"assets"`
	Liabilities      []BalanceSheetLine `json:"liabilities"`
	TotalAssets      numeric.Amount     `json:"totalAssets"`
	TotalLiabilities numeric.Amount     `json:"totalLiabilities"`
	Equity           numeric.Amount     `json:"equity"`
}

// CashFlow summarises cash movement over the whole ledger.
type CashFlow struct {
	FromSales   numeric.Amount `json:"cashFromSales"`
	ToSuppliers numeric.Amount `json:"cashToSuppliers"`
	ToExpenses  numeric.Amount `json:"cashToExpenses"`
	Net         numeric.Amount `json:"net"`
}

// Service exposes the reporting surface the presentation layer needs.
type Service interface {
	BalanceOf(ctx context.Context, t khata.PartyType, id string) (numeric.Amount, error)
	Totals(ctx context.Context) (Totals, error)
	BalanceSheet(ctx context.Context) (BalanceSheet, error)
	CashFlow(ctx context.Context) (CashFlow, error)
	ExportCSV(ctx context.Context, w io.Writer, f CSVFilter) error
}

type service struct {
	repo Repo
}

func New(repo Repo) Service { return &service{repo: repo} }

// BalanceOf computes a party's running balance. A missing or deleted party
// resolves to the zero sentinel rather than an error: its entries still
// count toward the type aggregates, but there is no party balance to report.
// Store failures are not "missing" and propagate.
func (s *service) BalanceOf(ctx context.Context, t khata.PartyType, id string) (numeric.Amount, error) {
	p, err := s.repo.GetParty(ctx, t, id)
	if errors.Is(err, errs.ErrNotFound) {
		return numeric.Zero(), nil
	}
	if err != nil {
		return numeric.Zero(), err
	}
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return numeric.Zero(), err
	}
	return BalanceFor(t, id, p.OpeningBalance, entries), nil
}

func (s *service) Totals(ctx context.Context) (Totals, error) {
	clients, vendors, entries, err := s.load(ctx)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(clients, vendors, entries), nil
}

func (s *service) BalanceSheet(ctx context.Context) (BalanceSheet, error) {
	t, err := s.Totals(ctx)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(t), nil
}

func (s *service) CashFlow(ctx context.Context) (CashFlow, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return CashFlow{}, err
	}
	return ComputeCashFlow(entries), nil
}

// load fetches the collections once so a whole report computes over a
// single consistent snapshot.
func (s *service) load(ctx context.Context) ([]khata.Party, []khata.Party, []khata.LedgerEntry, error) {
	clients, err := s.repo.ListParties(ctx, khata.PartyTypeClient)
	if err != nil {
		return nil, nil, nil, err
	}
	vendors, err := s.repo.ListParties(ctx, khata.PartyTypeVendor)
	if err != nil {
		return nil, nil, nil, err
	}
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return clients, vendors, entries, nil
}

// BalanceFor computes a single party balance from its opening balance and
// the entries that reference it. For a client, sales add their outstanding
// portion and receipts subtract their full amount; for a vendor, purchases
// add and payments subtract. Order does not matter; the result may be
// negative (overpayment) and is reported as-is.
func BalanceFor(t khata.PartyType, id string, opening numeric.Amount, entries []khata.LedgerEntry) numeric.Amount {
	bal := opening
	for _, e := range entries {
		if !e.References(t, id) {
			continue
		}
		switch t {
		case khata.PartyTypeClient:
			switch e.Type {
			case khata.EntryTypeSale:
				bal = bal.Add(e.Outstanding())
			case khata.EntryTypeCashIn:
				bal = bal.Sub(e.Amount)
			}
		case khata.PartyTypeVendor:
			switch e.Type {
			case khata.EntryTypePurchase:
				bal = bal.Add(e.Outstanding())
			case khata.EntryTypeCashOut:
				bal = bal.Sub(e.Amount)
			}
		}
	}
	return bal
}

// ComputeTotals derives all global sums in one pass over the entries plus
// one BalanceFor scan per stored party.
//
// Cash models inflow from settled sales and receipts minus outflow for
// settled purchases, all expenses (assumed cash), and payments. Profit is
// the simplified trading figure sales - COGS - expenses: purchases not
// tagged COGS are treated as capitalized and do not reduce profit.
func ComputeTotals(clients, vendors []khata.Party, entries []khata.LedgerEntry) Totals {
	var t Totals
	var salesPaid, purchasesPaid numeric.Amount
	for _, e := range entries {
		switch e.Type {
		case khata.EntryTypeSale:
			t.Sales = t.Sales.Add(e.Amount)
			salesPaid = salesPaid.Add(e.Paid)
		case khata.EntryTypePurchase:
			t.Purchases = t.Purchases.Add(e.Amount)
			purchasesPaid = purchasesPaid.Add(e.Paid)
			if e.Category == khata.CategoryCOGS {
				t.COGS = t.COGS.Add(e.Amount)
			}
		case khata.EntryTypeExpense:
			t.Expenses = t.Expenses.Add(e.Amount)
		case khata.EntryTypeCashIn:
			t.CashIn = t.CashIn.Add(e.Amount)
		case khata.EntryTypeCashOut:
			t.CashOut = t.CashOut.Add(e.Amount)
		}
	}
	t.Cash = salesPaid.Add(t.CashIn).Sub(purchasesPaid.Add(t.Expenses).Add(t.CashOut))
	for _, c := range clients {
		t.Receivable = t.Receivable.Add(BalanceFor(khata.PartyTypeClient, c.ID, c.OpeningBalance, entries))
	}
	for _, v := range vendors {
		t.Payable = t.Payable.Add(BalanceFor(khata.PartyTypeVendor, v.ID, v.OpeningBalance, entries))
	}
	t.Profit = t.Sales.Sub(t.COGS).Sub(t.Expenses)
	return t
}

// BuildBalanceSheet composes totals into the two-sided statement. No other
// asset or liability classes exist; the ledger tracks nothing else.
func BuildBalanceSheet(t Totals) BalanceSheet {
	bs := BalanceSheet{
		Assets: []BalanceSheetLine{
			{Label: "Cash", Amount: t.Cash},
			{Label: "Receivable", Amount: t.Receivable},
		},
		Liabilities: []BalanceSheetLine{
			{Label: "Payable", Amount: t.Payable},
		},
	}
	for _, l := range bs.Assets {
		bs.TotalAssets = bs.TotalAssets.Add(l.Amount)
	}
	for _, l := range bs.Liabilities {
		bs.TotalLiabilities = bs.TotalLiabilities.Add(l.Amount)
	}
	bs.Equity = bs.TotalAssets.Sub(bs.TotalLiabilities)
	return bs
}

// ComputeCashFlow derives the cash flow statement. Net is computed by the
// same formula as Totals.Cash and the two must always agree.
func ComputeCashFlow(entries []khata.LedgerEntry) CashFlow {
	var cf CashFlow
	for _, e := range entries {
		switch e.Type {
		case khata.EntryTypeSale:
			cf.FromSales = cf.FromSales.Add(e.Paid)
		case khata.EntryTypeCashIn:
			cf.FromSales = cf.FromSales.Add(e.Amount)
		case khata.EntryTypePurchase:
			cf.ToSuppliers = cf.ToSuppliers.Add(e.Paid)
		case khata.EntryTypeCashOut:
			cf.ToSuppliers = cf.ToSuppliers.Add(e.Amount)
		case khata.EntryTypeExpense:
			cf.ToExpenses = cf.ToExpenses.Add(e.Amount)
		}
	}
	cf.Net = cf.FromSales.Sub(cf.ToSuppliers).Sub(cf.ToExpenses)
	return cf
}
