package httpapi

import (
	"context"

	"github.com/khatalabs/khata/internal/khata"
)

// SnapshotStore abstracts whole-store export and import.
type SnapshotStore interface {
	// Snapshot returns a deep copy of the full store state.
	Snapshot(ctx context.Context) (khata.Snapshot, error)
	// ReplaceSnapshot swaps the entire store state for the given snapshot.
	ReplaceSnapshot(ctx context.Context, snap khata.Snapshot) error
}

// CompanyStore abstracts the company profile.
type CompanyStore interface {
	Company(ctx context.Context) (khata.Company, error)
	SetCompany(ctx context.Context, c khata.Company) error
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
