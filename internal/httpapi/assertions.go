package httpapi

import (
	"github.com/khatalabs/khata/internal/storage/memory"
	"github.com/khatalabs/khata/internal/storage/postgres"
)

// Compile-time interface assertions for the storage backends against the
// HTTP API interfaces.
var (
	_ SnapshotStore = (*memory.Store)(nil)
	_ CompanyStore  = (*memory.Store)(nil)
	_ SnapshotStore = (*postgres.Store)(nil)
	_ CompanyStore  = (*postgres.Store)(nil)
	_ ReadyChecker  = (*postgres.Store)(nil)
)
