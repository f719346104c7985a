package postgres

import (
	"github.com/khatalabs/khata/internal/service/books"
	"github.com/khatalabs/khata/internal/service/entry"
	"github.com/khatalabs/khata/internal/service/party"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	_ party.Repo   = (*Store)(nil)
	_ party.Writer = (*Store)(nil)
	_ entry.Repo   = (*Store)(nil)
	_ entry.Writer = (*Store)(nil)
	_ books.Repo   = (*Store)(nil)
)
