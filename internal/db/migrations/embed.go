package migrations

import "embed"

// FS holds the goose migrations applied to the history database.
//
//go:embed *.sql
var FS embed.FS
