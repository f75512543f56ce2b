// Package migrations embeds the goose SQL migrations for the logbook schema.
// cmd/dbtool and the integration tests apply them from FS.
package migrations

import "embed"

// FS holds every *.sql migration, applied in filename order.
//
//go:embed *.sql
var FS embed.FS
