// Package migrations embeds the SQL schema applied by internal/database/migration.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
