// Package migrations embeds the versioned schema applied by goose at
// startup. Schema changes are new numbered files, never edits to old ones.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
