// Package migrations embeds the goose migrations used by the sql backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
