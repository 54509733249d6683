// Package migrations embeds the numbered schema files applied by db.OpenSQLite.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
