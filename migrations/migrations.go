// Package migrations embeds the SQL schema for the database-backed key-value stores.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
