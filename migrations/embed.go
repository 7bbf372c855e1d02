// Package migrations embeds the per-backend SQL schema files.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
