// Package migrations embeds the master registry schema.
package migrations

import "embed"

// FS holds the numbered up and down scripts
//
//go:embed *.sql
var FS embed.FS
