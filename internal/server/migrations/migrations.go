// Package migrations embeds the server PostgreSQL schema, applied with goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
