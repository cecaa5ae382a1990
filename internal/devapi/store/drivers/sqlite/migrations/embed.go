// Package migrations embeds the development API schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
