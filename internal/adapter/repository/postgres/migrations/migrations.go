// Package migrations embeds the SQL schema migrations applied with goose.
// Пакет migrations встраивает SQL миграции схемы, применяемые через goose.
package migrations

import "embed"

// FS holds every *.sql migration of the service.
//
//go:embed *.sql
var FS embed.FS
