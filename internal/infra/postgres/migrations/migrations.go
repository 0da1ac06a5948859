// Package migrations holds the bun migrations for profiles and the word bank.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
