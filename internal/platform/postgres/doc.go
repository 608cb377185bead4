// Package postgres implements store.ItemStore on PostgreSQL through
// database/sql with the pgx stdlib driver, maps driver errors to store
// sentinels, and embeds the goose migrations for the items table.
package postgres
