// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database: locating it from the environment, applying the
// embedded migrations once per process, and running each test inside a
// transaction that is rolled back afterwards.
//
// Tests using it carry the integration build tag and are skipped when no
// database URL is configured.
package testdb
