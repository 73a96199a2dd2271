// Package postgres implements the internal/store repositories on PostgreSQL.
//
// Connections go through the pgx database/sql driver so that every store can
// be bound to either a *sql.DB or a *sql.Tx. The schema lives in the embedded
// goose migrations under migrations/ and is applied with Migrate.
package postgres
