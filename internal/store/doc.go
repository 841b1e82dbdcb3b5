// Package store persists the star schema through database/sql.
//
// Two dialects are supported: SQLite through the pure-Go modernc.org/sqlite
// driver (the default, a single database file) and PostgreSQL through the pgx
// stdlib driver. The schema script drops and recreates every table, each
// Append runs in its own transaction, and the connection pool is pinned to one
// connection because the load is strictly sequential.
package store
