// Package database provides connection pool management for PostgreSQL.
//
// The pool backs the postgres ticker store (cache.backend: postgres).
package database
