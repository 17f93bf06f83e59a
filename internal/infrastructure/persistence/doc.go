// Package persistence provides the GORM-backed key-material repository the
// registry uses as its repair fallback, together with the database
// connection helpers for SQLite and PostgreSQL.
package persistence
