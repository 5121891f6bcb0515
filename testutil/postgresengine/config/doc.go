// Package config provides PostgreSQL database configuration for content query testing.
//
// This package contains factory functions for creating database connections using
// the supported PostgreSQL adapters (pgx.Pool, sql.DB, sqlx.DB) with pre-configured
// test database DSNs, including a primary/replica pair for testing read routing.
package config
