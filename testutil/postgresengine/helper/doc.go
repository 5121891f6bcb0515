// Package helper provides testing utilities for the PostgreSQL content query engine.
//
// This package contains shared testing infrastructure including custom log handlers
// for capturing and validating log output during tests, and spy implementations of
// the observability interfaces used across the content query test suite.
package helper
