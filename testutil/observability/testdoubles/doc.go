// Package testdoubles provides test doubles (spies) for observability interfaces.
//
// This package contains spy implementations for OpenTelemetry-compatible observability
// interfaces used by the content query engine, enabling tests of observability
// instrumentation without requiring actual telemetry backends.
package testdoubles
