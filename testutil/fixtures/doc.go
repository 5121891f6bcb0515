// Package fixtures provides content fixtures (posts, taxonomy terms) shared by
// the query engine and renderer test suites.
package fixtures
