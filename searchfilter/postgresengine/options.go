package postgresengine

import (
	"slices"

	"github.com/contentkit/searchfilter-go/searchfilter"
)

// Option defines a functional option for configuring ContentQuery.
type Option func(*ContentQuery) error

// WithTableNames sets the table names for posts, terms and the post/term
// relationship. Empty names are rejected.
func WithTableNames(postsTable, termsTable, postTermsTable string) Option {
	return func(cq *ContentQuery) error {
		if postsTable == "" || termsTable == "" || postTermsTable == "" {
			return searchfilter.ErrEmptyTableNameSupplied
		}

		cq.postsTableName = postsTable
		cq.termsTableName = termsTable
		cq.postTermsTableName = postTermsTable

		return nil
	}
}

// WithPerPage sets the number of posts per result page.
func WithPerPage(perPage uint) Option {
	return func(cq *ContentQuery) error {
		if perPage == 0 {
			return searchfilter.ErrInvalidPerPageSupplied
		}

		cq.perPage = perPage

		return nil
	}
}

// WithSearchMetaKeys sets the custom-field keys whose meta values the keyword
// search matches against in addition to title, excerpt and content.
// Empty keys are dropped.
func WithSearchMetaKeys(metaKeys ...string) Option {
	return func(cq *ContentQuery) error {
		keys := slices.Clone(metaKeys)
		keys = slices.DeleteFunc(keys, func(key string) bool { return key == "" })
		cq.searchMetaKeys = keys

		return nil
	}
}

// WithQueryArgsHook sets the hook that may mutate the query arguments after the
// request-to-query mapping and before SQL generation. The hook runs exactly once
// per executed query.
func WithQueryArgsHook(hook QueryArgsHook) Option {
	return func(cq *ContentQuery) error {
		cq.queryArgsHook = hook

		return nil
	}
}

// WithLogger sets the logger for the ContentQuery.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Post counts, durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger searchfilter.Logger) Option {
	return func(cq *ContentQuery) error {
		cq.logger = logger

		return nil
	}
}

// WithContextualLogger sets the contextual logger for the ContentQuery.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger searchfilter.ContextualLogger) Option {
	return func(cq *ContentQuery) error {
		cq.contextualLogger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the ContentQuery.
// The metrics collector will receive performance and operational metrics including
// query durations, result counts, and database errors.
func WithMetrics(collector searchfilter.MetricsCollector) Option {
	return func(cq *ContentQuery) error {
		cq.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the ContentQuery.
// The tracing collector will receive distributed tracing information including
// span creation for query operations, context propagation, and error tracking.
func WithTracing(collector searchfilter.TracingCollector) Option {
	return func(cq *ContentQuery) error {
		cq.tracingCollector = collector

		return nil
	}
}
