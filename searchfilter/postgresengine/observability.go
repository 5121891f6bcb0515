package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/contentkit/searchfilter-go/searchfilter"
)

const (
	metricQueryDuration  = "searchfilter_query_duration_seconds"
	metricRowsReturned   = "searchfilter_rows_returned"
	metricDatabaseErrors = "searchfilter_database_errors_total"

	spanNameQuery      = "searchfilter.query"
	spanAttrOperation  = "operation"
	spanAttrPostCount  = "post_count"
	spanAttrTotalCount = "total_count"
	spanAttrDurationMS = "duration_ms"
	spanAttrErrorType  = "error_type"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery = "build_query"
	errorTypeDatabase   = "database"
	errorTypeScanRow    = "scan_row"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (cq *ContentQuery) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if cq.logger != nil {
		cq.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, cq.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (cq *ContentQuery) logOperation(action string, args ...any) {
	if cq.logger != nil {
		cq.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (cq *ContentQuery) logError(
	message string,
	err error,
	args ...any,
) {
	if cq.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		cq.logger.Error(message, allArgs...)
	}
}

// logQueryWithDurationContext logs SQL queries with execution time and context correlation.
func (cq *ContentQuery) logQueryWithDurationContext(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if cq.contextualLogger != nil {
		cq.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, cq.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperationContext logs operational information with context correlation.
func (cq *ContentQuery) logOperationContext(ctx context.Context, action string, args ...any) {
	if cq.contextualLogger != nil {
		cq.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logErrorContext logs error information with context correlation.
func (cq *ContentQuery) logErrorContext(
	ctx context.Context,
	message string,
	err error,
	args ...any,
) {
	if cq.contextualLogger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		cq.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (cq *ContentQuery) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (cq *ContentQuery) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if cq.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := cq.metricsCollector.(searchfilter.ContextualMetricsCollector); ok {
			contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		} else {
			cq.metricsCollector.RecordDuration(metricName, duration, labels)
		}
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (cq *ContentQuery) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if cq.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := cq.metricsCollector.(searchfilter.ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		} else {
			cq.metricsCollector.RecordValue(metricName, value, labels)
		}
	}
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (cq *ContentQuery) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if cq.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}

		// Use context-aware method if available
		if contextualCollector, ok := cq.metricsCollector.(searchfilter.ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		} else {
			cq.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
		}
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (cq *ContentQuery) startTraceSpan(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, searchfilter.SpanContext) {
	if cq.tracingCollector != nil {
		return cq.tracingCollector.StartSpan(ctx, operation, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (cq *ContentQuery) finishTraceSpan(
	spanCtx searchfilter.SpanContext,
	status string,
	attrs map[string]string,
) {
	if cq.tracingCollector != nil && spanCtx != nil {
		cq.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// === Tracing Observer Pattern ===
// The observer encapsulates tracing span lifecycle management for query operations.

type queryTracingObserver struct {
	cq   *ContentQuery
	span searchfilter.SpanContext
}

// startQueryTracing creates a new tracing observer for query operations.
func (cq *ContentQuery) startQueryTracing(ctx context.Context) (*queryTracingObserver, context.Context) {
	spanAttrs := map[string]string{
		spanAttrOperation: operationQuery,
	}

	newCtx, span := cq.startTraceSpan(ctx, spanNameQuery, spanAttrs)

	return &queryTracingObserver{cq: cq, span: span}, newCtx
}

// finishSuccess completes the query tracing span for successful operations.
func (qto *queryTracingObserver) finishSuccess(
	postCount int,
	totalCount searchfilter.TotalCountUint,
	duration time.Duration,
) {
	if qto.span == nil {
		return
	}

	qto.span.SetStatus(statusSuccess)
	qto.span.AddAttribute(spanAttrPostCount, fmt.Sprintf("%d", postCount))
	qto.span.AddAttribute(spanAttrTotalCount, fmt.Sprintf("%d", totalCount))
	qto.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", qto.cq.toMilliseconds(duration)))

	qto.cq.finishTraceSpan(qto.span, statusSuccess, map[string]string{
		spanAttrPostCount:  fmt.Sprintf("%d", postCount),
		spanAttrTotalCount: fmt.Sprintf("%d", totalCount),
	})
}

// finishError completes the query tracing span with error details.
func (qto *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	if qto.span == nil {
		return
	}

	qto.span.SetStatus(statusError)
	qto.span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		qto.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", qto.cq.toMilliseconds(duration)))
	}

	qto.cq.finishTraceSpan(qto.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// === Metrics Observer Pattern ===
// The observer encapsulates the metrics collection for one engine operation.

type operationMetricsObserver struct {
	cq        *ContentQuery
	ctx       context.Context
	operation string
}

// startOperationMetrics creates a new metrics observer for the given operation.
func (cq *ContentQuery) startOperationMetrics(ctx context.Context, operation string) *operationMetricsObserver {
	return &operationMetricsObserver{cq: cq, ctx: ctx, operation: operation}
}

// recordSuccess records all metrics for a successful operation.
func (omo *operationMetricsObserver) recordSuccess(rowCount float64, duration time.Duration) {
	omo.cq.recordDurationMetricsContext(omo.ctx, metricQueryDuration, duration, omo.operation, statusSuccess)
	omo.cq.recordValueMetricsContext(omo.ctx, metricRowsReturned, rowCount, omo.operation, statusSuccess)
}

// recordError records all metrics for a failed operation.
func (omo *operationMetricsObserver) recordError(errorType string, duration time.Duration) {
	omo.cq.recordDurationMetricsContext(omo.ctx, metricQueryDuration, duration, omo.operation, statusError)
	omo.cq.recordErrorMetricsContext(omo.ctx, omo.operation, errorType)
}
