package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/searchfilter-go/searchfilter"
	"github.com/contentkit/searchfilter-go/searchfilter/postgresengine/internal/adapters"
	"github.com/contentkit/searchfilter-go/testutil/observability/testdoubles"
	"github.com/contentkit/searchfilter-go/testutil/postgresengine/helper"
)

/***** test doubles for the database adapter *****/

type fakeRows struct {
	rows     [][]any
	idx      int
	scanErr  error
	closeErr error
}

func (r *fakeRows) Next() bool {
	r.idx++

	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}

	row := r.rows[r.idx-1]
	for i, d := range dest {
		switch target := d.(type) {
		case *int64:
			*target = row[i].(int64)
		case *string:
			*target = row[i].(string)
		case *time.Time:
			*target = row[i].(time.Time)
		case *[]byte:
			*target = row[i].([]byte)
		case *uint:
			*target = row[i].(uint)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}

	return nil
}

func (r *fakeRows) Close() error {
	return r.closeErr
}

type fakeDBAdapter struct {
	queries  []string
	rows     *fakeRows
	queryErr error
}

func (a *fakeDBAdapter) Query(_ context.Context, query string) (adapters.DBRows, error) {
	a.queries = append(a.queries, query)

	if a.queryErr != nil {
		return nil, a.queryErr
	}

	return a.rows, nil
}

func postRow(id int64, postType, title string) []any {
	return []any{
		id,
		postType,
		title,
		"/" + title,
		"excerpt",
		time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
		[]byte(`{}`),
		uint(25),
	}
}

/***** constructors and options *****/

func Test_Constructors_RejectNilConnections(t *testing.T) {
	_, pgxErr := NewContentQueryFromPGXPool(nil)
	assert.ErrorIs(t, pgxErr, searchfilter.ErrNilDatabaseConnection)

	_, sqlErr := NewContentQueryFromSQLDB(nil)
	assert.ErrorIs(t, sqlErr, searchfilter.ErrNilDatabaseConnection)

	_, sqlxErr := NewContentQueryFromSQLX(nil)
	assert.ErrorIs(t, sqlxErr, searchfilter.ErrNilDatabaseConnection)
}

func Test_Options_Validation(t *testing.T) {
	tests := []struct {
		name        string
		option      Option
		expectedErr error
	}{
		{
			name:        "empty_posts_table_name_is_rejected",
			option:      WithTableNames("", "terms", "post_terms"),
			expectedErr: searchfilter.ErrEmptyTableNameSupplied,
		},
		{
			name:        "empty_terms_table_name_is_rejected",
			option:      WithTableNames("posts", "", "post_terms"),
			expectedErr: searchfilter.ErrEmptyTableNameSupplied,
		},
		{
			name:        "empty_post_terms_table_name_is_rejected",
			option:      WithTableNames("posts", "terms", ""),
			expectedErr: searchfilter.ErrEmptyTableNameSupplied,
		},
		{
			name:        "zero_per_page_is_rejected",
			option:      WithPerPage(0),
			expectedErr: searchfilter.ErrInvalidPerPageSupplied,
		},
		{
			name:        "valid_table_names_are_accepted",
			option:      WithTableNames("contents", "labels", "content_labels"),
			expectedErr: nil,
		},
		{
			name:        "valid_per_page_is_accepted",
			option:      WithPerPage(25),
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newContentQuery(&fakeDBAdapter{}, tt.option)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_WithSearchMetaKeys_DropsEmptyKeys(t *testing.T) {
	cq, err := newContentQuery(&fakeDBAdapter{}, WithSearchMetaKeys("price", "", "sku"))

	require.NoError(t, err)
	assert.Equal(t, []string{"price", "sku"}, cq.searchMetaKeys)
}

/***** SQL generation *****/

func selectionForSQLTests() searchfilter.Selection {
	return searchfilter.BuildSelection().
		WithKeyword("gophers").
		OnPage(2).
		Matching().
		AnyPostTypeOf("post", "page").
		AndAnyTermOf("category", 10, 11).
		AndAnyTermOf("post_tag", 20).
		Finalize()
}

func Test_BuildSelectQuery_ContainsAllClauses(t *testing.T) {
	cq, err := newContentQuery(&fakeDBAdapter{}, WithSearchMetaKeys("price"))
	require.NoError(t, err)

	args := cq.queryArgsFromSelection(selectionForSQLTests())
	sqlQuery, buildErr := cq.buildSelectQuery(args)
	require.NoError(t, buildErr)

	assert.Contains(t, sqlQuery, `"posts"."status" = 'published'`)
	assert.Contains(t, sqlQuery, `"posts"."post_type" IN ('page', 'post')`)
	assert.Contains(t, sqlQuery, `EXISTS`)
	assert.Contains(t, sqlQuery, `"post_terms"."term_id" IN (10, 11)`)
	assert.Contains(t, sqlQuery, `"post_terms"."term_id" IN (20)`)
	assert.Contains(t, sqlQuery, `ILIKE`)
	assert.Contains(t, sqlQuery, `%gophers%`)
	assert.Contains(t, sqlQuery, `meta ->> 'price'`)
	assert.Contains(t, sqlQuery, `count(*) OVER () AS "total_count"`)
	assert.Contains(t, sqlQuery, `ORDER BY "posts"."published_at" DESC, "posts"."id" DESC`)
	assert.Contains(t, sqlQuery, `LIMIT 10`)
	assert.Contains(t, sqlQuery, `OFFSET 10`)
}

func Test_BuildSelectQuery_EmptySelectionMatchesAnyPublishedPost(t *testing.T) {
	cq, err := newContentQuery(&fakeDBAdapter{})
	require.NoError(t, err)

	args := cq.queryArgsFromSelection(searchfilter.BuildSelection().MatchingAnyPost())
	sqlQuery, buildErr := cq.buildSelectQuery(args)
	require.NoError(t, buildErr)

	assert.Contains(t, sqlQuery, `"posts"."status" = 'published'`)
	assert.NotContains(t, sqlQuery, `"post_type" IN`)
	assert.NotContains(t, sqlQuery, `EXISTS`)
	assert.NotContains(t, sqlQuery, `ILIKE`)
	assert.Contains(t, sqlQuery, `LIMIT 10`)
	assert.NotContains(t, sqlQuery, `OFFSET`)
}

func Test_BuildSelectQuery_UsesConfiguredTableNames(t *testing.T) {
	cq, err := newContentQuery(
		&fakeDBAdapter{},
		WithTableNames("contents", "labels", "content_labels"),
	)
	require.NoError(t, err)

	args := cq.queryArgsFromSelection(selectionForSQLTests())
	sqlQuery, buildErr := cq.buildSelectQuery(args)
	require.NoError(t, buildErr)

	assert.Contains(t, sqlQuery, `FROM "contents"`)
	assert.Contains(t, sqlQuery, `"content_labels"."post_id" = "contents"."id"`)
	assert.NotContains(t, sqlQuery, `"posts"`)
}

func Test_BuildSelectQuery_EscapesLikeWildcards(t *testing.T) {
	cq, err := newContentQuery(&fakeDBAdapter{})
	require.NoError(t, err)

	selection := searchfilter.BuildSelection().
		WithKeyword(`50%_off\`).
		Finalize()

	args := cq.queryArgsFromSelection(selection)
	sqlQuery, buildErr := cq.buildSelectQuery(args)
	require.NoError(t, buildErr)

	assert.Contains(t, sqlQuery, `50\%\_off\\`)
}

func Test_BuildSelectQuery_QuotesMetaKeys(t *testing.T) {
	cq, err := newContentQuery(&fakeDBAdapter{}, WithSearchMetaKeys("o'reilly"))
	require.NoError(t, err)

	selection := searchfilter.BuildSelection().
		WithKeyword("gophers").
		Finalize()

	args := cq.queryArgsFromSelection(selection)
	sqlQuery, buildErr := cq.buildSelectQuery(args)
	require.NoError(t, buildErr)

	assert.Contains(t, sqlQuery, `meta ->> 'o''reilly'`)
	assert.NotContains(t, sqlQuery, `'o'reilly'`)
}

/***** query execution *****/

func Test_Query_ReturnsResultPage(t *testing.T) {
	adapter := &fakeDBAdapter{
		rows: &fakeRows{rows: [][]any{
			postRow(1, "post", "first"),
			postRow(2, "post", "second"),
		}},
	}

	cq, err := newContentQuery(adapter)
	require.NoError(t, err)

	selection := searchfilter.BuildSelection().
		OnPage(2).
		Matching().
		AnyPostTypeOf("post").
		Finalize()

	resultPage, queryErr := cq.Query(context.Background(), selection)

	require.NoError(t, queryErr)
	assert.Len(t, resultPage.Posts, 2)
	assert.Equal(t, "first", resultPage.Posts[0].Title)
	assert.Equal(t, uint(25), resultPage.TotalCount)
	assert.Equal(t, uint(2), resultPage.CurrentPage)
	assert.Equal(t, uint(10), resultPage.PerPage)
	assert.Len(t, adapter.queries, 1)
}

func Test_Query_AppliesQueryArgsHookExactlyOnce(t *testing.T) {
	adapter := &fakeDBAdapter{rows: &fakeRows{}}

	hookCalls := 0
	hook := func(args QueryArgs) QueryArgs {
		hookCalls++
		args.PostTypes = []string{"event"}

		return args
	}

	cq, err := newContentQuery(adapter, WithQueryArgsHook(hook))
	require.NoError(t, err)

	selection := searchfilter.BuildSelection().
		Matching().
		AnyPostTypeOf("post").
		Finalize()

	_, queryErr := cq.Query(context.Background(), selection)

	require.NoError(t, queryErr)
	assert.Equal(t, 1, hookCalls)
	require.Len(t, adapter.queries, 1)
	assert.Contains(t, adapter.queries[0], `'event'`)
	assert.NotContains(t, adapter.queries[0], `'post'`)
}

func Test_Query_DatabaseError_IsWrapped(t *testing.T) {
	adapter := &fakeDBAdapter{queryErr: errors.New("connection refused")}

	cq, err := newContentQuery(adapter)
	require.NoError(t, err)

	_, queryErr := cq.Query(context.Background(), searchfilter.BuildSelection().MatchingAnyPost())

	assert.ErrorIs(t, queryErr, searchfilter.ErrQueryingPostsFailed)
}

func Test_Query_ScanError_IsWrapped(t *testing.T) {
	adapter := &fakeDBAdapter{
		rows: &fakeRows{
			rows:    [][]any{postRow(1, "post", "first")},
			scanErr: errors.New("bad row"),
		},
	}

	cq, err := newContentQuery(adapter)
	require.NoError(t, err)

	_, queryErr := cq.Query(context.Background(), searchfilter.BuildSelection().MatchingAnyPost())

	assert.ErrorIs(t, queryErr, searchfilter.ErrScanningDBRowFailed)
}

func Test_Terms_ReturnsTaxonomyVocabulary(t *testing.T) {
	adapter := &fakeDBAdapter{
		rows: &fakeRows{rows: [][]any{
			{int64(11), "category", "databases", "Databases", uint(7)},
			{int64(10), "category", "go", "Go", uint(12)},
		}},
	}

	cq, err := newContentQuery(adapter)
	require.NoError(t, err)

	terms, termsErr := cq.Terms(context.Background(), "category")

	require.NoError(t, termsErr)
	require.Len(t, terms, 2)
	assert.Equal(t, int64(11), terms[0].ID)
	assert.Equal(t, "Databases", terms[0].Name)
	assert.Equal(t, uint(12), terms[1].Count)

	require.Len(t, adapter.queries, 1)
	assert.Contains(t, adapter.queries[0], `FROM "terms"`)
	assert.Contains(t, adapter.queries[0], `"taxonomy" = 'category'`)
	assert.Contains(t, adapter.queries[0], `ORDER BY "name" ASC`)
}

func Test_PostTypes_ReturnsDistinctPublishedTypes(t *testing.T) {
	adapter := &fakeDBAdapter{
		rows: &fakeRows{rows: [][]any{
			{"page"},
			{"post"},
		}},
	}

	cq, err := newContentQuery(adapter)
	require.NoError(t, err)

	postTypes, typesErr := cq.PostTypes(context.Background())

	require.NoError(t, typesErr)
	assert.Equal(t, []string{"page", "post"}, postTypes)

	require.Len(t, adapter.queries, 1)
	assert.Contains(t, adapter.queries[0], `SELECT DISTINCT`)
	assert.Contains(t, adapter.queries[0], `'published'`)
}

/***** observability *****/

func Test_Query_EmitsLogsMetricsAndTraces(t *testing.T) {
	adapter := &fakeDBAdapter{
		rows: &fakeRows{rows: [][]any{postRow(1, "post", "first")}},
	}

	logSpy := helper.NewLogHandlerSpy(false)
	metricsSpy := helper.NewMetricsCollectorSpy(true)
	tracingSpy := helper.NewTracingCollectorSpy(true)

	cq, err := newContentQuery(
		adapter,
		WithLogger(slog.New(logSpy)),
		WithMetrics(metricsSpy),
		WithTracing(tracingSpy),
	)
	require.NoError(t, err)

	_, queryErr := cq.Query(context.Background(), searchfilter.BuildSelection().MatchingAnyPost())
	require.NoError(t, queryErr)

	assert.True(t, logSpy.HasDebugLogWithMessage("executed sql for: query").WithDurationMS().Assert())
	assert.True(t, logSpy.HasInfoLogWithMessage("content query operation: query completed").
		WithPostCount().
		WithTotalCount().
		WithDurationMS().
		Assert())

	assert.True(t, metricsSpy.HasDurationRecordForMetric("searchfilter_query_duration_seconds").
		WithOperation("query").
		WithStatus("success").
		Assert())
	assert.True(t, metricsSpy.HasValueRecordForMetric("searchfilter_rows_returned").
		WithOperation("query").
		Assert())

	assert.True(t, tracingSpy.HasSpanRecordForName("searchfilter.query").
		WithStatus("success").
		WithStartAttribute("operation", "query").
		WithSpanAttribute("post_count", "1").
		Assert())
}

func Test_Query_DatabaseError_EmitsErrorMetrics(t *testing.T) {
	adapter := &fakeDBAdapter{queryErr: errors.New("connection refused")}

	logSpy := helper.NewLogHandlerSpy(false)
	metricsSpy := helper.NewMetricsCollectorSpy(true)

	cq, err := newContentQuery(
		adapter,
		WithLogger(slog.New(logSpy)),
		WithMetrics(metricsSpy),
	)
	require.NoError(t, err)

	_, queryErr := cq.Query(context.Background(), searchfilter.BuildSelection().MatchingAnyPost())
	require.Error(t, queryErr)

	assert.True(t, logSpy.HasErrorLog("database query execution failed"))
	assert.True(t, metricsSpy.HasCounterRecordForMetric("searchfilter_database_errors_total").
		WithOperation("query").
		WithErrorType("database").
		Assert())
}

func Test_Query_EmitsContextualLogs(t *testing.T) {
	adapter := &fakeDBAdapter{
		rows: &fakeRows{rows: [][]any{postRow(1, "post", "first")}},
	}

	loggerSpy := testdoubles.NewContextualLoggerSpy(true)

	cq, err := newContentQuery(adapter, WithContextualLogger(loggerSpy))
	require.NoError(t, err)

	_, queryErr := cq.Query(context.Background(), searchfilter.BuildSelection().MatchingAnyPost())
	require.NoError(t, queryErr)

	assert.True(t, loggerSpy.HasDebugLog("executed sql for: query"))
	assert.True(t, loggerSpy.HasInfoLog("content query operation: query completed"))
	assert.Zero(t, len(loggerSpy.GetErrorRecords()))
}

func Test_Query_DatabaseError_EmitsContextualErrorLog(t *testing.T) {
	adapter := &fakeDBAdapter{queryErr: errors.New("connection refused")}

	loggerSpy := testdoubles.NewContextualLoggerSpy(true)

	cq, err := newContentQuery(adapter, WithContextualLogger(loggerSpy))
	require.NoError(t, err)

	_, queryErr := cq.Query(context.Background(), searchfilter.BuildSelection().MatchingAnyPost())
	require.Error(t, queryErr)

	assert.True(t, loggerSpy.HasErrorLog("database query execution failed"))
}
