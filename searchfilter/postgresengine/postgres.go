package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/contentkit/searchfilter-go/searchfilter"
	"github.com/contentkit/searchfilter-go/searchfilter/postgresengine/internal/adapters"
)

const (
	defaultPostsTableName     = "posts"
	defaultTermsTableName     = "terms"
	defaultPostTermsTableName = "post_terms"
	defaultPerPage            = uint(10)

	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildPostFailed        = "failed to build post from database row"
	logMsgQueryCompleted         = "query completed"
	logMsgTermsQueried           = "terms queried"
	logMsgPostTypesQueried       = "post types queried"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "content query operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrTaxonomy              = "taxonomy"
	logAttrPostCount             = "post_count"
	logAttrTermCount             = "term_count"
	logAttrTotalCount            = "total_count"
	logAttrDurationMS            = "duration_ms"

	operationQuery     = "query"
	operationTerms     = "terms"
	operationPostTypes = "post_types"

	colID          = "id"
	colPostType    = "post_type"
	colStatus      = "status"
	colTitle       = "title"
	colPermalink   = "permalink"
	colExcerpt     = "excerpt"
	colContent     = "content"
	colPublishedAt = "published_at"
	colMeta        = "meta"
	colTaxonomy    = "taxonomy"
	colSlug        = "slug"
	colName        = "name"
	colCount       = "count"
	colPostID      = "post_id"
	colTermID      = "term_id"

	statusPublished = "published"
	dialectPostgres = "postgres"
	aliasTotal      = "total_count"
	windowTotal     = "count(*) OVER ()"
	existsTemplate  = "EXISTS ?"
)

type sqlQueryString = string

// ContentQuery translates filter selections into SQL against the host platform's
// content tables and executes them. It leverages a database adapter and supports
// customizable logging, metrics, tracing, and table configuration.
type ContentQuery struct {
	db                 adapters.DBAdapter
	postsTableName     string
	termsTableName     string
	postTermsTableName string
	perPage            uint
	searchMetaKeys     []string
	queryArgsHook      QueryArgsHook
	logger             searchfilter.Logger
	contextualLogger   searchfilter.ContextualLogger
	metricsCollector   searchfilter.MetricsCollector
	tracingCollector   searchfilter.TracingCollector
}

// QueryArgs is the flat set of query arguments built once per request from a
// Selection and handed to SQL generation. A configured QueryArgsHook sees this
// value and may replace it before the SQL is built.
type QueryArgs struct {
	PostTypes  []searchfilter.PostTypeString // empty means any post type
	Taxonomies []TaxonomyArgs
	Keyword    searchfilter.KeywordString
	MetaKeys   []string
	Page       searchfilter.PageNumberUint
	PerPage    uint
}

// TaxonomyArgs is one per-taxonomy inclusion condition of QueryArgs.
// Conditions of distinct taxonomies are combined with AND, term IDs within one
// taxonomy with "any of".
type TaxonomyArgs struct {
	Taxonomy searchfilter.TaxonomyString
	TermIDs  []searchfilter.TermIDInt64
}

// QueryArgsHook allows external code to mutate the query arguments after the
// request-to-query mapping and before SQL generation. It runs exactly once per
// query.
type QueryArgsHook func(args QueryArgs) QueryArgs

type queryResultRow struct {
	id          int64
	postType    string
	title       string
	permalink   string
	excerpt     string
	publishedAt time.Time
	meta        []byte
	totalCount  uint
}

// NewContentQueryFromPGXPool creates a new ContentQuery using a pgx Pool with optional configuration.
func NewContentQueryFromPGXPool(db *pgxpool.Pool, options ...Option) (*ContentQuery, error) {
	if db == nil {
		return nil, searchfilter.ErrNilDatabaseConnection
	}

	return newContentQuery(adapters.NewPGXAdapter(db), options...)
}

// NewContentQueryFromSQLDB creates a new ContentQuery using a sql.DB with optional configuration.
func NewContentQueryFromSQLDB(db *sql.DB, options ...Option) (*ContentQuery, error) {
	if db == nil {
		return nil, searchfilter.ErrNilDatabaseConnection
	}

	return newContentQuery(adapters.NewSQLAdapter(db), options...)
}

// NewContentQueryFromSQLX creates a new ContentQuery using a sqlx.DB with optional configuration.
func NewContentQueryFromSQLX(db *sqlx.DB, options ...Option) (*ContentQuery, error) {
	if db == nil {
		return nil, searchfilter.ErrNilDatabaseConnection
	}

	return newContentQuery(adapters.NewSQLXAdapter(db), options...)
}

func newContentQuery(db adapters.DBAdapter, options ...Option) (*ContentQuery, error) {
	cq := &ContentQuery{
		db:                 db,
		postsTableName:     defaultPostsTableName,
		termsTableName:     defaultTermsTableName,
		postTermsTableName: defaultPostTermsTableName,
		perPage:            defaultPerPage,
	}

	for _, option := range options {
		if err := option(cq); err != nil {
			return nil, err
		}
	}

	return cq, nil
}

// Query retrieves one page of posts matching the provided searchfilter.Selection
// and returns it as a searchfilter.ResultPage together with the total match count
// needed for pagination.
func (cq *ContentQuery) Query(ctx context.Context, selection searchfilter.Selection) (
	searchfilter.ResultPage,
	error,
) {

	var empty searchfilter.ResultPage

	tracing, ctx := cq.startQueryTracing(ctx)
	metrics := cq.startOperationMetrics(ctx, operationQuery)

	args := cq.queryArgsFromSelection(selection)
	if cq.queryArgsHook != nil {
		args = cq.queryArgsHook(args)
	}

	sqlQuery, buildQueryErr := cq.buildSelectQuery(args)
	if buildQueryErr != nil {
		cq.logError(logMsgBuildSelectQueryFailed, buildQueryErr)
		cq.logErrorContext(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		metrics.recordError(errorTypeBuildQuery, 0)
		tracing.finishError(errorTypeBuildQuery, 0)

		return empty, buildQueryErr
	}

	rows, duration, queryErr := cq.executeQuery(ctx, sqlQuery, operationQuery)
	if queryErr != nil {
		metrics.recordError(errorTypeDatabase, duration)
		tracing.finishError(errorTypeDatabase, duration)

		return empty, queryErr
	}
	defer cq.closeRows(rows)

	posts, totalCount, scanErr := cq.processQueryResults(ctx, rows)
	if scanErr != nil {
		metrics.recordError(errorTypeScanRow, duration)
		tracing.finishError(errorTypeScanRow, duration)

		return empty, scanErr
	}

	resultPage := searchfilter.ResultPage{
		Posts:       posts,
		TotalCount:  totalCount,
		CurrentPage: args.Page,
		PerPage:     args.PerPage,
	}

	cq.logOperation(
		logMsgQueryCompleted,
		logAttrPostCount, len(posts),
		logAttrTotalCount, totalCount,
		logAttrDurationMS, cq.toMilliseconds(duration))
	cq.logOperationContext(ctx,
		logMsgQueryCompleted,
		logAttrPostCount, len(posts),
		logAttrTotalCount, totalCount,
		logAttrDurationMS, cq.toMilliseconds(duration))

	metrics.recordSuccess(float64(len(posts)), duration)
	tracing.finishSuccess(len(posts), totalCount, duration)

	return resultPage, nil
}

// Terms retrieves all terms of the given taxonomy for form rendering, ordered by name.
func (cq *ContentQuery) Terms(ctx context.Context, taxonomy searchfilter.TaxonomyString) (
	searchfilter.Terms,
	error,
) {

	metrics := cq.startOperationMetrics(ctx, operationTerms)

	sqlQuery, buildQueryErr := cq.buildTermsQuery(taxonomy)
	if buildQueryErr != nil {
		cq.logError(logMsgBuildSelectQueryFailed, buildQueryErr, logAttrTaxonomy, taxonomy)
		metrics.recordError(errorTypeBuildQuery, 0)

		return nil, buildQueryErr
	}

	rows, duration, queryErr := cq.executeQuery(ctx, sqlQuery, operationTerms)
	if queryErr != nil {
		metrics.recordError(errorTypeDatabase, duration)

		return nil, errors.Join(searchfilter.ErrQueryingTermsFailed, queryErr)
	}
	defer cq.closeRows(rows)

	terms := make(searchfilter.Terms, 0)

	for rows.Next() {
		var term searchfilter.Term
		if rowScanErr := rows.Scan(&term.ID, &term.Taxonomy, &term.Slug, &term.Name, &term.Count); rowScanErr != nil {
			cq.logError(logMsgScanRowFailed, rowScanErr, logAttrTaxonomy, taxonomy)
			metrics.recordError(errorTypeScanRow, duration)

			return nil, errors.Join(searchfilter.ErrScanningDBRowFailed, rowScanErr)
		}

		terms = append(terms, term)
	}

	cq.logOperation(
		logMsgTermsQueried,
		logAttrTaxonomy, taxonomy,
		logAttrTermCount, len(terms),
		logAttrDurationMS, cq.toMilliseconds(duration))

	metrics.recordSuccess(float64(len(terms)), duration)

	return terms, nil
}

// PostTypes retrieves the distinct post types of all published posts.
func (cq *ContentQuery) PostTypes(ctx context.Context) ([]searchfilter.PostTypeString, error) {
	metrics := cq.startOperationMetrics(ctx, operationPostTypes)

	selectStmt := goqu.Dialect(dialectPostgres).
		From(cq.postsTableName).
		SelectDistinct(colPostType).
		Where(goqu.C(colStatus).Eq(statusPublished)).
		Order(goqu.I(colPostType).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		metrics.recordError(errorTypeBuildQuery, 0)

		return nil, errors.Join(searchfilter.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, duration, queryErr := cq.executeQuery(ctx, sqlQuery, operationPostTypes)
	if queryErr != nil {
		metrics.recordError(errorTypeDatabase, duration)

		return nil, errors.Join(searchfilter.ErrQueryingPostTypesFailed, queryErr)
	}
	defer cq.closeRows(rows)

	postTypes := make([]searchfilter.PostTypeString, 0)

	for rows.Next() {
		var postType searchfilter.PostTypeString
		if rowScanErr := rows.Scan(&postType); rowScanErr != nil {
			cq.logError(logMsgScanRowFailed, rowScanErr)
			metrics.recordError(errorTypeScanRow, duration)

			return nil, errors.Join(searchfilter.ErrScanningDBRowFailed, rowScanErr)
		}

		postTypes = append(postTypes, postType)
	}

	cq.logOperation(
		logMsgPostTypesQueried,
		logAttrPostCount, len(postTypes),
		logAttrDurationMS, cq.toMilliseconds(duration))

	metrics.recordSuccess(float64(len(postTypes)), duration)

	return postTypes, nil
}

// queryArgsFromSelection flattens a Selection into the QueryArgs handed to SQL
// generation, applying the engine-level configuration (per-page, meta keys).
// Term conditions without any term ID were already pruned by the selection builder.
func (cq *ContentQuery) queryArgsFromSelection(selection searchfilter.Selection) QueryArgs {
	taxonomies := make([]TaxonomyArgs, 0, len(selection.TermConditions()))
	for _, condition := range selection.TermConditions() {
		taxonomies = append(taxonomies, TaxonomyArgs{
			Taxonomy: condition.Taxonomy(),
			TermIDs:  condition.TermIDs(),
		})
	}

	return QueryArgs{
		PostTypes:  selection.PostTypes(),
		Taxonomies: taxonomies,
		Keyword:    selection.Keyword(),
		MetaKeys:   cq.searchMetaKeys,
		Page:       selection.Page(),
		PerPage:    cq.perPage,
	}
}

// executeQuery executes the SQL query and returns rows with timing information.
func (cq *ContentQuery) executeQuery(ctx context.Context, sqlQuery string, action string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := cq.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	cq.logQueryWithDuration(sqlQuery, action, duration)
	cq.logQueryWithDurationContext(ctx, sqlQuery, action, duration)

	if queryErr != nil {
		cq.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		cq.logErrorContext(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(searchfilter.ErrQueryingPostsFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (cq *ContentQuery) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if cq.logger != nil {
			cq.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// processQueryResults processes database rows and converts them to posts.
func (cq *ContentQuery) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	searchfilter.Posts,
	searchfilter.TotalCountUint,
	error,
) {

	result := queryResultRow{}
	posts := make(searchfilter.Posts, 0)
	totalCount := searchfilter.TotalCountUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(
			&result.id,
			&result.postType,
			&result.title,
			&result.permalink,
			&result.excerpt,
			&result.publishedAt,
			&result.meta,
			&result.totalCount)
		if rowScanErr != nil {
			cq.logError(logMsgScanRowFailed, rowScanErr)
			cq.logErrorContext(ctx, logMsgScanRowFailed, rowScanErr)

			return nil, 0, errors.Join(searchfilter.ErrScanningDBRowFailed, rowScanErr)
		}

		post, buildPostErr := searchfilter.BuildPost(
			result.id,
			result.postType,
			result.title,
			result.permalink,
			result.excerpt,
			result.publishedAt,
			result.meta)
		if buildPostErr != nil {
			cq.logError(logMsgBuildPostFailed, buildPostErr)
			cq.logErrorContext(ctx, logMsgBuildPostFailed, buildPostErr)

			return nil, 0, errors.Join(searchfilter.ErrBuildingPostFailed, buildPostErr)
		}

		posts = append(posts, post)
		totalCount = result.totalCount
	}

	return posts, totalCount, nil
}

func (cq *ContentQuery) buildSelectQuery(args QueryArgs) (sqlQueryString, error) {
	perPage := args.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}

	page := args.Page
	if page == 0 {
		page = 1
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(cq.postsTableName).
		Select(
			goqu.I(cq.postsTableName+"."+colID),
			goqu.I(cq.postsTableName+"."+colPostType),
			goqu.I(cq.postsTableName+"."+colTitle),
			goqu.I(cq.postsTableName+"."+colPermalink),
			goqu.I(cq.postsTableName+"."+colExcerpt),
			goqu.I(cq.postsTableName+"."+colPublishedAt),
			goqu.I(cq.postsTableName+"."+colMeta),
			goqu.L(windowTotal).As(aliasTotal)).
		Order(
			goqu.I(cq.postsTableName+"."+colPublishedAt).Desc(),
			goqu.I(cq.postsTableName+"."+colID).Desc()).
		Limit(perPage).
		Offset((page - 1) * perPage)

	selectStmt = cq.addWhereClause(args, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(searchfilter.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (cq *ContentQuery) buildTermsQuery(taxonomy searchfilter.TaxonomyString) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(cq.termsTableName).
		Select(colID, colTaxonomy, colSlug, colName, colCount).
		Where(goqu.C(colTaxonomy).Eq(taxonomy)).
		Order(goqu.I(colName).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(searchfilter.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (cq *ContentQuery) addWhereClause(args QueryArgs, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	selectStmt = selectStmt.Where(goqu.I(cq.postsTableName + "." + colStatus).Eq(statusPublished))

	// an empty post type list means "any post type", never "no posts"
	if len(args.PostTypes) > 0 {
		selectStmt = selectStmt.Where(goqu.I(cq.postsTableName + "." + colPostType).In(args.PostTypes))
	}

	// taxonomies must always be combined with AND, term IDs within one with IN ;-)
	for _, taxonomyArgs := range args.Taxonomies {
		if len(taxonomyArgs.TermIDs) == 0 {
			continue
		}

		termSubquery := goqu.Dialect(dialectPostgres).
			From(cq.postTermsTableName).
			Select(goqu.V(1)).
			Where(
				goqu.I(cq.postTermsTableName+"."+colPostID).Eq(goqu.I(cq.postsTableName+"."+colID)),
				goqu.I(cq.postTermsTableName+"."+colTermID).In(taxonomyArgs.TermIDs))

		selectStmt = selectStmt.Where(goqu.L(existsTemplate, termSubquery))
	}

	if args.Keyword != "" {
		pattern := "%" + escapeLikePattern(args.Keyword) + "%"

		keywordExpressions := []goqu.Expression{
			goqu.I(cq.postsTableName + "." + colTitle).ILike(pattern),
			goqu.I(cq.postsTableName + "." + colExcerpt).ILike(pattern),
			goqu.I(cq.postsTableName + "." + colContent).ILike(pattern),
		}

		for _, metaKey := range args.MetaKeys {
			keywordExpressions = append(
				keywordExpressions,
				goqu.L(cq.postsTableName+"."+colMeta+" ->> ?", metaKey).ILike(pattern),
			)
		}

		selectStmt = selectStmt.Where(goqu.Or(keywordExpressions...))
	}

	return selectStmt
}

// escapeLikePattern escapes LIKE/ILIKE wildcards in user-supplied keywords.
func escapeLikePattern(keyword string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return replacer.Replace(keyword)
}
