// Package postgresengine provides the PostgreSQL implementation of the content
// query engine used by the search/filter component.
//
// The engine translates a searchfilter.Selection into a single SELECT against the
// host platform's content tables: post types combined with IN, taxonomy term
// conditions combined with AND across taxonomies (via EXISTS subqueries against
// the post/term relationship table) and "any of" within one taxonomy, keyword
// matching against title, excerpt, content and configured custom-field keys, and
// window-function based total counting for pagination.
//
// It supports three database connection types through an internal adapter layer:
//
//	engine, err := postgresengine.NewContentQueryFromPGXPool(pool)
//	engine, err := postgresengine.NewContentQueryFromSQLDB(db)
//	engine, err := postgresengine.NewContentQueryFromSQLX(db)
//
// Behavior is customized with functional options, e.g.:
//
//	engine, err := postgresengine.NewContentQueryFromPGXPool(
//		pool,
//		postgresengine.WithPerPage(20),
//		postgresengine.WithSearchMetaKeys("subtitle", "isbn"),
//		postgresengine.WithLogger(logger),
//		postgresengine.WithQueryArgsHook(func(args postgresengine.QueryArgs) postgresengine.QueryArgs {
//			args.PostTypes = append(args.PostTypes, "attachment")
//			return args
//		}),
//	)
package postgresengine
