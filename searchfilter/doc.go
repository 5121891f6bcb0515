// Package searchfilter provides the core abstractions and types for the content
// search/filter component.
//
// This package defines the request-to-query mapping and the value types shared by
// the form/result renderers and the query engine implementations: selections,
// posts, result pages, and common error definitions.
//
// A Selection supports filtering posts by:
//   - Post types
//   - Taxonomy term conditions (ANDed across taxonomies, any-of within one)
//   - A keyword
//   - A result page number
//
// Key types:
//   - Selection: the filter criteria derived from a submitted search form
//   - Post: one result entry as returned by a query engine
//   - ResultPage: one page of results plus pagination counters
//
// Common usage pattern:
//
//	// Map a submitted form to a selection, honoring the shortcode defaults
//	if searchfilter.IsSearchRequest(request.URL.Query()) {
//		selection := searchfilter.SelectionFromValues(
//			request.URL.Query(),
//			searchfilter.Defaults{
//				PostTypes:  []string{"post", "page"},
//				Taxonomies: []string{"category", "post_tag"},
//			})
//
//		page, err := engine.Query(ctx, selection)
//		if err != nil {
//			// handle error
//		}
//		_ = page
//	}
//
// Or build a selection programmatically:
//
//	selection := searchfilter.BuildSelection().
//		WithKeyword("golang").
//		Matching().
//		AnyPostTypeOf("post").
//		AndAnyTermOf("category", 12, 17).
//		Finalize()
package searchfilter
