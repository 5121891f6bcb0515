// Package shortcode renders a combined search/filter form and paginated result
// list as an HTML fragment, driven entirely by request query parameters.
//
// A Shortcode is configured once from attributes (which fields to show, which
// post types and taxonomies to filter on) and then expanded per request:
//
//	attrs := shortcode.ParseAttrs(map[string]string{
//		"fields":     "search,post_types,category",
//		"post_types": "post,page",
//	})
//
//	sc := shortcode.New(engine, attrs, shortcode.WithFormAction("/search"))
//	html, err := sc.Render(ctx, request.URL.Query())
//
// The form always renders, pre-populated from the current request so it
// reflects its own last submission. The result list renders only when the
// request carries the search trigger flag. Malformed user input degrades to
// defaults; a failing query degrades to the no-results notice. Render returns
// an error only for template execution failures.
//
// StylesheetHandler serves a bundled default stylesheet for the generated
// markup.
package shortcode
