package shortcode

import (
	"context"
	"embed"
	"html/template"
	"net/url"
	"strings"

	"github.com/contentkit/searchfilter-go/searchfilter"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const (
	logMsgQueryFailed       = "search query failed, rendering no results"
	logMsgTermsLookupFailed = "terms lookup failed, omitting filter control"
	logMsgTypesLookupFailed = "post types lookup failed, omitting filter control"
	logAttrError            = "error"
	logAttrTaxonomy         = "taxonomy"
)

// QueryEngine is the slice of the host platform's content-query engine the
// shortcode needs: executing a selection and reading the filter vocabulary.
// *postgresengine.ContentQuery satisfies it.
type QueryEngine interface {
	Query(ctx context.Context, selection searchfilter.Selection) (searchfilter.ResultPage, error)
	Terms(ctx context.Context, taxonomy searchfilter.TaxonomyString) (searchfilter.Terms, error)
	PostTypes(ctx context.Context) ([]searchfilter.PostTypeString, error)
}

// Shortcode renders the search/filter form and, when the request carries the
// search trigger flag, the paginated result list below it.
//
// A Shortcode holds no per-request state; the query result lives only on the
// stack of the request that rendered it, so one instance can serve concurrent
// requests.
type Shortcode struct {
	engine QueryEngine
	attrs  Attrs
	action string
	logger searchfilter.Logger
}

// Option defines a functional option for configuring a Shortcode.
type Option func(*Shortcode)

// WithFormAction sets the URL the form submits to; the default is the current page ("").
func WithFormAction(action string) Option {
	return func(sc *Shortcode) {
		sc.action = action
	}
}

// WithLogger sets the logger used for degraded rendering paths.
func WithLogger(logger searchfilter.Logger) Option {
	return func(sc *Shortcode) {
		sc.logger = logger
	}
}

// New creates a Shortcode over the given query engine and attributes.
func New(engine QueryEngine, attrs Attrs, options ...Option) *Shortcode {
	sc := &Shortcode{
		engine: engine,
		attrs:  attrs,
	}

	for _, option := range options {
		option(sc)
	}

	return sc
}

// Render expands the shortcode for one request: it maps the request parameters
// to a selection, executes the query when the search trigger flag is present,
// and returns the concatenated form and result markup.
//
// Bad user input never surfaces as an error; a failing query degrades to the
// no-results notice. An error return indicates a template problem, not a
// request problem.
func (sc *Shortcode) Render(ctx context.Context, values url.Values) (template.HTML, error) {
	selection := searchfilter.SelectionFromValues(values, sc.attrs.Defaults())

	var markup strings.Builder

	formHTML, formErr := sc.renderForm(ctx, selection)
	if formErr != nil {
		return "", formErr
	}
	markup.WriteString(formHTML)

	if searchfilter.IsSearchRequest(values) {
		resultsHTML, resultsErr := sc.renderResults(ctx, selection)
		if resultsErr != nil {
			return "", resultsErr
		}
		markup.WriteString(resultsHTML)
	}

	return template.HTML(markup.String()), nil //nolint:gosec // both halves are template output
}

func (sc *Shortcode) logWarn(msg string, args ...any) {
	if sc.logger != nil {
		sc.logger.Warn(msg, args...)
	}
}
