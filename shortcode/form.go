package shortcode

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/contentkit/searchfilter-go/searchfilter"
)

// checkboxThreshold is the cardinality above which an option group renders as a
// multi-select instead of a checkbox list.
const checkboxThreshold = 5

type formOption struct {
	Value    string
	Label    string
	Selected bool
}

type formOptionGroup struct {
	Param    string
	CSSName  string
	Legend   string
	Options  []formOption
	AsSelect bool
}

type formData struct {
	Action     string
	ShowSearch bool
	Keyword    searchfilter.KeywordString
	PostTypes  *formOptionGroup
	Taxonomies []formOptionGroup
}

// renderForm emits the filter form, pre-populating every control from the
// current selection so the form reflects its own last submission.
func (sc *Shortcode) renderForm(ctx context.Context, selection searchfilter.Selection) (string, error) {
	data := formData{
		Action:     sc.action,
		ShowSearch: sc.attrs.HasField(FieldSearch),
		Keyword:    selection.Keyword(),
	}

	if sc.attrs.HasField(FieldPostTypes) {
		data.PostTypes = sc.postTypeGroup(ctx, selection)
	}

	for _, taxonomy := range sc.attrs.Taxonomies() {
		group := sc.taxonomyGroup(ctx, taxonomy, selection)
		if group != nil {
			data.Taxonomies = append(data.Taxonomies, *group)
		}
	}

	var markup strings.Builder
	if err := templates.ExecuteTemplate(&markup, "form.tmpl", data); err != nil {
		return "", err
	}

	return markup.String(), nil
}

// postTypeGroup builds the post-type control from the configured searchable
// post types, falling back to the post types present in the content store when
// the shortcode does not restrict them.
func (sc *Shortcode) postTypeGroup(ctx context.Context, selection searchfilter.Selection) *formOptionGroup {
	postTypes := sc.attrs.PostTypes

	if len(postTypes) == 0 {
		available, err := sc.engine.PostTypes(ctx)
		if err != nil {
			sc.logWarn(logMsgTypesLookupFailed, logAttrError, err.Error())
			return nil
		}
		postTypes = available
	}

	options := make([]formOption, 0, len(postTypes))
	for _, postType := range postTypes {
		options = append(options, formOption{
			Value:    postType,
			Label:    labelize(postType),
			Selected: slices.Contains(selection.PostTypes(), postType),
		})
	}

	return &formOptionGroup{
		Param:    searchfilter.ParamPostTypes,
		CSSName:  "post-types",
		Legend:   "Post Types",
		Options:  options,
		AsSelect: len(options) > checkboxThreshold,
	}
}

// taxonomyGroup builds one taxonomy control block from the taxonomy's terms,
// pre-selecting the term IDs of the current selection. A failing terms lookup
// omits the control instead of failing the whole form.
func (sc *Shortcode) taxonomyGroup(
	ctx context.Context,
	taxonomy searchfilter.TaxonomyString,
	selection searchfilter.Selection,
) *formOptionGroup {

	terms, err := sc.engine.Terms(ctx, taxonomy)
	if err != nil {
		sc.logWarn(logMsgTermsLookupFailed, logAttrError, err.Error(), logAttrTaxonomy, taxonomy)
		return nil
	}

	if len(terms) == 0 {
		return nil
	}

	selectedIDs := selection.TermIDsFor(taxonomy)

	options := make([]formOption, 0, len(terms))
	for _, term := range terms {
		options = append(options, formOption{
			Value:    strconv.FormatInt(term.ID, 10),
			Label:    term.Name,
			Selected: slices.Contains(selectedIDs, term.ID),
		})
	}

	return &formOptionGroup{
		Param:    searchfilter.TaxonomyParam(taxonomy),
		CSSName:  cssName(taxonomy),
		Legend:   labelize(taxonomy),
		Options:  options,
		AsSelect: len(options) > checkboxThreshold,
	}
}

// labelize turns an identifier like "post_tag" into a display label like "Post Tag".
func labelize(identifier string) string {
	words := strings.FieldsFunc(identifier, func(r rune) bool {
		return r == '_' || r == '-'
	})

	for i, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + word[size:]
	}

	return strings.Join(words, " ")
}

// cssName turns an identifier into its fixed CSS class suffix.
func cssName(identifier string) string {
	return strings.ReplaceAll(identifier, "_", "-")
}
