package searchfilter

import (
	"net/url"
	"strconv"
)

// Request parameter names consumed and emitted by the search/filter form.
// They are the wire convention between the rendered form, the pagination links
// and the request-to-query mapping.
const (
	ParamSubmit         = "sf_submit"
	ParamKeyword        = "sf_s"
	ParamPostTypes      = "sf_post_types"
	ParamPage           = "sf_paged"
	paramTaxonomyPrefix = "sf_tax_"
)

// TaxonomyParam returns the request parameter name carrying the selected term IDs
// of the given taxonomy, e.g. "sf_tax_category" for the "category" taxonomy.
func TaxonomyParam(taxonomy TaxonomyString) string {
	return paramTaxonomyPrefix + taxonomy
}

// IsSearchRequest reports whether the request carries the search trigger flag,
// i.e. whether the form was submitted at all.
func IsSearchRequest(values url.Values) bool {
	return values.Get(ParamSubmit) != ""
}

// Defaults are the shortcode-level fallbacks for the request-to-query mapping:
// the searchable post types and the taxonomies whose filter controls are enabled.
// Only enabled taxonomies are read from the request; everything else is ignored.
type Defaults struct {
	PostTypes  []PostTypeString
	Taxonomies []TaxonomyString
}

// SelectionFromValues derives a Selection from raw request parameters and the
// shortcode defaults. Explicit request selections override the defaults;
// malformed or absent parameters degrade silently:
//
//   - no post types selected -> the default post types; none configured -> any post type
//   - non-numeric term IDs and page numbers are dropped
//   - taxonomies not enabled in the defaults are not read at all
func SelectionFromValues(values url.Values, defaults Defaults) Selection {
	builder := BuildSelection().
		WithKeyword(values.Get(ParamKeyword)).
		OnPage(pageFromValues(values))

	postTypes := nonEmptyOf(values[ParamPostTypes])
	if len(postTypes) == 0 {
		postTypes = nonEmptyOf(defaults.PostTypes)
	}

	conditions := make([]TermCondition, 0, len(defaults.Taxonomies))
	for _, taxonomy := range defaults.Taxonomies {
		termIDs := termIDsOf(values[TaxonomyParam(taxonomy)])
		if len(termIDs) > 0 {
			conditions = append(conditions, TermCondition{taxonomy: taxonomy, termIDs: termIDs})
		}
	}

	if len(postTypes) == 0 && len(conditions) == 0 {
		return builder.Finalize()
	}

	if len(postTypes) == 0 {
		itemBuilder := builder.Matching().
			AnyTermOf(conditions[0].taxonomy, conditions[0].termIDs[0], conditions[0].termIDs[1:]...)
		for _, condition := range conditions[1:] {
			itemBuilder = itemBuilder.AndAnyTermOf(condition.taxonomy, condition.termIDs[0], condition.termIDs[1:]...)
		}

		return itemBuilder.Finalize()
	}

	if len(conditions) == 0 {
		return builder.Matching().
			AnyPostTypeOf(postTypes[0], postTypes[1:]...).
			Finalize()
	}

	itemBuilder := builder.Matching().
		AnyPostTypeOf(postTypes[0], postTypes[1:]...).
		AndAnyTermOf(conditions[0].taxonomy, conditions[0].termIDs[0], conditions[0].termIDs[1:]...)
	for _, condition := range conditions[1:] {
		itemBuilder = itemBuilder.AndAnyTermOf(condition.taxonomy, condition.termIDs[0], condition.termIDs[1:]...)
	}

	return itemBuilder.Finalize()
}

// Values encodes the Selection back into request parameters, including the search
// trigger flag. Rendering a form from the returned values reproduces the exact
// selection, and pagination links built from them carry the complete filter state.
func (s Selection) Values() url.Values {
	values := url.Values{}
	values.Set(ParamSubmit, "1")

	if s.keyword != "" {
		values.Set(ParamKeyword, s.keyword)
	}

	for _, postType := range s.postTypes {
		values.Add(ParamPostTypes, postType)
	}

	for _, condition := range s.termConditions {
		param := TaxonomyParam(condition.taxonomy)
		for _, termID := range condition.termIDs {
			values.Add(param, strconv.FormatInt(termID, 10))
		}
	}

	if s.Page() > 1 {
		values.Set(ParamPage, strconv.FormatUint(uint64(s.Page()), 10))
	}

	return values
}

func pageFromValues(values url.Values) PageNumberUint {
	page, err := strconv.ParseUint(values.Get(ParamPage), 10, 32)
	if err != nil || page == 0 {
		return 1
	}

	return PageNumberUint(page)
}

func nonEmptyOf(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, value := range raw {
		if value != "" {
			result = append(result, value)
		}
	}

	return result
}

func termIDsOf(raw []string) []TermIDInt64 {
	result := make([]TermIDInt64, 0, len(raw))
	for _, value := range raw {
		termID, err := strconv.ParseInt(value, 10, 64)
		if err != nil || termID <= 0 {
			continue
		}
		result = append(result, termID)
	}

	return result
}
