package shortcode

import (
	"slices"
	"strings"

	"github.com/contentkit/searchfilter-go/searchfilter"
)

// FieldSearch is the attribute value enabling the keyword control;
// FieldPostTypes the one enabling the post-type control. Every other value in
// the "fields" attribute names a taxonomy whose filter control is enabled.
const (
	FieldSearch    = "search"
	FieldPostTypes = "post_types"
)

// Attrs are the shortcode-level attributes: which filter controls to display,
// which post types are searchable, and which custom-field keys the keyword
// search covers.
type Attrs struct {
	Fields         []string
	PostTypes      []searchfilter.PostTypeString
	SearchMetaKeys []string
}

// ParseAttrs reads the three comma-separated shortcode attributes
// ("fields", "post_types", "search_meta_keys") into an Attrs value.
// Absent or empty attributes degrade to defaults: a lone keyword control and
// the "post" post type.
func ParseAttrs(raw map[string]string) Attrs {
	attrs := Attrs{
		Fields:         splitList(raw["fields"]),
		PostTypes:      splitList(raw["post_types"]),
		SearchMetaKeys: splitList(raw["search_meta_keys"]),
	}

	if len(attrs.Fields) == 0 {
		attrs.Fields = []string{FieldSearch}
	}

	if len(attrs.PostTypes) == 0 {
		attrs.PostTypes = []searchfilter.PostTypeString{"post"}
	}

	return attrs
}

// Taxonomies returns the taxonomy names among the enabled fields, in display order.
func (a Attrs) Taxonomies() []searchfilter.TaxonomyString {
	taxonomies := make([]searchfilter.TaxonomyString, 0, len(a.Fields))
	for _, field := range a.Fields {
		if field != FieldSearch && field != FieldPostTypes {
			taxonomies = append(taxonomies, field)
		}
	}

	return taxonomies
}

// HasField reports whether the given control is enabled.
func (a Attrs) HasField(field string) bool {
	return slices.Contains(a.Fields, field)
}

// Defaults returns the request-to-query mapping defaults derived from the attributes.
func (a Attrs) Defaults() searchfilter.Defaults {
	return searchfilter.Defaults{
		PostTypes:  a.PostTypes,
		Taxonomies: a.Taxonomies(),
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
