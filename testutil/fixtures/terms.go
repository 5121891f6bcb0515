package fixtures

import (
	"github.com/contentkit/searchfilter-go/searchfilter"
)

// CategoryTerms returns a small "category" taxonomy vocabulary.
func CategoryTerms() searchfilter.Terms {
	return searchfilter.Terms{
		{ID: 10, Taxonomy: "category", Slug: "go", Name: "Go", Count: 12},
		{ID: 11, Taxonomy: "category", Slug: "databases", Name: "Databases", Count: 7},
		{ID: 12, Taxonomy: "category", Slug: "testing", Name: "Testing", Count: 3},
	}
}

// TagTerms returns a "post_tag" taxonomy vocabulary large enough to cross the
// checkbox-to-select rendering threshold.
func TagTerms() searchfilter.Terms {
	return searchfilter.Terms{
		{ID: 20, Taxonomy: "post_tag", Slug: "alpha", Name: "Alpha", Count: 1},
		{ID: 21, Taxonomy: "post_tag", Slug: "beta", Name: "Beta", Count: 2},
		{ID: 22, Taxonomy: "post_tag", Slug: "gamma", Name: "Gamma", Count: 3},
		{ID: 23, Taxonomy: "post_tag", Slug: "delta", Name: "Delta", Count: 4},
		{ID: 24, Taxonomy: "post_tag", Slug: "epsilon", Name: "Epsilon", Count: 5},
		{ID: 25, Taxonomy: "post_tag", Slug: "zeta", Name: "Zeta", Count: 6},
	}
}
