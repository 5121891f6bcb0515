package searchfilter

import (
	"slices"
	"strings"
)

type PostTypeString = string
type TaxonomyString = string
type KeywordString = string
type TermIDInt64 = int64
type PageNumberUint = uint

/***** Selection *****/

// Selection is the request-scoped set of filter criteria: post types, per-taxonomy
// term conditions, an optional keyword and the requested result page.
// It is derived from request parameters and shortcode defaults and never persisted.
type Selection struct {
	postTypes      []PostTypeString
	termConditions []TermCondition
	keyword        KeywordString
	page           PageNumberUint
}

func (s Selection) PostTypes() []PostTypeString {
	return s.postTypes
}

func (s Selection) TermConditions() []TermCondition {
	return s.termConditions
}

func (s Selection) Keyword() KeywordString {
	return s.keyword
}

func (s Selection) Page() PageNumberUint {
	if s.page == 0 {
		return 1
	}

	return s.page
}

// HasAnyPostType reports whether the selection matches all post types (wildcard).
func (s Selection) HasAnyPostType() bool {
	return len(s.postTypes) == 0
}

// TermIDsFor returns the selected term IDs for the given taxonomy, or nil when
// the taxonomy carries no condition.
func (s Selection) TermIDsFor(taxonomy TaxonomyString) []TermIDInt64 {
	for _, condition := range s.termConditions {
		if condition.taxonomy == taxonomy {
			return condition.termIDs
		}
	}

	return nil
}

/***** TermCondition *****/

// TermCondition restricts results to posts tagged with at least one of the
// selected terms of a single taxonomy. Conditions of different taxonomies are
// combined with AND by the query engine.
type TermCondition struct {
	taxonomy TaxonomyString
	termIDs  []TermIDInt64
}

func (tc TermCondition) Taxonomy() TaxonomyString {
	return tc.taxonomy
}

func (tc TermCondition) TermIDs() []TermIDInt64 {
	return tc.termIDs
}

/***** SelectionBuilder *****/

// SelectionBuilder builds a generic filter selection to be used by DB type-specific
// query engines to build queries for the specific query language, e.g.: Postgres, Mysql, ...
// It is designed to only allow "useful" selection shapes for search/filter forms:
//
//   - empty selection (all posts of any type)
//   - (postType OR postType...)
//   - (termCondition)
//   - (termCondition AND termCondition...) -> one condition per taxonomy
//   - ((postType OR postType...) AND termCondition...)
//   - any of the above with a keyword and/or a page number
type SelectionBuilder interface {
	// WithKeyword sets the keyword for the Selection; an empty or blank keyword is ignored.
	WithKeyword(keyword KeywordString) SelectionBuilder

	// OnPage sets the requested result page; zero degrades to page one.
	OnPage(page PageNumberUint) SelectionBuilder

	// Matching starts the filter criteria of the Selection.
	Matching() EmptySelectionItemBuilder

	// MatchingAnyPost directly creates a Selection without filter criteria.
	MatchingAnyPost() Selection

	// Finalize returns the Selection with only keyword and/or page set.
	Finalize() Selection
}

type EmptySelectionItemBuilder interface {
	// AnyPostTypeOf adds one or multiple post types to the Selection.
	//
	// It sanitizes the input:
	//	- removing empty post types ("")
	//	- sorting the post types
	//	- removing duplicate post types
	AnyPostTypeOf(postType PostTypeString, postTypes ...PostTypeString) SelectionItemBuilderLackingTerms

	// AnyTermOf adds a term condition for one taxonomy to the Selection.
	//
	// It sanitizes the input:
	//	- removing non-positive term IDs
	//	- sorting the term IDs
	//	- removing duplicate term IDs
	//	- dropping the whole condition when no term ID survives
	AnyTermOf(taxonomy TaxonomyString, termID TermIDInt64, termIDs ...TermIDInt64) SelectionItemBuilderWithTerms
}

type SelectionItemBuilderLackingTerms interface {
	// AndAnyTermOf adds a term condition for one taxonomy to the Selection.
	// Conditions for distinct taxonomies are combined with AND.
	AndAnyTermOf(taxonomy TaxonomyString, termID TermIDInt64, termIDs ...TermIDInt64) SelectionItemBuilderWithTerms

	// Finalize returns the Selection.
	Finalize() Selection
}

type SelectionItemBuilderWithTerms interface {
	// AndAnyTermOf adds a term condition for a further taxonomy to the Selection.
	// A repeated taxonomy merges its term IDs into the existing condition.
	AndAnyTermOf(taxonomy TaxonomyString, termID TermIDInt64, termIDs ...TermIDInt64) SelectionItemBuilderWithTerms

	// Finalize returns the Selection.
	Finalize() Selection
}

// selectionBuilder implements all the interfaces of SelectionBuilder.
type selectionBuilder struct {
	selection Selection
}

// BuildSelection creates a SelectionBuilder which must eventually be finalized
// with Finalize() or MatchingAnyPost().
func BuildSelection() SelectionBuilder {
	return selectionBuilder{}
}

// WithKeyword sets the keyword for the Selection; an empty or blank keyword is ignored.
func (sb selectionBuilder) WithKeyword(keyword KeywordString) SelectionBuilder {
	sb.selection.keyword = strings.TrimSpace(keyword)

	return sb
}

// OnPage sets the requested result page; zero degrades to page one.
func (sb selectionBuilder) OnPage(page PageNumberUint) SelectionBuilder {
	sb.selection.page = page

	return sb
}

// Matching starts the filter criteria of the Selection.
func (sb selectionBuilder) Matching() EmptySelectionItemBuilder {
	return sb
}

// MatchingAnyPost directly creates a Selection without filter criteria.
func (sb selectionBuilder) MatchingAnyPost() Selection {
	return sb.selection
}

// AnyPostTypeOf adds one or multiple post types to the Selection expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty post types ("")
//   - sorting the post types
//   - removing duplicate post types
func (sb selectionBuilder) AnyPostTypeOf(
	postType PostTypeString,
	postTypes ...PostTypeString,
) SelectionItemBuilderLackingTerms {

	sb.selection.postTypes = append(
		sb.selection.postTypes,
		sb.sanitizePostTypes(postType, postTypes...)...,
	)

	return sb
}

func (sb selectionBuilder) sanitizePostTypes(
	postType PostTypeString,
	postTypes ...PostTypeString,
) []PostTypeString {

	allPostTypes := append([]PostTypeString{postType}, postTypes...)
	allPostTypes = slices.DeleteFunc(
		allPostTypes,
		func(pt PostTypeString) bool {
			return pt == ""
		})
	slices.Sort(allPostTypes)
	allPostTypes = slices.Compact(allPostTypes)
	allPostTypes = slices.Clip(allPostTypes)

	return allPostTypes
}

// AnyTermOf adds a term condition for one taxonomy to the Selection expecting ANY term to match.
//
// It sanitizes the input:
//   - removing non-positive term IDs
//   - sorting the term IDs
//   - removing duplicate term IDs
//   - dropping the whole condition when no term ID survives
func (sb selectionBuilder) AnyTermOf(
	taxonomy TaxonomyString,
	termID TermIDInt64,
	termIDs ...TermIDInt64,
) SelectionItemBuilderWithTerms {

	sanitized := sb.sanitizeTermIDs(termID, termIDs...)
	if taxonomy == "" || len(sanitized) == 0 {
		return sb
	}

	for i, condition := range sb.selection.termConditions {
		if condition.taxonomy == taxonomy {
			merged := append(condition.termIDs, sanitized...)
			slices.Sort(merged)
			merged = slices.Compact(merged)

			conditions := slices.Clone(sb.selection.termConditions)
			conditions[i] = TermCondition{taxonomy: taxonomy, termIDs: merged}
			sb.selection.termConditions = conditions

			return sb
		}
	}

	sb.selection.termConditions = append(
		sb.selection.termConditions,
		TermCondition{taxonomy: taxonomy, termIDs: sanitized},
	)

	return sb
}

// AndAnyTermOf adds a term condition for a further taxonomy to the Selection.
// Conditions for distinct taxonomies are combined with AND by the query engine.
func (sb selectionBuilder) AndAnyTermOf(
	taxonomy TaxonomyString,
	termID TermIDInt64,
	termIDs ...TermIDInt64,
) SelectionItemBuilderWithTerms {

	return sb.AnyTermOf(taxonomy, termID, termIDs...)
}

func (sb selectionBuilder) sanitizeTermIDs(
	termID TermIDInt64,
	termIDs ...TermIDInt64,
) []TermIDInt64 {

	allTermIDs := append([]TermIDInt64{termID}, termIDs...)
	allTermIDs = slices.DeleteFunc(
		allTermIDs,
		func(id TermIDInt64) bool {
			return id <= 0
		})
	slices.Sort(allTermIDs)
	allTermIDs = slices.Compact(allTermIDs)
	allTermIDs = slices.Clip(allTermIDs)

	return allTermIDs
}

// Finalize returns the Selection.
func (sb selectionBuilder) Finalize() Selection {
	return sb.selection
}
