package searchfilter

// Terms is an alias type for a slice of Term.
type Terms = []Term

// Term is a single classification value within a taxonomy, as read back from the
// host platform's term storage for form rendering.
type Term struct {
	ID       TermIDInt64
	Taxonomy TaxonomyString
	Slug     string
	Name     string
	Count    uint
}
