package searchfilter

// TotalCountUint is a type alias for uint, representing the total number of posts
// matching a Selection regardless of pagination.
type TotalCountUint = uint

// ResultPage is one page of an executed query: the posts of the current page plus
// the counters the renderers need to emit pagination controls.
//
// The result set itself stays owned by the query engine for the lifetime of the
// request; a ResultPage is a plain value handed to the renderers and discarded
// after rendering.
type ResultPage struct {
	Posts       Posts
	TotalCount  TotalCountUint
	CurrentPage PageNumberUint
	PerPage     uint
}

// IsEmpty reports whether the page holds no posts at all.
func (rp ResultPage) IsEmpty() bool {
	return len(rp.Posts) == 0
}

// PageCount computes the number of pages from the engine-reported total.
func (rp ResultPage) PageCount() uint {
	if rp.PerPage == 0 || rp.TotalCount == 0 {
		return 0
	}

	return (rp.TotalCount + rp.PerPage - 1) / rp.PerPage
}

// HasMultiplePages reports whether pagination controls should be rendered at all.
func (rp ResultPage) HasMultiplePages() bool {
	return rp.PageCount() > 1
}
