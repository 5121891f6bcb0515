package shortcode

import (
	"context"
	"strconv"
	"strings"

	"github.com/contentkit/searchfilter-go/searchfilter"
)

type pageLink struct {
	Number  uint
	URL     string
	Current bool
}

type resultsData struct {
	Posts []searchfilter.Post
	Pages []pageLink
}

// renderResults executes the query for the given selection and emits the result
// list: the no-results notice for an empty (or failed) result set, otherwise a
// list of title/link/excerpt entries followed by pagination controls when the
// result spans more than one page.
func (sc *Shortcode) renderResults(ctx context.Context, selection searchfilter.Selection) (string, error) {
	data := resultsData{}

	resultPage, queryErr := sc.engine.Query(ctx, selection)
	if queryErr != nil {
		sc.logWarn(logMsgQueryFailed, logAttrError, queryErr.Error())
	} else {
		data.Posts = resultPage.Posts
		data.Pages = sc.paginationLinks(selection, resultPage)
	}

	var markup strings.Builder
	if err := templates.ExecuteTemplate(&markup, "results.tmpl", data); err != nil {
		return "", err
	}

	return markup.String(), nil
}

// paginationLinks computes one link per page from the engine-reported page
// count, each reproducing the complete current filter selection. Controls are
// omitted entirely for a single page of results.
func (sc *Shortcode) paginationLinks(
	selection searchfilter.Selection,
	resultPage searchfilter.ResultPage,
) []pageLink {

	if !resultPage.HasMultiplePages() {
		return nil
	}

	links := make([]pageLink, 0, resultPage.PageCount())
	for number := uint(1); number <= resultPage.PageCount(); number++ {
		values := selection.Values()
		values.Set(searchfilter.ParamPage, strconv.FormatUint(uint64(number), 10))

		links = append(links, pageLink{
			Number:  number,
			URL:     sc.action + "?" + values.Encode(),
			Current: number == resultPage.CurrentPage,
		})
	}

	return links
}
