package shortcode

import (
	_ "embed"
	"net/http"
)

// StylesheetPath is the conventional route for serving the bundled stylesheet.
const StylesheetPath = "/assets/search-filter.css"

//go:embed assets/search-filter.css
var stylesheet []byte

// StylesheetHandler serves the bundled default stylesheet for the form and
// result markup. Hosts that style the markup themselves simply don't mount it.
func StylesheetHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write(stylesheet)
	})
}
