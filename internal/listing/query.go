package listing

import (
	"net/url"
	"strings"
)

// Build turns the listing criteria into the query string for /movies/.
//
// The text goes out under the filter type's name only for title, actor and
// director; genres go out as repeated genre parameters, in selection order,
// only for the genre filter. Inactive criteria are left out, so a call with
// nothing active returns "".
func Build(text string, ft FilterType, genres []string) string {
	var params []string
	if text != "" && ft.usesText() {
		params = append(params, ft.String()+"="+url.QueryEscape(text))
	}
	if ft == FilterGenre {
		for _, g := range genres {
			params = append(params, "genre="+url.QueryEscape(g))
		}
	}
	return strings.Join(params, "&")
}
