package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var targetBlankRe = regexp.MustCompile(`^_blank$`)

// newPolicy builds the output allow-list. Anything the renderer emits that is
// not covered here is stripped, including raw HTML passed through the parser.
//
// Two requirements are explicit rather than inherited from library defaults:
// data: URIs must survive in image sources, and links to absolute http(s)
// targets must open in a new tab with rel="noopener noreferrer" while
// in-document anchors stay untouched.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr", "blockquote",
		"pre", "code", "em", "strong", "del", "s",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
		"a", "img", "span", "div", "input",
	)

	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("href", "title", "rel").OnElements("a")
	p.AllowAttrs("target").Matching(targetBlankRe).OnElements("a")
	p.AllowAttrs("src", "alt", "title", "loading").OnElements("img")
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div", "table")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")

	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.AllowDataURIImages()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnFullyQualifiedLinks(true)

	return p
}
