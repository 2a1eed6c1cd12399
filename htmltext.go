package bookpub

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every tag, leaving escaped text content only.
// Policies are safe for concurrent use once built.
var stripPolicy = bluemonday.StrictPolicy()

// VisibleText extracts the visible text from an inline-HTML fragment.
//
// Element contents in this pipeline only ever carry the minimal inline
// tag set the parser emits (<strong>, <em>, <code>, <a>, <span>) plus
// <p>/<div> wrappers from legacy HTML ingestion; all of them are
// stripped and entities are decoded.
func VisibleText(fragment string) string {
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	return html.UnescapeString(stripPolicy.Sanitize(fragment))
}
