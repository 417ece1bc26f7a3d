package render

import "strings"

// htmlEscaper replaces & < > " ' with their entities. The ampersand comes first
// so that entities produced by the other substitutions are not escaped again.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape makes s safe to embed in HTML text and attribute values.
// It is not idempotent; apply it exactly once, when the document is rendered.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}
