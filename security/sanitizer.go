// Package security holds the string-cleaning primitive and the
// dangerous-pattern scanner. Both are defense in depth on the client
// side of the ledger boundary, not a substitute for ledger-side checks.
package security

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern        = regexp.MustCompile(`<[^>]*>`)
	scriptProtocolPattern = regexp.MustCompile(`(?i)(?:javascript|vbscript|data):`)
	eventHandlerPattern   = regexp.MustCompile(`(?i)on\w+=`)
	htmlEntityPattern     = regexp.MustCompile(`&lt;|&gt;|&quot;|&#39;|&#x2F;`)
	hexEscapePattern      = regexp.MustCompile(`\\x[0-9A-Fa-f]{2}`)
	unicodeEscapePattern  = regexp.MustCompile(`\\u[0-9A-Fa-f]{4}`)
)

// Sanitize strips HTML tags, script-capable protocol prefixes, inline
// event-handler attributes, entity-encoded angle/quote characters,
// hex/unicode escape sequences and C0/C1 control characters, then trims
// surrounding whitespace. It never inserts characters: the output is
// always a subset of the input's characters.
//
// Removing a pattern can splice the surrounding text into a new match
// ("javajavascript:script:" still carries a protocol prefix after one
// pass), so the strip runs to a fixpoint. That is what makes Sanitize
// idempotent.
func Sanitize(input string) string {
	out := input
	for {
		next := strings.TrimSpace(stripOnce(out))
		if next == out {
			return out
		}
		out = next
	}
}

func stripOnce(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = scriptProtocolPattern.ReplaceAllString(s, "")
	s = eventHandlerPattern.ReplaceAllString(s, "")
	s = htmlEntityPattern.ReplaceAllString(s, "")
	s = hexEscapePattern.ReplaceAllString(s, "")
	s = unicodeEscapePattern.ReplaceAllString(s, "")
	return strings.Map(dropControl, s)
}

// dropControl removes C0 and C1 control characters (U+0000..U+001F,
// U+007F..U+009F).
func dropControl(r rune) rune {
	if r <= 0x1f || (r >= 0x7f && r <= 0x9f) {
		return -1
	}
	return r
}
