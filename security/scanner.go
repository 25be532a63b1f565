package security

import (
	"regexp"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// detector is one dangerous-pattern rule. Literal tokens are matched by
// the Aho-Corasick machine over a lowercased view of the input; token
// "" marks the one regexp-based rule (inline event handlers).
type detector struct {
	token   string
	message string
}

// detectors is the fixed, ordered rule list. When several patterns hit
// the same field the earliest rule here supplies the message.
var detectors = []detector{
	{"<script", "Script tags are not allowed"},
	{"javascript:", "JavaScript protocol is not allowed"},
	{"", "Event handlers are not allowed"},
	{"data:", "Data URI schemes are not allowed"},
	{"eval(", "Eval functions are not allowed"},
	{"function(", "Dynamic functions are not allowed"},
	{"localstorage", "Local storage access is not allowed"},
	{"sessionstorage", "Session storage access is not allowed"},
	{"document.cookie", "Cookie manipulation is not allowed"},
}

var scanEventHandler = regexp.MustCompile(`(?i)on\w+=`)

// Scanner detects script-injection patterns in user input. It is
// independent of the Sanitizer: FormGuard scans the raw value so that a
// hostile field is reported, not silently cleaned.
type Scanner struct {
	matcher *goahocorasick.Machine
}

func NewScanner() (*Scanner, error) {
	patterns := make([][]rune, 0, len(detectors))
	for _, d := range detectors {
		if d.token == "" {
			continue
		}
		patterns = append(patterns, []rune(d.token))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Scanner{matcher: m}, nil
}

// Scan reports the message of the first matching detector, in rule
// order, or ok=false when the value is clean.
func (s *Scanner) Scan(value string) (string, bool) {
	if value == "" {
		return "", false
	}

	lowered := []rune(strings.ToLower(value))
	hits := make(map[string]struct{})
	for _, term := range s.matcher.MultiPatternSearch(lowered, false) {
		hits[string(term.Word)] = struct{}{}
	}

	for _, d := range detectors {
		if d.token == "" {
			if scanEventHandler.MatchString(value) {
				return d.message, true
			}
			continue
		}
		if _, ok := hits[d.token]; ok {
			return d.message, true
		}
	}
	return "", false
}
