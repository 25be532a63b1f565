package validation

import (
	"estate-bridge/domain"
	"estate-bridge/security"
)

// Result maps field names to user-facing error messages. An empty
// result means the draft is submission-eligible.
type Result map[domain.FieldName]string

func (r Result) Valid() bool {
	return len(r) == 0
}

// Error is the client-only failure carried by a rejected submission.
// It never corresponds to a network call.
type Error struct {
	Fields Result
}

func (e *Error) Error() string {
	return "draft failed validation"
}

// Guard aggregates the per-field rule table with the security scan.
type Guard struct {
	scanner *security.Scanner
}

func NewGuard() (*Guard, error) {
	scanner, err := security.NewScanner()
	if err != nil {
		return nil, err
	}
	return &Guard{scanner: scanner}, nil
}

// Check validates every draft field, then scans every field for
// dangerous patterns. A security finding overrides whatever the rule
// table said about that field: an injection attempt must never be
// reported as a length problem.
func (g *Guard) Check(draft domain.Draft) Result {
	result := Result{}

	for _, name := range domain.FieldNames {
		if err := Field(name, draft.Field(name).Raw); err != nil {
			result[name] = err.(*FieldError).Message
		}
	}

	for _, name := range domain.FieldNames {
		if message, hit := g.scanner.Scan(draft.Field(name).Raw); hit {
			result[name] = message
		}
	}

	return result
}

// Apply is the pure per-edit reduction: it sanitizes the edited value
// into the draft and recomputes the full validation result, so the
// result is never partially stale.
func (g *Guard) Apply(draft domain.Draft, edit domain.Edit) (domain.Draft, Result) {
	next := draft.WithField(edit.Field, edit.Value, security.Sanitize(edit.Value))
	return next, g.Check(next)
}
