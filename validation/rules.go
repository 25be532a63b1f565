// Package validation is the single home of the per-field rule table and
// the form-level guard. Every call site validates through this table;
// there is deliberately no second copy of any charset or limit.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"estate-bridge/domain"
)

// Cities is the fixed set of accepted listing locations.
var Cities = []string{
	"Jerusalem", "Tel Aviv", "Haifa", "Rishon LeZion",
	"Petah Tikva", "Ashdod", "Netanya", "Beer Sheva",
	"Holon", "Bnei Brak",
}

var (
	idCharset    = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	priceCharset = regexp.MustCompile(`^\d*\.?\d*$`)

	// maxPrice is 1,000,000 in base units.
	maxPrice = mustAmount("1000000")
)

func mustAmount(s string) domain.Amount {
	a, err := domain.ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	mustRegister(v, "listing_id", func(fl validator.FieldLevel) bool {
		return idCharset.MatchString(fl.Field().String())
	})
	mustRegister(v, "single_line", func(fl validator.FieldLevel) bool {
		return !strings.Contains(fl.Field().String(), "\n")
	})
	mustRegister(v, "max_4_lines", func(fl validator.FieldLevel) bool {
		return len(strings.Split(fl.Field().String(), "\n")) <= 4
	})
	mustRegister(v, "city", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, city := range Cities {
			if value == city {
				return true
			}
		}
		return false
	})
	mustRegister(v, "price_format", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if !priceCharset.MatchString(value) {
			return false
		}
		_, err := domain.ParseAmount(value)
		return err == nil
	})
	mustRegister(v, "price_positive", func(fl validator.FieldLevel) bool {
		amount, err := domain.ParseAmount(fl.Field().String())
		return err == nil && amount.Sign() > 0
	})
	mustRegister(v, "price_ceiling", func(fl validator.FieldLevel) bool {
		amount, err := domain.ParseAmount(fl.Field().String())
		return err == nil && amount.Cmp(maxPrice) <= 0
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q: %v", tag, err))
	}
}

type rule struct {
	tag     string
	message string
}

// fieldRules is the canonical rule table. Rules run in order and the
// first failure wins, so cheap syntactic checks precede range checks.
var fieldRules = map[domain.FieldName]struct {
	required bool
	rules    []rule
}{
	domain.FieldID: {required: true, rules: []rule{
		{"listing_id", "ID can only contain letters, numbers, and hyphens"},
		{"max=50", "ID must not exceed 50 characters"},
	}},
	domain.FieldTitle: {required: true, rules: []rule{
		{"single_line", "Title must be a single line"},
		{"max=100", "Title must not exceed 100 characters"},
	}},
	domain.FieldDescription: {required: true, rules: []rule{
		{"max_4_lines", "Description cannot exceed 4 lines"},
		{"max=500", "Description must not exceed 500 characters"},
	}},
	domain.FieldLocation: {required: true, rules: []rule{
		{"city", "Please select a valid city from the list"},
	}},
	domain.FieldPrice: {required: true, rules: []rule{
		{"price_format", "Please enter a valid number"},
		{"price_positive", "Price must be greater than 0"},
		{"price_ceiling", "Price cannot exceed 1,000,000"},
	}},
}

// FieldError reports a single failed field with its user-facing message.
type FieldError struct {
	Field   domain.FieldName
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Field checks one value against the canonical rule table. It returns
// nil when the value passes, a *FieldError otherwise. Fields without a
// table entry are rejected rather than silently accepted.
func Field(name domain.FieldName, value string) error {
	entry, ok := fieldRules[name]
	if !ok {
		return &FieldError{Field: name, Message: "Unknown field"}
	}

	if strings.TrimSpace(value) == "" {
		if entry.required {
			return &FieldError{Field: name, Message: "This field is required"}
		}
		return nil
	}

	for _, r := range entry.rules {
		if err := validate.Var(value, r.tag); err != nil {
			return &FieldError{Field: name, Message: r.message}
		}
	}
	return nil
}
