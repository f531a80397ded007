// Package validation provides placeholder value validation.
//
// SYSTEM ARCHITECTURE ROLE:
// Placeholders declared in a template may carry rules (required, length
// bounds, pattern). The resolver compiles those declarations into Rules
// and checks every value a user types before it is substituted.
//
// VALIDATION FLOW:
// 1. renderer.Resolver builds a Rule from the placeholder declaration
// 2. The rule is handed to the Interaction Gateway so interactive inputs
//    can reject bad values inline
// 3. The resolver re-checks the returned value; a failure is a
//    VALIDATION_ERROR recovered locally by prompting again
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/models"
)

// Rule validates a single placeholder value
type Rule struct {
	Field     string
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// NonEmpty returns a rule that only rejects blank values
func NonEmpty(field string) *Rule {
	return &Rule{Field: field, Required: true}
}

// RuleFor compiles the rule declared for a placeholder. A nil rule means
// any value is accepted.
func RuleFor(p models.Placeholder) (*Rule, error) {
	if !p.Required && p.MinLength == 0 && p.MaxLength == 0 && p.Pattern == "" {
		return nil, nil
	}

	rule := &Rule{
		Field:     p.Name,
		Required:  p.Required,
		MinLength: p.MinLength,
		MaxLength: p.MaxLength,
	}
	if p.Pattern != "" {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, errors.InvalidFormatError(fmt.Sprintf("pattern for placeholder '%s'", p.Name), err)
		}
		rule.Pattern = re
	}
	return rule, nil
}

// Check validates value, returning a VALIDATION_ERROR AppError wrapping the
// first violated constraint
func (r *Rule) Check(value string) error {
	if r == nil {
		return nil
	}
	if err := r.check(value); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, err.Message).
			WithContext("field", r.Field)
	}
	return nil
}

func (r *Rule) check(value string) *ValidationError {
	if r.Required && strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   r.Field,
			Code:    "REQUIRED_FIELD_MISSING",
			Message: fmt.Sprintf("%s must not be empty", r.Field),
		}
	}

	length := utf8.RuneCountInString(value)
	if r.MinLength > 0 && length < r.MinLength {
		return &ValidationError{
			Field:   r.Field,
			Code:    "MIN_LENGTH_VIOLATION",
			Message: fmt.Sprintf("%s must be at least %d characters long", r.Field, r.MinLength),
			Value:   value,
		}
	}
	if r.MaxLength > 0 && length > r.MaxLength {
		return &ValidationError{
			Field:   r.Field,
			Code:    "MAX_LENGTH_VIOLATION",
			Message: fmt.Sprintf("%s must be at most %d characters long", r.Field, r.MaxLength),
			Value:   value,
		}
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return &ValidationError{
			Field:   r.Field,
			Code:    "PATTERN_MISMATCH",
			Message: fmt.Sprintf("%s does not match %s", r.Field, r.Pattern.String()),
			Value:   value,
		}
	}
	return nil
}

// Func adapts the rule to the func(string) error shape used by input fields
func (r *Rule) Func() func(string) error {
	if r == nil {
		return nil
	}
	return func(s string) error {
		if err := r.check(s); err != nil {
			return err
		}
		return nil
	}
}
