package ui

import "context"

// Answer is the outcome of one prompt: either a value or a cancellation.
// Cancellation is a normal result, distinct from both a present value and
// an error.
type Answer[T any] struct {
	value     T
	cancelled bool
}

// Answered wraps a value supplied by the user
func Answered[T any](v T) Answer[T] {
	return Answer[T]{value: v}
}

// Cancelled reports that the user dismissed the prompt
func Cancelled[T any]() Answer[T] {
	return Answer[T]{cancelled: true}
}

// Get returns the value and true, or the zero value and false when cancelled
func (a Answer[T]) Get() (T, bool) {
	return a.value, !a.cancelled
}

// IsCancelled reports whether the prompt was dismissed
func (a Answer[T]) IsCancelled() bool {
	return a.cancelled
}

// Choice is one labeled entry offered by Choose
type Choice struct {
	Label       string
	Description string
	Value       string
}

func (c Choice) FilterValue() string { return c.Label }

// InputRequest describes a free-text prompt
type InputRequest struct {
	Prompt   string
	Value    string // pre-filled text
	Validate func(string) error
}

// Default confirmation labels; the first one means yes.
const (
	Yes = "Yes"
	No  = "No"
)

// Gateway abstracts every user prompt of the note-creation workflow. Each
// call is a single suspend point. Errors are reserved for failures such as
// a missing terminal; user cancellation is reported through Answer.
type Gateway interface {
	// Choose asks the user to pick one of choices.
	Choose(ctx context.Context, choices []Choice, placeholder string) (Answer[Choice], error)
	// InputText asks for free text, pre-filled with req.Value.
	InputText(ctx context.Context, req InputRequest) (Answer[string], error)
	// Confirm asks a question answered by one of choices (default Yes, No).
	// The first choice means true.
	Confirm(ctx context.Context, question string, choices ...string) (Answer[bool], error)
}

func confirmChoices(choices []string) (string, string) {
	yes, no := Yes, No
	if len(choices) > 0 && choices[0] != "" {
		yes = choices[0]
	}
	if len(choices) > 1 && choices[1] != "" {
		no = choices[1]
	}
	return yes, no
}
