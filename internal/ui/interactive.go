package ui

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Interactive is the terminal Gateway. Choose runs a filterable list picker;
// InputText and Confirm run single-field huh forms.
type Interactive struct {
	in  io.Reader
	out io.Writer
}

// NewInteractive creates a terminal gateway. Nil streams default to
// stdin and stderr so stdout stays free for command output.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &Interactive{in: in, out: out}
}

func (i *Interactive) Choose(ctx context.Context, choices []Choice, placeholder string) (Answer[Choice], error) {
	if ctx.Err() != nil {
		return Cancelled[Choice](), nil
	}
	if len(choices) == 0 {
		return Cancelled[Choice](), nil
	}

	program := tea.NewProgram(
		newPickerModel(choices, placeholder),
		tea.WithContext(ctx),
		tea.WithInput(i.in),
		tea.WithOutput(i.out),
	)
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil || stderrors.Is(err, tea.ErrProgramKilled) {
			return Cancelled[Choice](), nil
		}
		return Answer[Choice]{}, fmt.Errorf("failed to run picker: %w", err)
	}

	model, ok := final.(pickerModel)
	if !ok {
		return Answer[Choice]{}, fmt.Errorf("unexpected picker model %T", final)
	}
	return model.result(), nil
}

func (i *Interactive) InputText(ctx context.Context, req InputRequest) (Answer[string], error) {
	value := req.Value
	field := huh.NewInput().
		Title(req.Prompt).
		Value(&value)
	if req.Validate != nil {
		field = field.Validate(req.Validate)
	}

	cancelled, err := i.run(ctx, field)
	if err != nil {
		return Answer[string]{}, err
	}
	if cancelled {
		return Cancelled[string](), nil
	}
	return Answered(value), nil
}

func (i *Interactive) Confirm(ctx context.Context, question string, choices ...string) (Answer[bool], error) {
	yes, no := confirmChoices(choices)
	var confirmed bool
	field := huh.NewConfirm().
		Title(question).
		Affirmative(yes).
		Negative(no).
		Value(&confirmed)

	cancelled, err := i.run(ctx, field)
	if err != nil {
		return Answer[bool]{}, err
	}
	if cancelled {
		return Cancelled[bool](), nil
	}
	return Answered(confirmed), nil
}

// run shows a one-field form. Aborting the form or cancelling ctx is
// reported as cancelled rather than as an error.
func (i *Interactive) run(ctx context.Context, field huh.Field) (bool, error) {
	if ctx.Err() != nil {
		return true, nil
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(i.in).
		WithOutput(i.out).
		WithTheme(huh.ThemeCharm())

	if err := form.RunWithContext(ctx); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
			return true, nil
		}
		return false, fmt.Errorf("failed to run prompt: %w", err)
	}
	return false, nil
}
