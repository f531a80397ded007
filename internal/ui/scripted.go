package ui

import (
	"context"
	"fmt"
	"sync"
)

// CallKind identifies which Gateway primitive was invoked
type CallKind string

const (
	CallChoose  CallKind = "choose"
	CallInput   CallKind = "input"
	CallConfirm CallKind = "confirm"
)

// Call records one Gateway invocation made against a Scripted gateway
type Call struct {
	Kind        CallKind
	Prompt      string   // input prompt, confirm question or choose placeholder
	Value       string   // input prefill
	Labels      []string // choice labels or confirm choices
	HasValidate bool
}

// Step is one predetermined answer
type Step struct {
	kind      CallKind
	text      string
	confirm   bool
	cancelled bool
}

// Pick answers a Choose call with the choice carrying label
func Pick(label string) Step { return Step{kind: CallChoose, text: label} }

// Type answers an InputText call with text
func Type(text string) Step { return Step{kind: CallInput, text: text} }

// ConfirmWith answers a Confirm call
func ConfirmWith(yes bool) Step { return Step{kind: CallConfirm, confirm: yes} }

// Dismiss cancels the next prompt, whatever its kind
func Dismiss() Step { return Step{cancelled: true} }

// Scripted is a Gateway that replays predetermined answers and records every
// call. It is safe for concurrent use.
type Scripted struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
}

// NewScripted returns a gateway answering prompts with steps, in order
func NewScripted(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

// Calls returns a copy of the recorded calls
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsOf returns the recorded calls of one kind
func (s *Scripted) CallsOf(kind CallKind) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Remaining returns the number of unused steps
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}

func (s *Scripted) next(call Call) (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if len(s.steps) == 0 {
		return Step{}, fmt.Errorf("scripted gateway: unexpected %s prompt %q", call.Kind, call.Prompt)
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if !step.cancelled && step.kind != call.Kind {
		return Step{}, fmt.Errorf("scripted gateway: got %s prompt %q, script expected %s", call.Kind, call.Prompt, step.kind)
	}
	return step, nil
}

func (s *Scripted) Choose(ctx context.Context, choices []Choice, placeholder string) (Answer[Choice], error) {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	step, err := s.next(Call{Kind: CallChoose, Prompt: placeholder, Labels: labels})
	if err != nil {
		return Answer[Choice]{}, err
	}
	if step.cancelled || ctx.Err() != nil {
		return Cancelled[Choice](), nil
	}
	for _, c := range choices {
		if c.Label == step.text {
			return Answered(c), nil
		}
	}
	return Answer[Choice]{}, fmt.Errorf("scripted gateway: no choice labeled %q among %v", step.text, labels)
}

// InputText returns the scripted text. The validator is not applied here;
// callers own the re-prompt loop.
func (s *Scripted) InputText(ctx context.Context, req InputRequest) (Answer[string], error) {
	step, err := s.next(Call{Kind: CallInput, Prompt: req.Prompt, Value: req.Value, HasValidate: req.Validate != nil})
	if err != nil {
		return Answer[string]{}, err
	}
	if step.cancelled || ctx.Err() != nil {
		return Cancelled[string](), nil
	}
	return Answered(step.text), nil
}

func (s *Scripted) Confirm(ctx context.Context, question string, choices ...string) (Answer[bool], error) {
	yes, no := confirmChoices(choices)
	step, err := s.next(Call{Kind: CallConfirm, Prompt: question, Labels: []string{yes, no}})
	if err != nil {
		return Answer[bool]{}, err
	}
	if step.cancelled || ctx.Err() != nil {
		return Cancelled[bool](), nil
	}
	return Answered(step.confirm), nil
}
