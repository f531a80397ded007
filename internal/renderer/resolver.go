package renderer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/models"
	"github.com/dpshade/foam-notes/internal/ui"
	"github.com/dpshade/foam-notes/internal/validation"
)

// Resolver computes a value for every placeholder of a template, prompting
// through the gateway for anything it cannot compute
type Resolver struct {
	gateway ui.Gateway
	log     zerolog.Logger
}

// NewResolver creates a resolver prompting through gateway
func NewResolver(gateway ui.Gateway, log zerolog.Logger) *Resolver {
	return &Resolver{
		gateway: gateway,
		log:     log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve returns a complete name to value mapping for tmpl's placeholders
// plus any extra names the caller needs (for example FOAM_TITLE when the
// destination is derived from the title).
//
// Each name is resolved from, in order: a built-in value, the declared
// default, the inline ${NAME:default}, and finally a prompt. A computed
// value is only prompted for when its declaration sets prompt: true or it
// fails the declared rule. If any prompt is cancelled the whole resolution
// is cancelled and no values are returned.
func (r *Resolver) Resolve(ctx context.Context, tmpl *models.Template, rc Context, extra ...string) (ui.Answer[map[string]string], error) {
	names := resolutionOrder(tmpl.Placeholders, extra)
	inline := InlineDefaults(tmpl.Content, tmpl.Metadata.FilePath)
	values := make(map[string]string, len(names))

	for _, name := range names {
		if ctx.Err() != nil {
			return ui.Cancelled[map[string]string](), nil
		}

		decl, declared := tmpl.Declaration(name)
		rule, err := ruleFor(name, decl, declared)
		if err != nil {
			return ui.Answer[map[string]string]{}, err
		}

		value, known := builtinValue(name, rc, values)
		if !known && declared && decl.HasDefault() {
			value, known = decl.Default, true
		}
		if !known {
			value, known = inline[name]
		}

		reason := ""
		if known && !(declared && decl.Prompt) {
			checkErr := rule.Check(value)
			if checkErr == nil {
				values[name] = value
				continue
			}
			reason = failureReason(checkErr)
			r.log.Debug().Str("placeholder", name).Str("reason", reason).Msg("computed value rejected, prompting")
		}

		prompt := describe(name)
		if declared && decl.Description != "" {
			prompt = decl.Description
		}
		prefill := value
		if name == VarTitle {
			prompt = TitlePrompt
			if !known {
				prefill = TitlePrefill
			}
		}

		answer, err := r.ask(ctx, prompt, prefill, reason, rule)
		if err != nil {
			return ui.Answer[map[string]string]{}, err
		}
		typed, ok := answer.Get()
		if !ok {
			r.log.Debug().Str("placeholder", name).Msg("prompt cancelled")
			return ui.Cancelled[map[string]string](), nil
		}
		values[name] = typed
	}

	return ui.Answered(values), nil
}

// ask prompts until the value passes rule or the user cancels. A rejected
// value is offered back with the reason appended to the prompt.
func (r *Resolver) ask(ctx context.Context, prompt, prefill, reason string, rule *validation.Rule) (ui.Answer[string], error) {
	for {
		text := prompt
		if reason != "" {
			text = fmt.Sprintf("%s (%s)", prompt, reason)
		}

		answer, err := r.gateway.InputText(ctx, ui.InputRequest{
			Prompt:   text,
			Value:    prefill,
			Validate: rule.Func(),
		})
		if err != nil {
			return answer, err
		}
		value, ok := answer.Get()
		if !ok {
			return answer, nil
		}

		if checkErr := rule.Check(value); checkErr != nil {
			reason = failureReason(checkErr)
			prefill = value
			r.log.Debug().Str("reason", reason).Msg("value rejected, prompting again")
			continue
		}
		return answer, nil
	}
}

// resolutionOrder lists names in first-use order followed by extras, with
// FOAM_TITLE always ahead of FOAM_SLUG since the slug is derived from it
func resolutionOrder(names, extra []string) []string {
	seen := make(map[string]bool, len(names)+len(extra))
	var order []string
	add := func(name string) {
		if seen[name] {
			return
		}
		if name == VarSlug && !seen[VarTitle] {
			seen[VarTitle] = true
			order = append(order, VarTitle)
		}
		seen[name] = true
		order = append(order, name)
	}
	for _, name := range names {
		add(name)
	}
	for _, name := range extra {
		add(name)
	}
	return order
}

func ruleFor(name string, decl models.Placeholder, declared bool) (*validation.Rule, error) {
	var rule *validation.Rule
	if declared {
		var err error
		if rule, err = validation.RuleFor(decl); err != nil {
			return nil, err
		}
	}
	if name == VarTitle {
		if rule == nil {
			rule = validation.NonEmpty(VarTitle)
		}
		rule.Required = true
	}
	return rule, nil
}

func failureReason(err error) string {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
