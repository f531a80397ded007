package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/dpshade/foam-notes/internal/config"
	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/models"
	"github.com/dpshade/foam-notes/internal/renderer"
	"github.com/dpshade/foam-notes/internal/storage"
	"github.com/dpshade/foam-notes/internal/ui"
	"github.com/dpshade/foam-notes/internal/validation"
)

// Prompt texts shown by the orchestrator
const (
	NoTemplatesQuestion = "No templates available. Would you like to create one instead?"
	NewTemplatePrompt   = "Enter the path for the new template"
	NewTemplateLabel    = "New Template..."
	SelectPlaceholder   = "Select a template to use."
	OverwriteChoice     = "Overwrite"
	CancelChoice        = "Cancel"
)

// DefaultTemplateContent is used when the default template file is missing
const DefaultTemplateContent = "# ${FOAM_TITLE}\n\n"

// newTemplateFile is the suggested file name for create-new-template
const newTemplateFile = "new-template.md"

// unsafeFileChars are replaced when a file name is derived from a title
var unsafeFileChars = strings.NewReplacer(
	"/", "-", `\`, "-", ":", "-", "*", "-", "?", "-", `"`, "-",
	"<", "-", ">", "-", "|", "-", "#", "-", "^", "-", "[", "-", "]", "-",
)

// TemplateStore is the template persistence the service depends on
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]*models.Template, error)
	ReadTemplate(ctx context.Context, path string) (*models.Template, error)
	CreateTemplate(ctx context.Context, path, content string) (*models.Template, error)
}

// NoteWriter persists rendered notes
type NoteWriter interface {
	Write(ctx context.Context, path string, content []byte, overwrite bool) error
}

// NoteOptions carries caller-supplied inputs for one note creation
type NoteOptions struct {
	// Title is the working title; empty means prompt for it when needed.
	Title string
	// Template selects a template by path, name or fuzzy query.
	Template string
	// Date drives the FOAM_DATE values. Zero means now.
	Date time.Time
}

// Service orchestrates note creation from templates. It holds no
// per-invocation state, so one Service may serve concurrent invocations.
type Service struct {
	settings  *config.Settings
	templates TemplateStore
	writer    NoteWriter
	gateway   ui.Gateway
	resolver  *renderer.Resolver
	log       zerolog.Logger
	now       func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithTemplateStore replaces the filesystem template store
func WithTemplateStore(store TemplateStore) Option {
	return func(s *Service) { s.templates = store }
}

// WithNoteWriter replaces the safe writer
func WithNoteWriter(w NoteWriter) Option {
	return func(s *Service) { s.writer = w }
}

// WithClock sets the time source used when no date is supplied
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service for the workspace described by settings,
// prompting through gateway
func NewService(settings *config.Settings, gateway ui.Gateway, log zerolog.Logger, opts ...Option) *Service {
	log = log.With().Str("component", "service").Logger()
	svc := &Service{
		settings:  settings,
		templates: storage.NewTemplateStore(settings.WorkspaceRoot, settings.TemplatesDir, log),
		writer:    storage.NewSafeWriter(log),
		gateway:   gateway,
		resolver:  renderer.NewResolver(gateway, log),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Settings returns the workspace settings the service was built with
func (s *Service) Settings() *config.Settings {
	return s.settings
}

// ListTemplates returns the templates currently present in the workspace
func (s *Service) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	return s.templates.ListTemplates(ctx)
}

// CreateNoteFromTemplate lets the user pick a template, resolves its
// placeholders and writes the resulting note. With no templates present
// the user is offered to create one instead.
func (s *Service) CreateNoteFromTemplate(ctx context.Context, opts NoteOptions) models.CreationOutcome {
	log := s.log.With().Str("command", "create-note-from-template").Logger()

	templates, err := s.templates.ListTemplates(ctx)
	if err != nil {
		return s.finish(log, models.Failed(err))
	}

	if len(templates) == 0 {
		return s.finish(log, s.offerTemplateCreation(ctx))
	}

	tmpl, outcome, selected := s.selectTemplate(ctx, templates, opts.Template)
	if !selected {
		return s.finish(log, outcome)
	}
	log.Debug().Str("template", tmpl.FilePath).Msg("template selected")

	return s.finish(log, s.createFromTemplate(ctx, tmpl, opts))
}

// CreateNoteFromDefaultTemplate creates a note from the configured default
// template, falling back to a title-only note when it does not exist
func (s *Service) CreateNoteFromDefaultTemplate(ctx context.Context, opts NoteOptions) models.CreationOutcome {
	log := s.log.With().Str("command", "create-note-from-default-template").Logger()

	path := s.settings.DefaultTemplatePath()
	tmpl, err := s.templates.ReadTemplate(ctx, path)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeNotFound) {
			return s.finish(log, models.Failed(err))
		}
		log.Debug().Str("path", path).Msg("default template missing, using built-in default")
		if tmpl, err = storage.ParseTemplate("", DefaultTemplateContent); err != nil {
			return s.finish(log, models.Failed(err))
		}
	}

	return s.finish(log, s.createFromTemplate(ctx, tmpl, opts))
}

// CreateNewTemplate asks for a path and writes a starter template there
func (s *Service) CreateNewTemplate(ctx context.Context) models.CreationOutcome {
	log := s.log.With().Str("command", "create-new-template").Logger()
	return s.finish(log, s.createNewTemplate(ctx))
}

func (s *Service) createNewTemplate(ctx context.Context) models.CreationOutcome {
	rule := validation.NonEmpty("template path")
	req := ui.InputRequest{
		Prompt:   NewTemplatePrompt,
		Value:    filepath.Join(s.settings.TemplatesRoot(), newTemplateFile),
		Validate: rule.Func(),
	}

	var path string
	for {
		answer, err := s.gateway.InputText(ctx, req)
		if err != nil {
			return models.Failed(err)
		}
		value, ok := answer.Get()
		if !ok {
			return models.Cancelled()
		}
		if checkErr := rule.Check(value); checkErr != nil {
			req.Prompt = fmt.Sprintf("%s (%s)", NewTemplatePrompt, errors.GetAppError(checkErr).Message)
			req.Value = value
			continue
		}
		path = s.settings.Resolve(strings.TrimSpace(value))
		break
	}

	if _, err := s.templates.CreateTemplate(ctx, path, storage.StarterTemplate); err != nil {
		return models.Failed(err)
	}
	return models.Created(path)
}

// offerTemplateCreation runs when the workspace has no templates. The
// outcome of the template creation becomes the invocation's outcome.
func (s *Service) offerTemplateCreation(ctx context.Context) models.CreationOutcome {
	answer, err := s.gateway.Confirm(ctx, NoTemplatesQuestion, ui.Yes, ui.No)
	if err != nil {
		return models.Failed(err)
	}
	if yes, ok := answer.Get(); !ok || !yes {
		return models.Cancelled()
	}
	return s.createNewTemplate(ctx)
}

// selectTemplate picks the template for this invocation. When selected is
// false, outcome is terminal.
func (s *Service) selectTemplate(ctx context.Context, templates []*models.Template, query string) (tmpl *models.Template, outcome models.CreationOutcome, selected bool) {
	candidates := templates
	withNew := true
	if query = strings.TrimSpace(query); query != "" {
		candidates = s.matchTemplates(templates, query)
		switch len(candidates) {
		case 0:
			return nil, models.Failed(errors.NotFoundError(fmt.Sprintf("template matching %q", query))), false
		case 1:
			return candidates[0], models.CreationOutcome{}, true
		}
		withNew = false
	}

	choices := make([]ui.Choice, 0, len(candidates)+1)
	for _, t := range candidates {
		choices = append(choices, ui.Choice{
			Label:       t.Title(),
			Description: s.describeTemplate(t),
			Value:       t.FilePath,
		})
	}
	if withNew {
		choices = append(choices, ui.Choice{
			Label:       NewTemplateLabel,
			Description: "Create a new template",
		})
	}

	answer, err := s.gateway.Choose(ctx, choices, SelectPlaceholder)
	if err != nil {
		return nil, models.Failed(err), false
	}
	choice, ok := answer.Get()
	if !ok {
		return nil, models.Cancelled(), false
	}
	if choice.Value == "" {
		return nil, s.createNewTemplate(ctx), false
	}
	for _, t := range candidates {
		if t.FilePath == choice.Value {
			return t, models.CreationOutcome{}, true
		}
	}
	return nil, models.Failed(errors.InternalError("selected template is not available")), false
}

// matchTemplates returns the templates an explicit query names exactly,
// or else its fuzzy matches in ranking order
func (s *Service) matchTemplates(templates []*models.Template, query string) []*models.Template {
	asPath := s.settings.Resolve(query)
	inTemplates := filepath.Join(s.settings.TemplatesRoot(), query)

	var exact []*models.Template
	for _, t := range templates {
		base := filepath.Base(t.FilePath)
		if t.FilePath == asPath || t.FilePath == inTemplates ||
			strings.EqualFold(t.Title(), query) ||
			strings.EqualFold(base, query) ||
			strings.EqualFold(strings.TrimSuffix(base, filepath.Ext(base)), query) {
			exact = append(exact, t)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	targets := make([]string, len(templates))
	for i, t := range templates {
		targets[i] = t.FilterValue()
	}
	var matched []*models.Template
	for _, m := range fuzzy.Find(query, targets) {
		matched = append(matched, templates[m.Index])
	}
	return matched
}

func (s *Service) describeTemplate(t *models.Template) string {
	if t.Metadata.Description != "" {
		return t.Metadata.Description
	}
	return s.displayPath(t.FilePath)
}

// createFromTemplate resolves, renders and writes a note from tmpl
func (s *Service) createFromTemplate(ctx context.Context, tmpl *models.Template, opts NoteOptions) models.CreationOutcome {
	date := opts.Date
	if date.IsZero() {
		date = s.now()
	}
	rc := renderer.Context{
		Title:      strings.TrimSpace(opts.Title),
		Date:       date,
		DateFormat: s.settings.DateFormat,
	}

	// Without a destination pattern the file name comes from the title, so
	// FOAM_TITLE is always resolved. A template with its own filepath is only
	// asked for a title when it uses FOAM_TITLE somewhere.
	var extra []string
	if tmpl.Metadata.FilePath == "" {
		extra = append(extra, renderer.VarTitle)
	}

	answer, err := s.resolver.Resolve(ctx, tmpl, rc, extra...)
	if err != nil {
		return models.Failed(err)
	}
	values, ok := answer.Get()
	if !ok {
		return models.Cancelled()
	}

	req := &models.NoteCreationRequest{Template: tmpl, Values: values}
	if req.Destination, err = s.destination(tmpl, values); err != nil {
		return models.Failed(err)
	}

	body, err := storage.StripTemplateMetadata(tmpl.Content)
	if err != nil {
		return models.Failed(errors.InvalidFormatError("template "+tmpl.FilePath, err))
	}
	rendered, err := renderer.Render(body, values)
	if err != nil {
		return models.Failed(err)
	}
	req.Content = []byte(rendered)

	return s.write(ctx, req)
}

// destination computes the absolute note path from the template's filepath
// pattern, or from the title when there is none
func (s *Service) destination(tmpl *models.Template, values map[string]string) (string, error) {
	var name string
	if tmpl.Metadata.FilePath != "" {
		rendered, err := renderer.Render(tmpl.Metadata.FilePath, values)
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(rendered)
	} else {
		name = strings.TrimSpace(unsafeFileChars.Replace(values[renderer.VarTitle]))
	}

	if name == "" {
		return "", errors.ValidationError("note destination is empty")
	}
	if !strings.EqualFold(filepath.Ext(name), ".md") {
		name += ".md"
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.settings.NotesRoot(), name)
	}
	return filepath.Clean(name), nil
}

// write persists the note without clobbering. An existing destination is
// only replaced after the user confirms it for this exact path.
func (s *Service) write(ctx context.Context, req *models.NoteCreationRequest) models.CreationOutcome {
	err := s.writer.Write(ctx, req.Destination, req.Content, false)
	if err == nil {
		return models.Created(req.Destination)
	}
	if !errors.HasCode(err, errors.ErrCodeConflict) || s.settings.Overwrite == config.OverwriteFail {
		return models.Failed(err)
	}

	question := fmt.Sprintf("%s already exists. Overwrite it?", s.displayPath(req.Destination))
	answer, confirmErr := s.gateway.Confirm(ctx, question, OverwriteChoice, CancelChoice)
	if confirmErr != nil {
		return models.Failed(confirmErr)
	}
	if yes, ok := answer.Get(); !ok || !yes {
		return models.Cancelled()
	}

	if err := s.writer.Write(ctx, req.Destination, req.Content, true); err != nil {
		return models.Failed(err)
	}
	return models.Created(req.Destination)
}

// displayPath shortens paths inside the workspace for prompts
func (s *Service) displayPath(path string) string {
	rel, err := filepath.Rel(s.settings.WorkspaceRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// finish logs the terminal outcome once and returns it. Failures are
// reported to the user by the caller, so they are only logged at debug.
func (s *Service) finish(log zerolog.Logger, outcome models.CreationOutcome) models.CreationOutcome {
	switch outcome.Kind {
	case models.OutcomeCreated:
		log.Info().Str("path", outcome.Path).Msg("created")
	case models.OutcomeCancelled:
		log.Info().Msg("cancelled by user")
	case models.OutcomeFailed:
		log.Debug().Err(outcome.Err).Msg("failed")
	}
	return outcome
}
