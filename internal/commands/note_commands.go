package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/models"
	"github.com/dpshade/foam-notes/internal/renderer"
	"github.com/dpshade/foam-notes/internal/service"
)

// NoteResult is the Data of a successful creation
type NoteResult struct {
	Path string `json:"path"`
}

// TemplateInfo summarizes a template for listing
type TemplateInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Path         string   `json:"path"`
	Destination  string   `json:"destination,omitempty"`
	// Placeholders are the values a user may be asked for; Builtins are
	// computed from the title and date.
	Placeholders []string `json:"placeholders,omitempty"`
	Builtins     []string `json:"builtins,omitempty"`
}

// noteParams holds the parameters shared by the note creation commands
type noteParams struct {
	Title string
	Date  time.Time
}

func (p *noteParams) set(params map[string]interface{}) error {
	if title, ok := params["title"].(string); ok {
		p.Title = title
	}
	switch date := params["date"].(type) {
	case time.Time:
		p.Date = date
	case string:
		if date == "" {
			break
		}
		parsed, err := renderer.ParseDate(date, time.Now())
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("invalid date %q", date))
		}
		p.Date = parsed
	}
	return nil
}

// outcomeResult maps a creation outcome onto a command result. Failed
// outcomes become errors so the executor reports them uniformly.
func outcomeResult(outcome models.CreationOutcome) (*CommandResult, error) {
	switch outcome.Kind {
	case models.OutcomeCreated:
		return &CommandResult{
			Success: true,
			Data:    NoteResult{Path: outcome.Path},
			Message: fmt.Sprintf("Created %s", outcome.Path),
		}, nil
	case models.OutcomeCancelled:
		return &CommandResult{
			Success:   true,
			Cancelled: true,
			Message:   "Cancelled",
		}, nil
	default:
		if outcome.Err == nil {
			return nil, errors.InternalError("creation failed without a reason")
		}
		return nil, outcome.Err
	}
}

// CreateNoteFromTemplateCommand picks a template and creates a note from it
type CreateNoteFromTemplateCommand struct {
	service  *service.Service
	params   noteParams
	Template string
}

func (c *CreateNoteFromTemplateCommand) SetService(svc *service.Service) {
	c.service = svc
}

func (c *CreateNoteFromTemplateCommand) SetParameters(params map[string]interface{}) error {
	if tmpl, ok := params["template"].(string); ok {
		c.Template = tmpl
	}
	return c.params.set(params)
}

func (c *CreateNoteFromTemplateCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

func (c *CreateNoteFromTemplateCommand) GetName() string {
	return CmdCreateNoteFromTemplate
}

func (c *CreateNoteFromTemplateCommand) GetDescription() string {
	return "Create a new note from a template, prompting for any values it needs"
}

func (c *CreateNoteFromTemplateCommand) Execute(ctx context.Context) (*CommandResult, error) {
	return outcomeResult(c.service.CreateNoteFromTemplate(ctx, service.NoteOptions{
		Title:    c.params.Title,
		Template: c.Template,
		Date:     c.params.Date,
	}))
}

// CreateNoteFromDefaultTemplateCommand creates a note from the default template
type CreateNoteFromDefaultTemplateCommand struct {
	service *service.Service
	params  noteParams
}

func (c *CreateNoteFromDefaultTemplateCommand) SetService(svc *service.Service) {
	c.service = svc
}

func (c *CreateNoteFromDefaultTemplateCommand) SetParameters(params map[string]interface{}) error {
	return c.params.set(params)
}

func (c *CreateNoteFromDefaultTemplateCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

func (c *CreateNoteFromDefaultTemplateCommand) GetName() string {
	return CmdCreateNoteFromDefaultTemplate
}

func (c *CreateNoteFromDefaultTemplateCommand) GetDescription() string {
	return "Create a new note from the default template"
}

func (c *CreateNoteFromDefaultTemplateCommand) Execute(ctx context.Context) (*CommandResult, error) {
	return outcomeResult(c.service.CreateNoteFromDefaultTemplate(ctx, service.NoteOptions{
		Title: c.params.Title,
		Date:  c.params.Date,
	}))
}

// CreateNewTemplateCommand writes a starter template at a user-chosen path
type CreateNewTemplateCommand struct {
	service *service.Service
}

func (c *CreateNewTemplateCommand) SetService(svc *service.Service) {
	c.service = svc
}

func (c *CreateNewTemplateCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

func (c *CreateNewTemplateCommand) GetName() string {
	return CmdCreateNewTemplate
}

func (c *CreateNewTemplateCommand) GetDescription() string {
	return "Create a new template file"
}

func (c *CreateNewTemplateCommand) Execute(ctx context.Context) (*CommandResult, error) {
	return outcomeResult(c.service.CreateNewTemplate(ctx))
}

// ListTemplatesCommand lists the templates of the workspace
type ListTemplatesCommand struct {
	service *service.Service
}

func (c *ListTemplatesCommand) SetService(svc *service.Service) {
	c.service = svc
}

func (c *ListTemplatesCommand) Validate() error {
	if c.service == nil {
		return fmt.Errorf("service not set")
	}
	return nil
}

func (c *ListTemplatesCommand) GetName() string {
	return CmdListTemplates
}

func (c *ListTemplatesCommand) GetDescription() string {
	return "List available templates and their placeholders"
}

func (c *ListTemplatesCommand) Execute(ctx context.Context) (*CommandResult, error) {
	templates, err := c.service.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]TemplateInfo, 0, len(templates))
	for _, t := range templates {
		info := TemplateInfo{
			Name:        t.Title(),
			Description: t.Metadata.Description,
			Path:        t.FilePath,
			Destination: t.Metadata.FilePath,
		}
		for _, name := range t.Placeholders {
			if renderer.IsBuiltin(name) {
				info.Builtins = append(info.Builtins, name)
			} else {
				info.Placeholders = append(info.Placeholders, name)
			}
		}
		infos = append(infos, info)
	}

	return &CommandResult{
		Success: true,
		Data:    infos,
		Message: fmt.Sprintf("Found %d templates", len(infos)),
	}, nil
}
