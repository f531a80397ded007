// Package commands implements the command execution layer for foam-notes.
//
// SYSTEM ARCHITECTURE ROLE:
// This module sits between the CLI and the note-creation service. It uses
// the Command Pattern so every user-facing operation is looked up by name,
// configured from a parameter map, validated and executed the same way.
//
// KEY RESPONSIBILITIES:
// - Define the Command interface and a registry of command factories
// - Convert parameter maps into typed command fields
// - Map creation outcomes (created, cancelled, failed) onto CommandResult
// - Convert failures into structured ErrorInfo
//
// INTEGRATION POINTS:
// - internal/cli: cobra commands call CommandExecutor.Execute with parsed flags
// - internal/service: commands delegate to service.Service
// - internal/errors: failures are converted to ErrorInfo via GetAppError
// - internal/commands/note_commands.go: the registered command implementations
//
// COMMAND FLOW:
// 1. CLI collects flags into a parameter map
// 2. CommandExecutor finds the command factory by name
// 3. Parameters are applied with SetParameters and checked with Validate
// 4. The command runs against the service
// 5. The CLI renders the CommandResult
//
// A cancelled creation is a successful execution whose result has
// Cancelled set. It never produces an ErrorInfo.
package commands

import (
	"context"
	"sort"

	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/service"
)

// Registered command names
const (
	CmdCreateNoteFromTemplate        = "create-note-from-template"
	CmdCreateNoteFromDefaultTemplate = "create-note-from-default-template"
	CmdCreateNewTemplate             = "create-new-template"
	CmdListTemplates                 = "list-templates"
)

// CommandResult represents the result of executing a command
type CommandResult struct {
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Success   bool        `json:"success"`
	Cancelled bool        `json:"cancelled,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo provides structured error information
type ErrorInfo struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
	Category string `json:"category,omitempty"`
	Severity string `json:"severity,omitempty"`

	// Cause is the original error, kept for verbose display
	Cause error `json:"-"`
}

// Command represents a unified command interface
type Command interface {
	Execute(ctx context.Context) (*CommandResult, error)
	Validate() error
	GetName() string
	GetDescription() string
}

// ParameterizedCommand interface for commands that accept parameters
type ParameterizedCommand interface {
	SetParameters(params map[string]interface{}) error
}

// ServiceAwareCommand interface for commands that need service access
type ServiceAwareCommand interface {
	SetService(svc *service.Service)
}

// CommandRegistry manages available commands
type CommandRegistry struct {
	commands map[string]func() Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]func() Command),
	}
}

// Register adds a command factory to the registry
func (r *CommandRegistry) Register(name string, factory func() Command) {
	r.commands[name] = factory
}

// Get retrieves a command factory by name
func (r *CommandRegistry) Get(name string) (func() Command, bool) {
	factory, exists := r.commands[name]
	return factory, exists
}

// List returns all available command names, sorted
func (r *CommandRegistry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandExecutor provides a unified way to execute commands
type CommandExecutor struct {
	service  *service.Service
	registry *CommandRegistry
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(svc *service.Service) *CommandExecutor {
	executor := &CommandExecutor{
		service:  svc,
		registry: NewCommandRegistry(),
	}

	executor.registerCommands()

	return executor
}

// Commands returns the names of all registered commands
func (e *CommandExecutor) Commands() []string {
	return e.registry.List()
}

// Describe returns the description of a registered command
func (e *CommandExecutor) Describe(commandName string) (string, bool) {
	factory, exists := e.registry.Get(commandName)
	if !exists {
		return "", false
	}
	return factory().GetDescription(), true
}

// Execute runs a command by name with the given parameters. Failures are
// reported through CommandResult.Error; the returned error is reserved for
// future transport-level failures and is currently always nil.
func (e *CommandExecutor) Execute(ctx context.Context, commandName string, params map[string]interface{}) (*CommandResult, error) {
	factory, exists := e.registry.Get(commandName)
	if !exists {
		return failure(errors.CommandNotFoundError(commandName)), nil
	}

	cmd := factory()

	if parameterized, ok := cmd.(ParameterizedCommand); ok {
		if params == nil {
			params = make(map[string]interface{})
		}
		if err := parameterized.SetParameters(params); err != nil {
			return failure(asValidationError(err)), nil
		}
	}

	if err := cmd.Validate(); err != nil {
		return failure(asValidationError(err)), nil
	}

	result, err := cmd.Execute(ctx)
	if err != nil {
		return failure(err), nil
	}

	return result, nil
}

// failure converts any error into a failed CommandResult
func failure(err error) *CommandResult {
	appErr := errors.GetAppError(err)
	return &CommandResult{
		Success: false,
		Message: appErr.Message,
		Error: &ErrorInfo{
			Code:     string(appErr.Code),
			Message:  appErr.Message,
			Details:  appErr.Details,
			Category: string(appErr.Category),
			Severity: string(appErr.Severity),
			Cause:    err,
		},
	}
}

func asValidationError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeValidation, err.Error())
}

// register adds a factory that injects the executor's service
func (e *CommandExecutor) register(name string, newCmd func() Command) {
	e.registry.Register(name, func() Command {
		cmd := newCmd()
		if serviceAware, ok := cmd.(ServiceAwareCommand); ok {
			serviceAware.SetService(e.service)
		}
		return cmd
	})
}

// registerCommands registers all available commands
func (e *CommandExecutor) registerCommands() {
	e.register(CmdCreateNoteFromTemplate, func() Command { return &CreateNoteFromTemplateCommand{} })
	e.register(CmdCreateNoteFromDefaultTemplate, func() Command { return &CreateNoteFromDefaultTemplateCommand{} })
	e.register(CmdCreateNewTemplate, func() Command { return &CreateNewTemplateCommand{} })
	e.register(CmdListTemplates, func() Command { return &ListTemplatesCommand{} })
}
