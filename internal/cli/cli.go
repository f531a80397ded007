// Package cli wires the foam-notes command tree.
//
// Every subcommand loads workspace settings, builds a logger and a service,
// and runs one registered command through the CommandExecutor. Results are
// rendered for the terminal; failures go through errors.CLIErrorHandler.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dpshade/foam-notes/internal/clipboard"
	"github.com/dpshade/foam-notes/internal/commands"
	"github.com/dpshade/foam-notes/internal/config"
	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/logging"
	"github.com/dpshade/foam-notes/internal/service"
	"github.com/dpshade/foam-notes/internal/ui"
)

// Options configures the streams and prompt gateway of a CLI
type Options struct {
	Version string

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Gateway replaces the terminal prompts when set.
	Gateway ui.Gateway
	// Copy writes to the clipboard. Defaults to clipboard.Copy.
	Copy func(text string) error
}

// reportOptions are the output flags shared by the note creation commands
type reportOptions struct {
	preview  bool
	copyLink bool
}

func (o *reportOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.preview, "preview", false, "Render the created note")
	cmd.Flags().BoolVar(&o.copyLink, "copy-link", false, "Copy a [[wikilink]] to the new note")
}

// CLI is one run of the foam-notes command line
type CLI struct {
	opts Options

	workspace  string
	configFile string
	logLevel   string
	verbose    bool

	settings *config.Settings
	log      zerolog.Logger
	executor *commands.CommandExecutor
}

// New creates a CLI. Nil streams default to the process streams.
func New(opts Options) *CLI {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.Copy
	}
	return &CLI{opts: opts, log: logging.Nop()}
}

// Run executes args and returns the process exit code: 0 when a note was
// created or the user cancelled, 1 on failure.
func (c *CLI) Run(ctx context.Context, args []string) int {
	root := c.Command()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	if !errors.IsAppError(err) {
		err = errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error())
	}
	handler := errors.NewCLIErrorHandler(c.verbose)
	c.errorf("%s\n", ui.CreateStatus(handler.FormatError(err), "error"))
	return handler.ExitCode(err)
}

// Command builds the cobra command tree
func (c *CLI) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "foam-notes",
		Short: "Create notes from templates",
		Long: `Create markdown notes in a Foam workspace from templates.

Templates live in .foam/templates and may contain placeholders such as
${FOAM_TITLE}, ${FOAM_DATE} or ${name:default}. Values that cannot be
computed are asked for interactively.

Examples:
  foam-notes create-note-from-template
  foam-notes create-note-from-template --template daily --title "Standup"
  foam-notes create-note-from-default-template --date yesterday
  foam-notes create-new-template
  foam-notes templates`,
		Version:           c.opts.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetIn(c.opts.In)
	root.SetOut(c.opts.Out)
	root.SetErr(c.opts.Err)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.workspace, "workspace", "w", "", "Workspace root (default: current directory)")
	flags.StringVar(&c.configFile, "config", "", "Config file (default: <workspace>/.foam/notes.yaml)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output and error details")

	root.AddCommand(
		c.createNoteFromTemplateCmd(),
		c.createNoteFromDefaultTemplateCmd(),
		c.createNewTemplateCmd(),
		c.templatesCmd(),
	)
	return root
}

// setup loads settings and builds the executor before any subcommand runs
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(c.workspace, c.configFile)
	if err != nil {
		return err
	}
	c.settings = settings

	level := settings.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(level)
	if c.verbose {
		logCfg.Level = logging.DebugLevel
	}
	logCfg.Output = c.opts.Err
	logCfg.Pretty = settings.LogPretty
	c.log = logging.New(logCfg)

	gateway := c.opts.Gateway
	if gateway == nil {
		gateway = ui.NewInteractive(c.opts.In, c.opts.Err)
	}

	svc := service.NewService(settings, gateway, c.log)
	c.executor = commands.NewCommandExecutor(svc)

	c.log.Debug().
		Str("workspace", settings.WorkspaceRoot).
		Str("config", settings.ConfigFile).
		Str("command", cmd.Name()).
		Msg("starting")
	return nil
}

func (c *CLI) createNoteFromTemplateCmd() *cobra.Command {
	var title, template, date string
	var report reportOptions

	cmd := &cobra.Command{
		Use:   commands.CmdCreateNoteFromTemplate,
		Short: "Create a new note from a template",
		Long: `Pick a template, fill in its placeholders and write the note.

With no templates in the workspace you are offered to create one.
--template selects a template by path, name or fuzzy query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.execute(cmd, commands.CmdCreateNoteFromTemplate, map[string]interface{}{
				"title":    title,
				"template": template,
				"date":     date,
			}, report)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title of the new note")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Template path, name or fuzzy query")
	cmd.Flags().StringVar(&date, "date", "", `Date for FOAM_DATE values (e.g. 2024-03-05, "yesterday")`)
	report.register(cmd)
	return cmd
}

func (c *CLI) createNoteFromDefaultTemplateCmd() *cobra.Command {
	var title, date string
	var report reportOptions

	cmd := &cobra.Command{
		Use:   commands.CmdCreateNoteFromDefaultTemplate,
		Short: "Create a new note from the default template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.execute(cmd, commands.CmdCreateNoteFromDefaultTemplate, map[string]interface{}{
				"title": title,
				"date":  date,
			}, report)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title of the new note")
	cmd.Flags().StringVar(&date, "date", "", `Date for FOAM_DATE values (e.g. 2024-03-05, "yesterday")`)
	report.register(cmd)
	return cmd
}

func (c *CLI) createNewTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   commands.CmdCreateNewTemplate,
		Short: "Create a new template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.execute(cmd, commands.CmdCreateNewTemplate, nil, reportOptions{})
		},
	}
}

func (c *CLI) templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "templates",
		Aliases: []string{commands.CmdListTemplates},
		Short:   "List available templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.executor.Execute(cmd.Context(), commands.CmdListTemplates, nil)
			if err != nil {
				return err
			}
			if result.Error != nil {
				return resultError(result)
			}
			infos, _ := result.Data.([]commands.TemplateInfo)
			c.printTemplates(infos)
			return nil
		},
	}
}

// execute runs a creation command and reports its result
func (c *CLI) execute(cmd *cobra.Command, name string, params map[string]interface{}, report reportOptions) error {
	result, err := c.executor.Execute(cmd.Context(), name, params)
	if err != nil {
		return err
	}
	if result.Error != nil {
		return resultError(result)
	}

	if result.Cancelled {
		c.errorf("%s\n", ui.StyleTextMuted.Render("Cancelled"))
		return nil
	}

	note, _ := result.Data.(commands.NoteResult)
	c.printf("%s %s\n", ui.CreateStatus("✓ Created", "success"), c.displayPath(note.Path))

	if note.Path == "" {
		return nil
	}
	if report.copyLink {
		link := clipboard.WikiLink(note.Path)
		if err := c.opts.Copy(link); err != nil {
			c.errorf("%s\n", ui.CreateStatus("Could not copy link: "+err.Error(), "warning"))
		} else {
			c.errorf("%s\n", ui.StyleTextMuted.Render("Copied "+link))
		}
	}
	if report.preview {
		if err := c.preview(note.Path); err != nil {
			c.log.Warn().Err(err).Str("path", note.Path).Msg("preview failed")
		}
	}
	return nil
}

func resultError(result *commands.CommandResult) error {
	if result.Error.Cause != nil {
		return result.Error.Cause
	}
	return errors.NewAppError(errors.ErrorCode(result.Error.Code), result.Error.Message).
		WithDetails(result.Error.Details)
}

// displayPath shows paths inside the workspace relative to it
func (c *CLI) displayPath(path string) string {
	if c.settings == nil {
		return path
	}
	root := c.settings.WorkspaceRoot + string(os.PathSeparator)
	if strings.HasPrefix(path, root) {
		return strings.TrimPrefix(path, root)
	}
	return path
}
