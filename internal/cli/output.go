package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/foam-notes/internal/commands"
	"github.com/dpshade/foam-notes/internal/ui"
)

const previewWidth = 80

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.opts.Out, format, args...)
}

func (c *CLI) errorf(format string, args ...interface{}) {
	fmt.Fprintf(c.opts.Err, format, args...)
}

// printTemplates lists templates with their destination and placeholders
func (c *CLI) printTemplates(infos []commands.TemplateInfo) {
	if len(infos) == 0 {
		c.printf("%s\n", ui.StyleTextMuted.Render("No templates found. Run create-new-template to add one."))
		return
	}

	nameStyle := lipgloss.NewStyle().Bold(true)
	for _, info := range infos {
		c.printf("%s  %s\n", nameStyle.Render(info.Name), ui.CreateMetadata(c.displayPath(info.Path)))
		if info.Description != "" {
			c.printf("  %s\n", info.Description)
		}
		if info.Destination != "" {
			c.printf("  %s %s\n", ui.StyleTextMuted.Render("writes to:"), ui.StyleCode.Render(info.Destination))
		}
		if len(info.Placeholders) > 0 {
			c.printf("  %s %s\n", ui.StyleTextMuted.Render("placeholders:"), strings.Join(info.Placeholders, ", "))
		}
		if len(info.Builtins) > 0 {
			c.printf("  %s %s\n", ui.StyleTextMuted.Render("built-ins:"), strings.Join(info.Builtins, ", "))
		}
		c.printf("\n")
	}
}

// preview renders the note at path as markdown
func (c *CLI) preview(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}

	r, err := createGlamourRenderer(previewWidth)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(string(content))
	if err != nil {
		return fmt.Errorf("failed to render note: %w", err)
	}
	c.printf("%s", out)
	return nil
}

// createGlamourRenderer picks a glamour style for the terminal, honouring
// GLAMOUR_STYLE when set
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch {
	case profile == termenv.Ascii:
		styleOption = glamour.WithStandardStyle("notty")
	case lipgloss.HasDarkBackground():
		styleOption = glamour.WithStandardStyle("dark")
	default:
		styleOption = glamour.WithStandardStyle("light")
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}
