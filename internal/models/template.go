package models

import (
	"path/filepath"
	"strings"
)

// Template represents a note blueprint with named placeholders
type Template struct {
	// Frontmatter fields (the foam_template key)
	Metadata TemplateMetadata `yaml:"foam_template"`

	// Content fields
	Content      string   `yaml:"-"` // Raw file content, frontmatter included
	FilePath     string   `yaml:"-"` // Absolute path to the file
	Placeholders []string `yaml:"-"` // Declared placeholder names in order of first use
}

// TemplateMetadata is read from the foam_template frontmatter key
type TemplateMetadata struct {
	Name         string        `yaml:"name,omitempty"`
	Description  string        `yaml:"description,omitempty"`
	FilePath     string        `yaml:"filepath,omitempty"` // Destination pattern, may contain placeholders
	Placeholders []Placeholder `yaml:"placeholders,omitempty"`
}

// Placeholder represents a named token resolved before a note is written
type Placeholder struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
	MinLength   int    `yaml:"min_length,omitempty"`
	MaxLength   int    `yaml:"max_length,omitempty"`
	Pattern     string `yaml:"pattern,omitempty"`
	Prompt      bool   `yaml:"prompt,omitempty"` // Always ask, pre-filled with the computed value
}

// HasDefault reports whether a default literal was declared
func (p Placeholder) HasDefault() bool {
	return p.Default != ""
}

// Title returns the display name of the template
func (t *Template) Title() string {
	if t.Metadata.Name != "" {
		return t.Metadata.Name
	}
	base := filepath.Base(t.FilePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Declaration returns the frontmatter declaration for a placeholder, if any
func (t *Template) Declaration(name string) (Placeholder, bool) {
	for _, p := range t.Metadata.Placeholders {
		if p.Name == name {
			return p, true
		}
	}
	return Placeholder{}, false
}

// FilterValue is used for fuzzy matching template names
func (t *Template) FilterValue() string {
	return t.Title() + " " + filepath.Base(t.FilePath)
}
