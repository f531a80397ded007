package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dpshade/foam-notes/internal/errors"
)

// Setting keys
const (
	KeyNotesFolder      = "notes.folder"
	KeyTemplatesDir     = "templates.dir"
	KeyTemplatesDefault = "templates.default"
	KeyOverwritePolicy  = "create.overwrite"
	KeyDateFormat       = "date.format"
	KeyLogLevel         = "log.level"
	KeyLogPretty        = "log.pretty"
)

// EnvPrefix is prepended to upper-cased keys for environment overrides,
// e.g. FOAM_NOTES_CREATE_OVERWRITE=fail.
const EnvPrefix = "FOAM_NOTES"

// DefaultConfigFile is looked up relative to the workspace root.
var DefaultConfigFile = filepath.Join(".foam", "notes.yaml")

// OverwritePolicy decides what happens when a note's destination exists
type OverwritePolicy string

const (
	OverwriteAsk  OverwritePolicy = "ask"
	OverwriteFail OverwritePolicy = "fail"
)

// Settings is the resolved configuration for one workspace
type Settings struct {
	// WorkspaceRoot is the absolute workspace directory.
	WorkspaceRoot string
	// NotesFolder is where notes land, relative to the workspace root.
	// Empty means the workspace root itself.
	NotesFolder string
	// TemplatesDir holds templates, relative to the workspace root.
	TemplatesDir string
	// DefaultTemplate is the file name used by create-note-from-default-template.
	DefaultTemplate string
	// Overwrite controls behaviour when the destination note exists.
	Overwrite OverwritePolicy
	// DateFormat is the Go layout used for FOAM_DATE.
	DateFormat string

	LogLevel  string
	LogPretty bool

	// ConfigFile is the file settings were read from, if any.
	ConfigFile string
}

// NotesRoot returns the absolute directory new notes are written to
func (s *Settings) NotesRoot() string {
	if s.NotesFolder == "" {
		return s.WorkspaceRoot
	}
	if filepath.IsAbs(s.NotesFolder) {
		return s.NotesFolder
	}
	return filepath.Join(s.WorkspaceRoot, s.NotesFolder)
}

// TemplatesRoot returns the absolute templates directory
func (s *Settings) TemplatesRoot() string {
	if filepath.IsAbs(s.TemplatesDir) {
		return s.TemplatesDir
	}
	return filepath.Join(s.WorkspaceRoot, s.TemplatesDir)
}

// DefaultTemplatePath returns the absolute path of the default template
func (s *Settings) DefaultTemplatePath() string {
	return filepath.Join(s.TemplatesRoot(), s.DefaultTemplate)
}

// Resolve makes path absolute, interpreting relative paths against the workspace root
func (s *Settings) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.WorkspaceRoot, path)
}

func registerDefaults(v *viper.Viper) {
	v.SetDefault(KeyNotesFolder, "")
	v.SetDefault(KeyTemplatesDir, filepath.Join(".foam", "templates"))
	v.SetDefault(KeyTemplatesDefault, "new-note.md")
	v.SetDefault(KeyOverwritePolicy, string(OverwriteAsk))
	v.SetDefault(KeyDateFormat, "2006-01-02")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogPretty, true)
}

// Load resolves settings for workspace. configFile may be empty, in which case
// <workspace>/.foam/notes.yaml is read when present. An explicitly named file
// must exist. Environment variables override file values.
func Load(workspace, configFile string) (*Settings, error) {
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfig, "failed to get working directory")
		}
		workspace = wd
	}
	root, err := filepath.Abs(workspace)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfig, "failed to resolve workspace path")
	}

	v := viper.New()
	registerDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(root, DefaultConfigFile)
	} else if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(root, configFile)
	}

	used := ""
	if _, statErr := os.Stat(configFile); statErr == nil {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfig, fmt.Sprintf("failed to read config file %s", configFile))
		}
		used = configFile
	} else if explicit {
		return nil, errors.Wrap(statErr, errors.ErrCodeConfig, fmt.Sprintf("config file %s not found", configFile))
	}

	s := &Settings{
		WorkspaceRoot:   root,
		NotesFolder:     v.GetString(KeyNotesFolder),
		TemplatesDir:    v.GetString(KeyTemplatesDir),
		DefaultTemplate: v.GetString(KeyTemplatesDefault),
		Overwrite:       OverwritePolicy(strings.ToLower(v.GetString(KeyOverwritePolicy))),
		DateFormat:      v.GetString(KeyDateFormat),
		LogLevel:        v.GetString(KeyLogLevel),
		LogPretty:       v.GetBool(KeyLogPretty),
		ConfigFile:      used,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks values that cannot be defaulted silently
func (s *Settings) Validate() error {
	switch s.Overwrite {
	case OverwriteAsk, OverwriteFail:
	default:
		return errors.ConfigError(fmt.Sprintf("invalid %s %q (want ask or fail)", KeyOverwritePolicy, s.Overwrite))
	}
	if s.TemplatesDir == "" {
		return errors.ConfigError(fmt.Sprintf("%s must not be empty", KeyTemplatesDir))
	}
	if s.DefaultTemplate == "" {
		return errors.ConfigError(fmt.Sprintf("%s must not be empty", KeyTemplatesDefault))
	}
	if s.DateFormat == "" {
		s.DateFormat = "2006-01-02"
	}
	return nil
}

// Defaults returns settings for workspace without reading files or env.
// Used by tests and as a fallback.
func Defaults(workspace string) *Settings {
	return &Settings{
		WorkspaceRoot:   workspace,
		TemplatesDir:    filepath.Join(".foam", "templates"),
		DefaultTemplate: "new-note.md",
		Overwrite:       OverwriteAsk,
		DateFormat:      "2006-01-02",
		LogLevel:        "warn",
		LogPretty:       true,
	}
}
