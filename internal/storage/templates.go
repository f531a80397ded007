package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/models"
	"github.com/dpshade/foam-notes/internal/renderer"
)

// templatePattern selects template files below the templates directory
const templatePattern = "**/*.md"

// StarterTemplate is written by create-new-template
const StarterTemplate = `---
foam_template:
  name: New Template
  description: An example template
---
# ${FOAM_TITLE}

Created on ${FOAM_DATE_DAY_NAME}, ${FOAM_DATE}.

Placeholders in this file are filled in when a note is created from it.
Built-in values start with FOAM_; any other name is asked for, and an
inline default can follow the name after a colon.
`

// TemplateStore discovers, reads and creates template files. Nothing is
// cached: every call goes to the filesystem.
type TemplateStore struct {
	workspaceRoot string
	templatesDir  string
	writer        *SafeWriter
	log           zerolog.Logger
}

// NewTemplateStore creates a store for templates under
// <workspaceRoot>/<templatesDir>
func NewTemplateStore(workspaceRoot, templatesDir string, log zerolog.Logger) *TemplateStore {
	return &TemplateStore{
		workspaceRoot: workspaceRoot,
		templatesDir:  templatesDir,
		writer:        NewSafeWriter(log),
		log:           log.With().Str("component", "templates").Logger(),
	}
}

// Root returns the absolute templates directory
func (s *TemplateStore) Root() string {
	return s.resolve(s.templatesDir)
}

func (s *TemplateStore) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.workspaceRoot, path)
}

// ListTemplates returns every template below the templates directory sorted
// by display name. A missing directory yields an empty list. Files that
// cannot be parsed are skipped.
func (s *TemplateStore) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	root := s.Root()
	info, err := os.Stat(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []*models.Template{}, nil
		}
		return nil, errors.IOError("stat "+root, err)
	}
	if !info.IsDir() {
		return []*models.Template{}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), templatePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.IOError("scan "+root, err)
	}

	templates := make([]*models.Template, 0, len(matches))
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, errors.IOError("scan "+root, err)
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		tmpl, err := s.ReadTemplate(ctx, path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable template")
			continue
		}
		templates = append(templates, tmpl)
	}

	sort.SliceStable(templates, func(i, j int) bool {
		ti, tj := strings.ToLower(templates[i].Title()), strings.ToLower(templates[j].Title())
		if ti != tj {
			return ti < tj
		}
		return templates[i].FilePath < templates[j].FilePath
	})

	s.log.Debug().Int("count", len(templates)).Str("dir", root).Msg("listed templates")
	return templates, nil
}

// ReadTemplate loads a single template. Relative paths are resolved against
// the workspace root.
func (s *TemplateStore) ReadTemplate(ctx context.Context, path string) (*models.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.IOError("read "+path, err)
	}

	fullPath := s.resolve(path)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("template " + fullPath).WithContext("path", fullPath)
		}
		return nil, errors.IOError("read "+fullPath, err)
	}

	return ParseTemplate(fullPath, string(content))
}

// CreateTemplate writes a new template file, creating parent directories.
// An existing file is left untouched and reported as ALREADY_EXISTS.
func (s *TemplateStore) CreateTemplate(ctx context.Context, path, content string) (*models.Template, error) {
	fullPath := s.resolve(path)

	if err := s.writer.Write(ctx, fullPath, []byte(content), false); err != nil {
		if errors.HasCode(err, errors.ErrCodeConflict) {
			return nil, errors.AlreadyExistsError("template " + fullPath).WithContext("path", fullPath)
		}
		return nil, err
	}

	s.log.Info().Str("path", fullPath).Msg("created template")
	return ParseTemplate(fullPath, content)
}

// ParseTemplate builds a Template from raw file content. The foam_template
// frontmatter entry is decoded into Metadata; the placeholder list covers
// the note body, the remaining frontmatter and the destination pattern.
func ParseTemplate(path, content string) (*models.Template, error) {
	tmpl := &models.Template{
		Content:  content,
		FilePath: path,
	}

	// Only foam_template is decoded here. The rest of the frontmatter is
	// YAML only after rendering, e.g. tags: [${FOAM_DATE_YEAR}].
	if fm, _, ok := SplitFrontmatter(content); ok {
		if block, _, found := TemplateBlock(fm); found {
			if err := yaml.Unmarshal([]byte(block), tmpl); err != nil {
				return nil, errors.InvalidFormatError(fmt.Sprintf("frontmatter of %s", path), err)
			}
		}
	}

	for _, p := range tmpl.Metadata.Placeholders {
		if p.Name == "" {
			return nil, errors.InvalidFormatError(fmt.Sprintf("placeholder declaration in %s", path),
				stderrors.New("placeholder name is required"))
		}
	}

	stripped, err := StripTemplateMetadata(content)
	if err != nil {
		return nil, errors.InvalidFormatError(fmt.Sprintf("frontmatter of %s", path), err)
	}
	tmpl.Placeholders = renderer.Placeholders(stripped, tmpl.Metadata.FilePath)

	return tmpl, nil
}
