package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newStore(t *testing.T) (*TemplateStore, string) {
	t.Helper()
	ws := t.TempDir()
	return NewTemplateStore(ws, filepath.Join(".foam", "templates"), logging.Nop()), ws
}

func TestListTemplates_MissingDirectory(t *testing.T) {
	store, _ := newStore(t)

	templates, err := store.ListTemplates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, templates)
	assert.Empty(t, templates)
}

func TestListTemplates_RecursiveSortedSkipsBroken(t *testing.T) {
	store, _ := newStore(t)
	root := store.Root()

	writeFile(t, filepath.Join(root, "zeta.md"), "# ${FOAM_TITLE}\n")
	writeFile(t, filepath.Join(root, "work", "meeting.md"), "---\nfoam_template:\n  name: Alpha Meeting\n---\n# ${topic}\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "not a template")
	writeFile(t, filepath.Join(root, "broken.md"), "---\nfoam_template: [oops\n---\n")

	templates, err := store.ListTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)

	assert.Equal(t, "Alpha Meeting", templates[0].Title())
	assert.Equal(t, filepath.Join(root, "work", "meeting.md"), templates[0].FilePath)
	assert.Equal(t, []string{"topic"}, templates[0].Placeholders)

	assert.Equal(t, "zeta", templates[1].Title())
}

func TestReadTemplate_ParsesMetadata(t *testing.T) {
	store, ws := newStore(t)
	content := `---
tags: [journal]
foam_template:
  name: Daily
  description: One note per day
  filepath: journal/${FOAM_DATE}-${mood}.md
  placeholders:
    - name: mood
      default: calm
      pattern: "^[a-z]+$"
      prompt: true
---
# ${FOAM_TITLE}
`
	writeFile(t, filepath.Join(ws, ".foam", "templates", "daily.md"), content)

	tmpl, err := store.ReadTemplate(context.Background(), filepath.Join(".foam", "templates", "daily.md"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(ws, ".foam", "templates", "daily.md"), tmpl.FilePath)
	assert.Equal(t, content, tmpl.Content)
	assert.Equal(t, "Daily", tmpl.Metadata.Name)
	assert.Equal(t, "One note per day", tmpl.Metadata.Description)
	assert.Equal(t, "journal/${FOAM_DATE}-${mood}.md", tmpl.Metadata.FilePath)
	assert.Equal(t, []string{"FOAM_TITLE", "FOAM_DATE", "mood"}, tmpl.Placeholders)

	decl, ok := tmpl.Declaration("mood")
	require.True(t, ok)
	assert.Equal(t, "calm", decl.Default)
	assert.Equal(t, "^[a-z]+$", decl.Pattern)
	assert.True(t, decl.Prompt)
}

func TestReadTemplate_Errors(t *testing.T) {
	store, ws := newStore(t)

	_, err := store.ReadTemplate(context.Background(), "missing.md")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	writeFile(t, filepath.Join(ws, "bad.md"), "---\nfoam_template:\n  placeholders:\n    - default: x\n---\n")
	_, err = store.ReadTemplate(context.Background(), "bad.md")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
}

func TestCreateTemplate(t *testing.T) {
	store, ws := newStore(t)
	path := filepath.Join(ws, ".foam", "templates", "hello-world.md")

	tmpl, err := store.CreateTemplate(context.Background(), path, StarterTemplate)
	require.NoError(t, err)
	assert.Equal(t, "New Template", tmpl.Title())

	read, err := store.ReadTemplate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, StarterTemplate, read.Content)
}

func TestCreateTemplate_AlreadyExists(t *testing.T) {
	store, ws := newStore(t)
	path := filepath.Join(ws, ".foam", "templates", "exists.md")
	writeFile(t, path, "keep me")

	_, err := store.CreateTemplate(context.Background(), path, StarterTemplate)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAlreadyExists))

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "keep me", string(data))
}

func TestParseTemplate_FrontmatterPlaceholdersCounted(t *testing.T) {
	tmpl, err := ParseTemplate("/ws/t.md", "---\ntitle: ${FOAM_TITLE}\nfoam_template:\n  name: ${ignored}\n---\nbody ${x}\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"FOAM_TITLE", "x"}, tmpl.Placeholders)
}

func TestListTemplates_FlowStylePlaceholderInFrontmatter(t *testing.T) {
	store, _ := newStore(t)
	content := "---\ntags: [${FOAM_DATE_YEAR}]\nmeta: {${kind}}\nfoam_template:\n  name: Yearly\n---\n# ${FOAM_TITLE}\n"
	writeFile(t, filepath.Join(store.Root(), "yearly.md"), content)

	templates, err := store.ListTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 1)

	assert.Equal(t, "Yearly", templates[0].Title())
	assert.Equal(t, []string{"FOAM_DATE_YEAR", "kind", "FOAM_TITLE"}, templates[0].Placeholders)
}
