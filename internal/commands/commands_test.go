package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/foam-notes/internal/config"
	"github.com/dpshade/foam-notes/internal/logging"
	"github.com/dpshade/foam-notes/internal/service"
	"github.com/dpshade/foam-notes/internal/ui"
)

func newExecutor(t *testing.T, steps ...ui.Step) (*CommandExecutor, string) {
	t.Helper()
	ws := t.TempDir()
	svc := service.NewService(config.Defaults(ws), ui.NewScripted(steps...), logging.Nop())
	return NewCommandExecutor(svc), ws
}

func TestExecutor_Commands(t *testing.T) {
	executor, _ := newExecutor(t)

	assert.Equal(t, []string{
		CmdCreateNewTemplate,
		CmdCreateNoteFromDefaultTemplate,
		CmdCreateNoteFromTemplate,
		CmdListTemplates,
	}, executor.Commands())

	desc, ok := executor.Describe(CmdListTemplates)
	assert.True(t, ok)
	assert.NotEmpty(t, desc)
}

func TestExecutor_UnknownCommand(t *testing.T) {
	executor, _ := newExecutor(t)

	result, err := executor.Execute(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, "COMMAND_NOT_FOUND", result.Error.Code)
}

func TestCreateNoteFromDefaultTemplate_Created(t *testing.T) {
	executor, ws := newExecutor(t)

	result, err := executor.Execute(context.Background(), CmdCreateNoteFromDefaultTemplate, map[string]interface{}{
		"title": "Hello",
		"date":  "2024-03-05",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Message)
	assert.False(t, result.Cancelled)

	note, ok := result.Data.(NoteResult)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(ws, "Hello.md"), note.Path)
	assert.FileExists(t, note.Path)
}

func TestCreateNoteFromDefaultTemplate_Cancelled(t *testing.T) {
	executor, ws := newExecutor(t, ui.Dismiss())

	result, err := executor.Execute(context.Background(), CmdCreateNoteFromDefaultTemplate, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Cancelled)
	assert.Nil(t, result.Error)

	entries, err := os.ReadDir(ws)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateNoteFromTemplate_FailedBecomesErrorInfo(t *testing.T) {
	executor, ws := newExecutor(t)
	dir := filepath.Join(ws, ".foam", "templates")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# ${FOAM_TITLE}"), 0644))

	result, err := executor.Execute(context.Background(), CmdCreateNoteFromTemplate, map[string]interface{}{
		"template": "zzz",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, "NOT_FOUND", result.Error.Code)
	assert.Error(t, result.Error.Cause)
}

func TestCreateNoteFromTemplate_InvalidDate(t *testing.T) {
	executor, _ := newExecutor(t)

	result, err := executor.Execute(context.Background(), CmdCreateNoteFromTemplate, map[string]interface{}{
		"date": "qwerty zxcv",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "INVALID_INPUT", result.Error.Code)
}

func TestNoteParams(t *testing.T) {
	var p noteParams
	date := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.set(map[string]interface{}{"title": "T", "date": date}))
	assert.Equal(t, "T", p.Title)
	assert.Equal(t, date, p.Date)

	var empty noteParams
	require.NoError(t, empty.set(map[string]interface{}{"date": ""}))
	assert.True(t, empty.Date.IsZero())
}

func TestCreateNewTemplateAndList(t *testing.T) {
	executor, ws := newExecutor(t, ui.Type(filepath.Join(".foam", "templates", "daily.md")))

	result, err := executor.Execute(context.Background(), CmdCreateNewTemplate, nil)
	require.NoError(t, err)
	require.True(t, result.Success, result.Message)

	result, err = executor.Execute(context.Background(), CmdListTemplates, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	infos, ok := result.Data.([]TemplateInfo)
	require.True(t, ok)
	require.Len(t, infos, 1)
	assert.Equal(t, "New Template", infos[0].Name)
	assert.Equal(t, filepath.Join(ws, ".foam", "templates", "daily.md"), infos[0].Path)
	assert.Empty(t, infos[0].Placeholders)
	assert.Equal(t, []string{"FOAM_TITLE", "FOAM_DATE_DAY_NAME", "FOAM_DATE"}, infos[0].Builtins)
}
