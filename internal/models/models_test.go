package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplate_Title(t *testing.T) {
	named := &Template{FilePath: "/ws/.foam/templates/daily.md", Metadata: TemplateMetadata{Name: "Daily Note"}}
	assert.Equal(t, "Daily Note", named.Title())
	assert.Equal(t, "Daily Note daily.md", named.FilterValue())

	unnamed := &Template{FilePath: "/ws/.foam/templates/meeting.md"}
	assert.Equal(t, "meeting", unnamed.Title())

	builtin := &Template{}
	assert.Equal(t, "", builtin.Title())
}

func TestTemplate_Declaration(t *testing.T) {
	tmpl := &Template{Metadata: TemplateMetadata{Placeholders: []Placeholder{
		{Name: "project", Default: "foam"},
		{Name: "owner", Required: true},
	}}}

	decl, ok := tmpl.Declaration("project")
	assert.True(t, ok)
	assert.True(t, decl.HasDefault())

	decl, ok = tmpl.Declaration("owner")
	assert.True(t, ok)
	assert.False(t, decl.HasDefault())

	_, ok = tmpl.Declaration("missing")
	assert.False(t, ok)
}

func TestCreationOutcome(t *testing.T) {
	created := Created("/ws/a.md")
	assert.True(t, created.IsCreated())
	assert.Equal(t, "created /ws/a.md", created.String())

	cancelled := Cancelled()
	assert.True(t, cancelled.IsCancelled())
	assert.False(t, cancelled.IsFailed())
	assert.Equal(t, "cancelled", cancelled.String())

	failed := Failed(fmt.Errorf("disk full"))
	assert.True(t, failed.IsFailed())
	assert.Equal(t, "failed: disk full", failed.String())

	assert.Equal(t, "unknown", OutcomeKind(9).String())
}
