package cmd

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/export"
)

func TestExportCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "export with invalid format",
			args:    []string{"export", "--format", "invalid"},
			wantErr: true,
		},
		{
			name:    "export while logged out",
			args:    []string{"export", "--format", "md"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			_, err := c.run(append(tt.args, "--out", t.TempDir())...)
			if (err != nil) != tt.wantErr {
				t.Errorf("exportCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(c.fake.Requests()) != 0 {
				t.Errorf("expected no requests, got %d", len(c.fake.Requests()))
			}
		})
	}
}

func TestExportNotebook(t *testing.T) {
	c := newCLI(t)
	f := c.fake.SeedFolder(c.userID, "Home")
	nb := c.fake.SeedNotebook(f.ID, "Recipes")
	c.fake.SeedNote(nb.ID, "Pancakes", "<p>Flour and eggs</p>")
	c.fake.SeedNote(nb.ID, "", "<p>Waffles need a hot iron</p>")
	c.login()

	out := t.TempDir()
	c.mustRun("export", nb.ID.String(), "-f", "md", "-o", out)

	data, err := os.ReadFile(filepath.Join(out, "notebook_"+nb.ID.String()+".md"))
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "# Recipes")
	assert.Contains(t, md, "**Notes:** 2")
	assert.Contains(t, md, "## Pancakes")
	assert.Contains(t, md, "## Waffles need a hot iron")
}

func TestExportEverything(t *testing.T) {
	c := newCLI(t)
	home := c.fake.SeedFolder(c.userID, "Home")
	work := c.fake.SeedFolder(c.userID, "Work")
	recipes := c.fake.SeedNotebook(home.ID, "Recipes")
	meetings := c.fake.SeedNotebook(work.ID, "Meetings")
	c.fake.SeedNote(recipes.ID, "Pancakes", "<p>Flour</p>")
	c.fake.SeedNote(meetings.ID, "Standup", "<p>Ten o'clock</p>")
	c.login()

	out := t.TempDir()
	c.mustRun("export", "--format", "jsonl", "--out", out)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(out, "notebook_"+meetings.ID.String()+".jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &line))
	assert.Equal(t, "Standup", line["title"])
	assert.Equal(t, "Meetings", line["notebook"])

	// --folder narrows to one folder
	narrow := t.TempDir()
	c.mustRun("export", "--folder", home.ID.String(), "-f", "yaml", "-o", narrow)
	entries, err = os.ReadDir(narrow)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notebook_"+recipes.ID.String()+".yaml", entries[0].Name())
}

func TestExportMissingNotebook(t *testing.T) {
	c := newCLI(t)
	c.fake.SeedFolder(c.userID, "Home")
	c.login()

	_, err := c.run("export", "nb-404", "-o", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, internal.ErrNotFound)
	assert.Zero(t, c.fake.RequestCount(http.MethodGet, "/api/notes"))
}

func TestWriteExportUnwritableDir(t *testing.T) {
	exporter, err := export.NewExporter("md", nil)
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err = writeExport(exporter, internal.CreateTestNotebookExport(1), file)
	var exportErr *internal.ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "md", exportErr.Format)
}
