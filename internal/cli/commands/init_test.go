package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:    "init empty directory",
			args:    []string{},
			wantErr: false,
			wantFiles: []string{
				"mdtools.yaml",
				"requirements.txt",
				"dev-requirements.txt",
				".gitignore",
				"docs",
				"docs/index.md",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "mdtools.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "mdtools.yaml"), []byte("existing"), 0600)
			},
			args:    []string{"--force"},
			wantErr: false,
			wantFiles: []string{
				"mdtools.yaml",
				"docs",
			},
		},
		{
			name:    "init named directory",
			args:    []string{"my-book"},
			wantErr: false,
			wantFiles: []string{
				"my-book/mdtools.yaml",
				"my-book/docs/index.md",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp directory and change to it
			tmpDir := t.TempDir()
			oldWd, _ := os.Getwd()
			require.NoError(t, os.Chdir(tmpDir))
			defer func() { _ = os.Chdir(oldWd) }()

			// Run setup if provided
			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			// Check expected files exist
			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, f)
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file/dir %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	require.NoError(t, err)

	content, err := os.ReadFile("mdtools.yaml")
	require.NoError(t, err, "failed to read mdtools.yaml")

	expectedContents := []string{
		"docs_root: docs",
		"index_path: .mdtools/index.db",
		"python: python3",
		"prefix: .venv",
	}
	for _, want := range expectedContents {
		assert.Contains(t, string(content), want)
	}

	// gitignore is renamed on the way out of the template tree
	ignore, err := os.ReadFile(".gitignore")
	require.NoError(t, err)
	assert.Contains(t, string(ignore), ".venv/")
	assert.Contains(t, string(ignore), ".mdtools/")
}

func TestInitStampsFreshUUIDs(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	run := func(dir string) string {
		cmd := NewInitCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{dir})
		require.NoError(t, cmd.Execute())

		content, err := os.ReadFile(filepath.Join(dir, "docs", "index.md"))
		require.NoError(t, err)

		id := extractUUID(t, string(content))
		assert.NotEqual(t, templateUUID, id)
		_, err = uuid.Parse(id)
		assert.NoError(t, err)
		return id
	}

	first := run("book-a")
	second := run("book-b")
	assert.NotEqual(t, first, second)
}

func extractUUID(t *testing.T, content string) string {
	t.Helper()
	for _, line := range strings.Split(content, "\n") {
		if after, ok := strings.CutPrefix(line, "UUID: "); ok {
			return after
		}
	}
	t.Fatal("no UUID line in rendered document")
	return ""
}
