package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TroyWilliams3687/md-tools/internal/cli/testutil"
)

func TestRepairLinksCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	// Point index.md at the wrong directory for ch1.md.
	path := filepath.Join(root, "docs", "index.md")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	broken := bytes.ReplaceAll(content, []byte("./ch1/ch1.md"), []byte("./ch1.md"))
	require.NoError(t, os.WriteFile(path, broken, 0644))

	cmd := NewRepairCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"links"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ch1/ch1.md")

	fixed, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(fixed), "./ch1/ch1.md")
}

func TestRepairLinksCommandDryRun(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	path := filepath.Join(root, "docs", "index.md")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	broken := bytes.ReplaceAll(content, []byte("./ch1/ch1.md"), []byte("./ch1.md"))
	require.NoError(t, os.WriteFile(path, broken, 0644))

	cmd := NewRepairCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"links", "--dry-run"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "dry run")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(broken), string(after), "dry run must not rewrite files")
}

func TestRepairHeadersCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	cmd := NewRepairCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"headers"})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(root, "docs", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Home {#sec:")
}

func TestRepairCommandNothingToDo(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	cmd := NewRepairCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"images"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "nothing to repair")
}
