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

func TestEnvRemoveCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".venv", "bin"), 0755))

	cmd := NewEnvCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"remove"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "removed")

	_, err := os.Stat(filepath.Join(root, ".venv"))
	assert.True(t, os.IsNotExist(err))
}

func TestEnvRemoveCommandIdempotent(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	cmd := NewEnvCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"remove"})

	require.NoError(t, cmd.Execute(), "removing a missing environment is not an error")
}

func TestEnvBuildCommandRequiresConfig(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	// Without the root command's config loading there is no mdtools.yaml
	// on record, and build must refuse to guess.
	cmd := NewEnvCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"build"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mdtools.yaml")
}

func TestEnvCommandMetadata(t *testing.T) {
	cmd := NewEnvCommand()

	assert.Equal(t, "env", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "build")
	assert.Contains(t, names, "remove")
}
