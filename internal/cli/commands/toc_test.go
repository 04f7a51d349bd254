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

func TestTocCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	contents := `---
UUID: 5a0682f5-4db2-4cf8-a69b-d5eb94a58012
title: Contents
---

# Contents

` + "```{toctree}" + `
:maxdepth: 2

index
ch1/ch1
` + "```" + `
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "contents.md"), []byte(contents), 0644))

	cmd := NewTocCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "contents.md")
	assert.Contains(t, out, "index")
	assert.Contains(t, out, "ch1/ch1")
	assert.NotContains(t, out, ":maxdepth:")
}

func TestTocCommandNoDirectives(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.Chdir(t, root)

	cmd := NewTocCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "no toctree directives found")
}
