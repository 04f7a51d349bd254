package myst

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTocTreeEntries(t *testing.T) {
	content := strings.Join([]string{
		"# Site Map",
		"",
		"```{toctree}",
		":maxdepth: 2",
		"",
		"intro.md",
		"guide/*.md",
		"/reference/api.md",
		"```",
		"",
		"```python",
		"not_an_entry.md",
		"```",
	}, "\n")

	entries := TocTreeEntries(strings.Split(content, "\n"))
	var got []string
	for _, e := range entries {
		got = append(got, e.Line)
	}
	assert.Equal(t, []string{"intro.md", "guide/*.md", "/reference/api.md"}, got)
	assert.Equal(t, 5, entries[0].Number)
}

func TestTocTreeEntriesYAMLOptions(t *testing.T) {
	lines := []string{
		"```{toctree}",
		"---",
		"maxdepth: 2",
		"caption: Contents",
		"---",
		"chapter1.md",
		"```",
	}

	entries := TocTreeEntries(lines)
	assert.Len(t, entries, 1)
	assert.Equal(t, "chapter1.md", entries[0].Line)
}

func TestDirectiveEntriesOtherDirective(t *testing.T) {
	lines := []string{
		"```{note}",
		"just prose, not a toctree",
		"```",
	}

	assert.Empty(t, TocTreeEntries(lines))
	entries := DirectiveEntries(lines, "note")
	assert.Len(t, entries, 1)
}
