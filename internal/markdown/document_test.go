package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `---
UUID: 9205c4fa-cd62-4aeb-94a6-29add1a279bc
title: Sample Chapter
---

# Introduction

See [equations](./ch0_2_equations.md#eq:ch0_2_equations-1) and
the [upstream docs](https://github.com/tomduck/pandoc-fignos).

![A circle](../assets/circle_arc.png)

<img src="azimuth_dump.png" alt="Drawing" style="width: 200px;"/>

` + "```" + `python
ignored = "[not a link](fenced.md)"
` + "```" + `

## Usage Notes
`

func TestParseDocument(t *testing.T) {
	doc := ParseDocument("/docs/ch1.md", sampleDoc)

	require.NotNil(t, doc.Meta)
	assert.Equal(t, "9205c4fa-cd62-4aeb-94a6-29add1a279bc", doc.Meta.UUID)
	assert.Equal(t, "Sample Chapter", doc.Meta.Fields["title"])

	links := doc.AllLinks()
	require.Len(t, links, 2)
	assert.Equal(t, "./ch0_2_equations.md#eq:ch0_2_equations-1", links[0].URL)
	require.NotNil(t, links[0].Relative)
	assert.Equal(t, "./ch0_2_equations.md", links[0].Relative.File)
	assert.Equal(t, "#eq:ch0_2_equations-1", links[0].Relative.Section)
	assert.Equal(t, "https://github.com/tomduck/pandoc-fignos", links[1].URL)
	assert.Nil(t, links[1].Relative)

	rel := doc.RelativeLinks()
	require.Len(t, rel, 1)
	assert.Equal(t, "./ch0_2_equations.md", rel[0].Relative.File)

	abs := doc.AbsoluteLinks()
	require.Len(t, abs, 1)
	assert.Equal(t, "https://github.com/tomduck/pandoc-fignos", abs[0].URL)

	images := doc.ImageLinks()
	require.Len(t, images, 2)
	assert.Equal(t, "../assets/circle_arc.png", images[0].URL)
	assert.Equal(t, "azimuth_dump.png", images[1].URL)

	headers := doc.Headers()
	require.Len(t, headers, 2)
	assert.Equal(t, Header{Line: 5, Depth: 1, Text: "Introduction"}, headers[0])
	assert.Equal(t, 2, headers[1].Depth)
	assert.Equal(t, "Usage Notes", headers[1].Text)
}

func TestParseDocumentNoMeta(t *testing.T) {
	doc := ParseDocument("/docs/plain.md", "# Title\n\nBody text.\n")
	assert.Nil(t, doc.Meta)
	assert.Len(t, doc.Headers(), 1)
}

func TestParseDocumentUnclosedMeta(t *testing.T) {
	// The end of the document closes an open metadata block.
	doc := ParseDocument("/docs/short.md", "---\nUUID: 9205c4fa-cd62-4aeb-94a6-29add1a279bc\ntitle: Short")
	require.NotNil(t, doc.Meta)
	assert.Equal(t, "9205c4fa-cd62-4aeb-94a6-29add1a279bc", doc.Meta.UUID)
	assert.Equal(t, "Short", doc.Meta.Fields["title"])
}

func TestLoadDocumentAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# One\n\n[x](a.md)\n"), 0600))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, doc.AllLinks(), 1)

	doc.Lines[0] = "# One Renamed"
	require.NoError(t, doc.Write())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# One Renamed")
}

func TestLoadDocumentMissing(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}
