package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinks(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []LinkMatch
	}{
		{
			name: "single link",
			line: "This is a [test link](https://www.bluebill.net/test1) in text.",
			want: []LinkMatch{{Full: "[test link](https://www.bluebill.net/test1)", Text: "test link", URL: "https://www.bluebill.net/test1"}},
		},
		{
			name: "relative link with section",
			line: "See [equations](./ch0_2_equations.md#eq:ch0_2_equations-1) here.",
			want: []LinkMatch{{Full: "[equations](./ch0_2_equations.md#eq:ch0_2_equations-1)", Text: "equations", URL: "./ch0_2_equations.md#eq:ch0_2_equations-1"}},
		},
		{
			name: "multiple links in one line",
			line: "[one](a.md) and [two](b.md)",
			want: []LinkMatch{
				{Full: "[one](a.md)", Text: "one", URL: "a.md"},
				{Full: "[two](b.md)", Text: "two", URL: "b.md"},
			},
		},
		{
			name: "image link is excluded",
			line: "![caption](image.png)",
			want: nil,
		},
		{
			name: "no links",
			line: "Just some plain text.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Links(tt.line))
		})
	}
}

func TestImageLinks(t *testing.T) {
	line := "![An Image](https://www.bluebill.net/test1/image.png) and [not image](a.md)"
	got := ImageLinks(line)
	require.Len(t, got, 1)
	assert.Equal(t, "An Image", got[0].Text)
	assert.Equal(t, "https://www.bluebill.net/test1/image.png", got[0].URL)
}

func TestHTMLImages(t *testing.T) {
	tests := []struct {
		name string
		line string
		srcs []string
	}{
		{
			name: "img with src",
			line: `<img src="../../assets/similar_triangles.png" alt="Similar Triangles" style="width: 600px;"/>`,
			srcs: []string{"../../assets/similar_triangles.png"},
		},
		{
			name: "bare file name",
			line: `<img src="azimuth_dump.png" alt="Drawing" style="width: 200px;"/>`,
			srcs: []string{"azimuth_dump.png"},
		},
		{
			name: "mixed match and no-match",
			line: `<img src="hello world"/> <img /> <img src="hello world"/>`,
			srcs: []string{"hello world", "hello world"},
		},
		{
			name: "img without src",
			line: `<img alt="Similar Triangles" style="width: 600px;"/>`,
			srcs: nil,
		},
		{
			name: "empty img",
			line: `<img/>`,
			srcs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTMLImages(tt.line)
			var srcs []string
			for _, m := range got {
				srcs = append(srcs, m.Src)
			}
			assert.Equal(t, tt.srcs, srcs)
		})
	}
}

func TestParseRelativeURL(t *testing.T) {
	tests := []struct {
		url     string
		ok      bool
		file    string
		section string
	}{
		{"https://github.com/tomduck/pandoc-fignos", false, "", ""},
		{"http://github.com/tomduck/pandoc-fignos", false, "", ""},
		{"ftp://github.com/tomduck/pandoc-fignos", false, "", ""},
		{"./ch0_1_images.md#fig:ch0_1_images-1", true, "./ch0_1_images.md", "#fig:ch0_1_images-1"},
		{"./ch0_2_equations.md", true, "./ch0_2_equations.md", ""},
		{"./hello world.md", true, "./hello world.md", ""},
		{"#eq:ch0_2_equations-2", true, "", "#eq:ch0_2_equations-2"},
		{"../assets/circle_arc.png", true, "../assets/circle_arc.png", ""},
		{"../../assets/HyperbolaAnatomyLeft.png", true, "../../assets/HyperbolaAnatomyLeft.png", ""},
		{"", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			rel, ok := ParseRelativeURL(tt.url)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.file, rel.File)
				assert.Equal(t, tt.section, rel.Section)
			}
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/tomduck/pandoc-fignos", true},
		{"http://github.com/tomduck/pandoc-fignos", true},
		{"ftp://github.com/tomduck/pandoc-fignos", true},
		{"http://github.com/ tomduck/ pandoc-fignos", false},
		{"ftps://github.com/tomduck/pandoc-fignos", false},
		{"www.google.ca", false},
		{"google.com", false},
		{"./file.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAbsoluteURL(tt.url))
		})
	}
}

func TestMatchCodeFence(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
		args string
	}{
		{"backticks", "```", true, ""},
		{"backticks with language", "``` ruby", true, "ruby"},
		{"backticks tight language", "```python", true, "python"},
		{"tildes", "~~~", true, ""},
		{"leading spaces", "   ```", true, ""},
		{"directive", "```{toctree}", true, "{toctree}"},
		{"two backticks", "``", false, ""},
		{"plain text", "some text", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, ok := MatchCodeFence(tt.line)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestMatchYAMLDelimiter(t *testing.T) {
	assert.True(t, MatchYAMLDelimiter("---"))
	assert.True(t, MatchYAMLDelimiter("..."))
	assert.True(t, MatchYAMLDelimiter("--- "))
	assert.False(t, MatchYAMLDelimiter("----"))
	assert.False(t, MatchYAMLDelimiter("-- -"))
	assert.False(t, MatchYAMLDelimiter("text"))
}

func TestMatchATXHeader(t *testing.T) {
	depth, text, ok := MatchATXHeader("## Usage Notes")
	require.True(t, ok)
	assert.Equal(t, 2, depth)
	assert.Equal(t, "Usage Notes", text)

	_, _, ok = MatchATXHeader("not a header")
	assert.False(t, ok)

	_, _, ok = MatchATXHeader("####### too deep")
	assert.False(t, ok)
}

func TestHasSectionAttribute(t *testing.T) {
	assert.True(t, HasSectionAttribute("Intro {#sec:abc-123-4567_0}"))
	assert.False(t, HasSectionAttribute("Intro"))
}

func TestMatchDirective(t *testing.T) {
	name, rest, ok := MatchDirective("{toctree} arguments")
	require.True(t, ok)
	assert.Equal(t, "toctree", name)
	assert.Equal(t, "arguments", rest)

	_, _, ok = MatchDirective("ruby")
	assert.False(t, ok)
}
