package markdown

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Link is a classified link occurrence within a document.
type Link struct {
	// Line is the 0-based line number the link appears on.
	Line int
	LinkMatch
	// Relative holds the parsed file/section split for relative links.
	Relative *RelativeURL
}

// Header is an ATX header occurrence within a document.
type Header struct {
	Line  int
	Depth int
	Text  string
}

// Meta is the parsed leading YAML metadata block of a document.
type Meta struct {
	UUID   string
	Fields map[string]any
}

// Document is a markdown file with its classified contents. Links and
// headers are extracted once at load time; lines inside code fences are
// never classified.
type Document struct {
	// Path is the absolute path to the file.
	Path  string
	Lines []string

	// Meta is nil when the document has no leading YAML block.
	Meta *Meta

	links   []Link
	images  []Link
	headers []Header
}

// LoadDocument reads and classifies a markdown file.
func LoadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseDocument(path, string(content)), nil
}

// ParseDocument classifies markdown content without touching the
// filesystem.
func ParseDocument(path, content string) *Document {
	doc := &Document{
		Path:  path,
		Lines: strings.Split(content, "\n"),
	}

	doc.Meta = parseMeta(doc.Lines)

	for _, nl := range OutsideFences(doc.Lines) {
		for _, m := range Links(nl.Line) {
			link := Link{Line: nl.Number, LinkMatch: m}
			if rel, ok := ParseRelativeURL(m.URL); ok {
				link.Relative = &rel
			}
			doc.links = append(doc.links, link)
		}
		for _, m := range ImageLinks(nl.Line) {
			link := Link{Line: nl.Number, LinkMatch: m}
			if rel, ok := ParseRelativeURL(m.URL); ok {
				link.Relative = &rel
			}
			doc.images = append(doc.images, link)
		}
		for _, m := range HTMLImages(nl.Line) {
			link := Link{
				Line:      nl.Number,
				LinkMatch: LinkMatch{Full: m.Full, URL: m.Src},
			}
			if rel, ok := ParseRelativeURL(m.Src); ok {
				link.Relative = &rel
			}
			doc.images = append(doc.images, link)
		}
		if depth, text, ok := MatchATXHeader(nl.Line); ok {
			doc.headers = append(doc.headers, Header{Line: nl.Number, Depth: depth, Text: text})
		}
	}

	return doc
}

// AllLinks returns every markdown link in the document, absolute and
// relative, excluding image links.
func (d *Document) AllLinks() []Link {
	return d.links
}

// RelativeLinks returns the links whose URL is relative.
func (d *Document) RelativeLinks() []Link {
	var out []Link
	for _, l := range d.links {
		if l.Relative != nil {
			out = append(out, l)
		}
	}
	return out
}

// AbsoluteLinks returns the links whose URL is a whole absolute URL.
func (d *Document) AbsoluteLinks() []Link {
	var out []Link
	for _, l := range d.links {
		if IsAbsoluteURL(l.URL) {
			out = append(out, l)
		}
	}
	return out
}

// ImageLinks returns the image links in the document, both markdown
// (![text](url)) and HTML (<img src="url">).
func (d *Document) ImageLinks() []Link {
	return d.images
}

// Headers returns the ATX headers in the document in order of
// appearance.
func (d *Document) Headers() []Header {
	return d.headers
}

// Write writes the document lines back to its path.
func (d *Document) Write() error {
	content := strings.Join(d.Lines, "\n")
	if err := os.WriteFile(d.Path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	return nil
}

// parseMeta extracts the leading YAML metadata block, if any. The block
// opens with --- on the first line and closes with --- or three dots;
// the end of the document closes it as well.
func parseMeta(lines []string) *Meta {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return nil
	}

	var block []string
	for _, line := range lines[1:] {
		if MatchYAMLDelimiter(line) {
			break
		}
		block = append(block, line)
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &fields); err != nil {
		// Malformed YAML is treated as no metadata; validate reports it
		// as a missing block.
		return nil
	}

	meta := &Meta{Fields: fields}
	if v, ok := fields["UUID"]; ok {
		meta.UUID = fmt.Sprintf("%v", v)
	}
	return meta
}
