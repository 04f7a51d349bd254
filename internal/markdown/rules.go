// Package markdown provides line-oriented classification and extraction
// for markdown documents: links, image links, HTML images, fenced blocks,
// YAML metadata blocks, and ATX headers.
package markdown

import (
	"regexp"
	"strings"
)

// LinkMatch is one markdown link occurrence within a line.
//
//	[test link](./file.md#section)
//
// Full is the complete match, Text the description portion, and URL the
// target portion (which may carry a section anchor).
type LinkMatch struct {
	Full string
	Text string
	URL  string
}

// HTMLImageMatch is one HTML image tag occurrence within a line.
//
//	<img src="../assets/triangles.png" alt="Similar Triangles"/>
type HTMLImageMatch struct {
	Full string
	Src  string
}

// RelativeURL is a whole-string relative URL split into its file and
// optional section anchor.
//
//	./ch0_1_images.md#fig:ch0_1_images-1 -> file=./ch0_1_images.md section=#fig:ch0_1_images-1
type RelativeURL struct {
	File    string
	Section string
}

// linkPattern matches markdown links and image links in one pass. The
// optional leading bang distinguishes image links from plain links.
var linkPattern = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]*)\)`)

// htmlImagePattern matches img tags that carry a src attribute.
var htmlImagePattern = regexp.MustCompile(`<img\s+[^>]*src="([^"]*)"[^>]*>`)

// absoluteURLPattern matches a whole string that is an absolute URL.
// Unrecognized protocols and embedded spaces do not match.
var absoluteURLPattern = regexp.MustCompile(`^(?:https?|ftp)://\S*$`)

// codeFencePattern matches a code fence delimiter line (backticks or
// tildes), capturing the info string that follows the opening fence.
var codeFencePattern = regexp.MustCompile("^\\s*(?:`{3,}|~{3,})\\s*(.*?)\\s*$")

// yamlDelimiterPattern matches a YAML metadata block delimiter: a line of
// exactly three hyphens (open/close) or three dots (close).
var yamlDelimiterPattern = regexp.MustCompile(`^(-{3}|\.{3})\s*$`)

// atxHeaderPattern matches an ATX header line, capturing depth and text.
var atxHeaderPattern = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)

// sectionAttributePattern matches a pandoc-style section attribute on a
// header line, e.g. {#sec:abc-123-4567_0}.
var sectionAttributePattern = regexp.MustCompile(`\{#[^}]+\}`)

// directivePattern matches a MyST directive info string: {name} args.
var directivePattern = regexp.MustCompile(`^\{([^}]+)\}\s*(.*)$`)

// Links returns the markdown links in a line, excluding image links.
func Links(line string) []LinkMatch {
	var matches []LinkMatch
	for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
		if m[1] == "!" {
			continue
		}
		matches = append(matches, LinkMatch{Full: m[0], Text: m[2], URL: m[3]})
	}
	return matches
}

// ImageLinks returns the markdown image links in a line.
func ImageLinks(line string) []LinkMatch {
	var matches []LinkMatch
	for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
		if m[1] != "!" {
			continue
		}
		matches = append(matches, LinkMatch{Full: m[0], Text: m[2], URL: m[3]})
	}
	return matches
}

// HTMLImages returns the HTML image tags in a line that carry a src
// attribute. Tags without src do not match.
func HTMLImages(line string) []HTMLImageMatch {
	var matches []HTMLImageMatch
	for _, m := range htmlImagePattern.FindAllStringSubmatch(line, -1) {
		matches = append(matches, HTMLImageMatch{Full: m[0], Src: m[1]})
	}
	return matches
}

// ParseRelativeURL classifies a whole string as a relative URL. A relative
// URL carries no protocol separator and is split at the first section
// anchor. Empty strings are not classified.
func ParseRelativeURL(url string) (RelativeURL, bool) {
	if url == "" || strings.Contains(url, "://") {
		return RelativeURL{}, false
	}
	file, section, found := strings.Cut(url, "#")
	rel := RelativeURL{File: file}
	if found {
		rel.Section = "#" + section
	}
	return rel, true
}

// IsAbsoluteURL reports whether the whole string is an absolute URL with a
// recognized protocol (http, https, ftp).
func IsAbsoluteURL(url string) bool {
	return absoluteURLPattern.MatchString(url)
}

// MatchCodeFence reports whether a line is a code fence delimiter,
// returning the info string after the opening fence.
func MatchCodeFence(line string) (args string, ok bool) {
	m := codeFencePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchYAMLDelimiter reports whether a line delimits a YAML metadata
// block.
func MatchYAMLDelimiter(line string) bool {
	return yamlDelimiterPattern.MatchString(line)
}

// MatchATXHeader reports whether a line is an ATX header, returning its
// depth (1-6) and text.
func MatchATXHeader(line string) (depth int, text string, ok bool) {
	m := atxHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), m[2], true
}

// HasSectionAttribute reports whether header text carries a {#...}
// attribute.
func HasSectionAttribute(text string) bool {
	return sectionAttributePattern.MatchString(text)
}

// MatchDirective parses a MyST directive info string ({name} args) from a
// code fence info string.
func MatchDirective(args string) (name, rest string, ok bool) {
	m := directivePattern.FindStringSubmatch(args)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
