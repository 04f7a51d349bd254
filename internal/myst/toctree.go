// Package myst handles the MyST markdown variant: block-level directives
// such as {toctree} that embed document references inside code fences.
package myst

import (
	"strings"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
)

// optionPrefix marks a directive keyword line, e.g. ":maxdepth: 2".
const optionPrefix = ":"

// DirectiveEntries returns the content lines inside fenced directives
// with the given name, with their line numbers. YAML option blocks,
// keyword lines, and blank lines inside the directive are skipped.
//
// A toctree entry can be an absolute path (from the documentation root),
// a path relative to the containing document, or a glob pattern.
func DirectiveEntries(lines []string, directive string) []markdown.NumberedLine {
	var entries []markdown.NumberedLine

	inDirective := false
	inOptions := false
	for i, line := range lines {
		if args, ok := markdown.MatchCodeFence(line); ok {
			if inDirective {
				inDirective = false
				continue
			}
			name, _, ok := markdown.MatchDirective(args)
			inDirective = ok && name == directive
			inOptions = false
			continue
		}
		if !inDirective {
			continue
		}

		trimmed := strings.TrimSpace(line)

		// Directive options arrive as a YAML block (--- ... ---) or as
		// :key: value lines; neither is an entry.
		if markdown.MatchYAMLDelimiter(line) {
			inOptions = !inOptions
			continue
		}
		if inOptions || trimmed == "" || strings.HasPrefix(trimmed, optionPrefix) {
			continue
		}

		entries = append(entries, markdown.NumberedLine{Number: i, Line: trimmed})
	}

	return entries
}

// TocTreeEntries returns the entries of {toctree} directives.
func TocTreeEntries(lines []string) []markdown.NumberedLine {
	return DirectiveEntries(lines, "toctree")
}
