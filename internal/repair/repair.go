// Package repair finds broken relative links and images in a
// documentation tree and rewrites the ones with an unambiguous target.
package repair

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
)

// Classification describes what repair could do with a broken link.
type Classification string

const (
	// ExactMatch means exactly one file in the tree has the linked
	// file's name; the link is rewritten to point at it.
	ExactMatch Classification = "exact_match"

	// MultipleMatches means several files share the name; the choice
	// is left to the author.
	MultipleMatches Classification = "multiple_matches"

	// Suggestion means no file has the name but some names are close.
	Suggestion Classification = "suggestions"

	// NoMatch means nothing in the tree resembles the target.
	NoMatch Classification = "no_matches"
)

// suggestionCutoff is the minimum name similarity for a suggestion.
const suggestionCutoff = 0.8

// LinkFix is the repair outcome for one broken link occurrence.
type LinkFix struct {
	File        string         `json:"file"`
	Line        int            `json:"line"`
	URL         string         `json:"url"`
	Class       Classification `json:"classification"`
	Candidates  []string       `json:"candidates,omitempty"`
	Replacement string         `json:"replacement,omitempty"`
}

// Result is the outcome of a repair pass over a tree.
type Result struct {
	Fixes []LinkFix `json:"fixes"`

	// Changed lists the root-relative documents rewritten on disk.
	// Empty on dry runs.
	Changed []string `json:"changed,omitempty"`
}

// Options tune a repair pass.
type Options struct {
	// DryRun reports what would change without writing anything.
	DryRun bool
}

// Links repairs broken relative markdown links. Links whose file name
// matches exactly one file in the tree are rewritten in place; the rest
// are classified and reported.
func Links(tree *markdown.Tree, opts Options) (*Result, error) {
	return run(tree, opts, func(doc *markdown.Document) []markdown.Link {
		return doc.RelativeLinks()
	}, markdownTargets)
}

// Images repairs broken relative image references, both markdown and
// HTML img tags.
func Images(tree *markdown.Tree, opts Options) (*Result, error) {
	return run(tree, opts, func(doc *markdown.Document) []markdown.Link {
		var out []markdown.Link
		for _, img := range doc.ImageLinks() {
			if !markdown.IsAbsoluteURL(img.URL) {
				out = append(out, img)
			}
		}
		return out
	}, imageTargets)
}

// targetFilter reports whether an asset path is a plausible target.
type targetFilter func(path string) bool

func markdownTargets(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".md")
}

func imageTargets(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, known := range markdown.ImageExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

func run(tree *markdown.Tree, opts Options, pick func(*markdown.Document) []markdown.Link, filter targetFilter) (*Result, error) {
	result := &Result{}

	for _, doc := range tree.Docs {
		rel := tree.Rel(doc.Path)
		dirty := false

		for _, link := range pick(doc) {
			file, section := splitTarget(link)
			if file == "" || targetExists(tree.Root, rel, file) {
				continue
			}

			fix := classify(tree, rel, link, file, section, filter)
			result.Fixes = append(result.Fixes, fix)

			if fix.Class == ExactMatch {
				rewrite(doc, link, fix.Replacement)
				dirty = true
			}
		}

		if dirty && !opts.DryRun {
			if err := doc.Write(); err != nil {
				return nil, err
			}
			result.Changed = append(result.Changed, rel)
		}
	}

	sort.Slice(result.Fixes, func(i, j int) bool {
		if result.Fixes[i].File != result.Fixes[j].File {
			return result.Fixes[i].File < result.Fixes[j].File
		}
		return result.Fixes[i].Line < result.Fixes[j].Line
	})
	return result, nil
}

func splitTarget(link markdown.Link) (file, section string) {
	if link.Relative != nil {
		return link.Relative.File, link.Relative.Section
	}
	file, section, found := strings.Cut(link.URL, "#")
	if found {
		section = "#" + section
	}
	return file, section
}

func targetExists(root, source, file string) bool {
	target := path.Join(path.Dir(filepath.ToSlash(source)), filepath.ToSlash(file))
	if strings.HasPrefix(target, "../") {
		return false
	}
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(target)))
	return err == nil
}

// classify matches the broken target's base name against the tree's
// assets.
func classify(tree *markdown.Tree, source string, link markdown.Link, file, section string, filter targetFilter) LinkFix {
	fix := LinkFix{
		File: source,
		Line: link.Line + 1,
		URL:  link.URL,
	}

	name := path.Base(filepath.ToSlash(file))

	var candidates []string
	for _, candidate := range tree.Lookup(name) {
		if filter(candidate) {
			candidates = append(candidates, candidate)
		}
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
		close := closeNames(name, tree, filter)
		if len(close) == 0 {
			fix.Class = NoMatch
			return fix
		}
		fix.Class = Suggestion
		fix.Candidates = close
		return fix

	case 1:
		fix.Class = ExactMatch
		fix.Candidates = candidates
		fix.Replacement = relativeTo(source, candidates[0]) + section
		return fix

	default:
		fix.Class = MultipleMatches
		fix.Candidates = candidates
		return fix
	}
}

// closeNames returns asset paths whose base name is similar to the
// broken name, best matches first.
func closeNames(name string, tree *markdown.Tree, filter targetFilter) []string {
	type scored struct {
		path  string
		score float64
	}
	var matches []scored

	for candidate, paths := range tree.Assets {
		score := similarity(name, candidate)
		if score < suggestionCutoff {
			continue
		}
		for _, p := range paths {
			if filter(p) {
				matches = append(matches, scored{path: p, score: score})
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].path < matches[j].path
	})

	var out []string
	for _, m := range matches {
		out = append(out, m.path)
	}
	return out
}

// relativeTo computes the link URL from a document to a root-relative
// target path.
func relativeTo(source, target string) string {
	rel, err := filepath.Rel(filepath.Dir(source), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// rewrite replaces the link occurrence on its line with one pointing at
// the replacement URL.
func rewrite(doc *markdown.Document, link markdown.Link, replacement string) {
	line := doc.Lines[link.Line]

	var updated string
	if link.Text == "" && !strings.HasPrefix(link.Full, "[") && !strings.HasPrefix(link.Full, "![") {
		// HTML img tag; swap the src attribute value.
		updated = strings.Replace(link.Full, `src="`+link.URL+`"`, `src="`+replacement+`"`, 1)
	} else {
		prefix := ""
		if strings.HasPrefix(link.Full, "!") {
			prefix = "!"
		}
		updated = prefix + "[" + link.Text + "](" + replacement + ")"
	}

	doc.Lines[link.Line] = strings.Replace(line, link.Full, updated, 1)
}
