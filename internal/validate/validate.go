// Package validate checks a documentation tree for broken links,
// missing images, and malformed metadata.
package validate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
)

// Kind classifies a validation issue.
type Kind string

const (
	KindBrokenLink    Kind = "broken_link"
	KindBrokenImage   Kind = "broken_image"
	KindBadRemote     Kind = "bad_remote"
	KindMissingMeta   Kind = "missing_metadata"
	KindMissingUUID   Kind = "missing_uuid"
	KindBadUUID       Kind = "bad_uuid"
	KindDuplicateUUID Kind = "duplicate_uuid"
)

// Issue is a single problem found in a document. Line is 1-based for
// display; 0 means the issue concerns the document as a whole.
type Issue struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

// Result is the outcome of validating a tree. Assets counts every file
// under the root, markdown included.
type Result struct {
	Documents int     `json:"documents"`
	Assets    int     `json:"assets"`
	Issues    []Issue `json:"issues"`
}

// OK reports whether the tree validated cleanly.
func (r *Result) OK() bool {
	return len(r.Issues) == 0
}

// Options tune a validation run.
type Options struct {
	// Remote enables HTTP HEAD checks on absolute URLs.
	Remote bool

	// Client is the HTTP client for remote checks; a default with a
	// 10 second timeout is used when nil.
	Client *http.Client

	// RemoteLimit caps concurrent remote checks.
	RemoteLimit int
}

// Tree validates every document in the tree: relative links and images
// must resolve to files on disk, and the leading YAML block must carry
// a well formed, unique UUID. With Remote set, absolute URLs are probed
// over HTTP as well.
func Tree(ctx context.Context, tree *markdown.Tree, opts Options) (*Result, error) {
	result := &Result{Documents: len(tree.Docs)}
	for _, paths := range tree.Assets {
		result.Assets += len(paths)
	}

	uuids := make(map[string][]string)

	for _, doc := range tree.Docs {
		rel := tree.Rel(doc.Path)

		for _, link := range doc.RelativeLinks() {
			if link.Relative.File == "" {
				continue
			}
			if !targetExists(tree.Root, rel, link.Relative.File) {
				result.Issues = append(result.Issues, Issue{
					File:   rel,
					Line:   link.Line + 1,
					Kind:   KindBrokenLink,
					Detail: link.URL,
				})
			}
		}

		for _, img := range doc.ImageLinks() {
			if markdown.IsAbsoluteURL(img.URL) {
				continue
			}
			file := img.URL
			if img.Relative != nil {
				file = img.Relative.File
			}
			if file == "" || !targetExists(tree.Root, rel, file) {
				result.Issues = append(result.Issues, Issue{
					File:   rel,
					Line:   img.Line + 1,
					Kind:   KindBrokenImage,
					Detail: img.URL,
				})
			}
		}

		result.Issues = append(result.Issues, metaIssues(rel, doc, uuids)...)
	}

	for id, files := range uuids {
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		for _, file := range files {
			result.Issues = append(result.Issues, Issue{
				File:   file,
				Kind:   KindDuplicateUUID,
				Detail: fmt.Sprintf("UUID %s shared by %s", id, strings.Join(files, ", ")),
			})
		}
	}

	if opts.Remote {
		issues, err := checkRemote(ctx, tree, opts)
		if err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, issues...)
	}

	sortIssues(result.Issues)
	return result, nil
}

// targetExists resolves a relative link against the document's location
// and checks the target file on disk.
func targetExists(root, source, file string) bool {
	target := path.Join(path.Dir(filepath.ToSlash(source)), filepath.ToSlash(file))
	if strings.HasPrefix(target, "../") {
		return false
	}
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(target)))
	return err == nil
}

func metaIssues(rel string, doc *markdown.Document, uuids map[string][]string) []Issue {
	if doc.Meta == nil {
		return []Issue{{File: rel, Kind: KindMissingMeta, Detail: "no YAML metadata block"}}
	}
	if doc.Meta.UUID == "" {
		return []Issue{{File: rel, Kind: KindMissingUUID, Detail: "metadata block has no UUID"}}
	}
	if _, err := uuid.Parse(doc.Meta.UUID); err != nil {
		return []Issue{{File: rel, Kind: KindBadUUID, Detail: doc.Meta.UUID}}
	}
	uuids[doc.Meta.UUID] = append(uuids[doc.Meta.UUID], rel)
	return nil
}

// checkRemote probes each distinct absolute URL once with a HEAD
// request and reports every occurrence of a failing URL.
func checkRemote(ctx context.Context, tree *markdown.Tree, opts Options) ([]Issue, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	limit := opts.RemoteLimit
	if limit <= 0 {
		limit = 10
	}

	type occurrence struct {
		file string
		line int
	}
	occurrences := make(map[string][]occurrence)
	for _, doc := range tree.Docs {
		rel := tree.Rel(doc.Path)
		for _, link := range doc.AbsoluteLinks() {
			occurrences[link.URL] = append(occurrences[link.URL], occurrence{file: rel, line: link.Line + 1})
		}
	}

	var mu sync.Mutex
	failures := make(map[string]string)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for url := range occurrences {
		g.Go(func() error {
			detail, ok := probe(ctx, client, url)
			if !ok {
				mu.Lock()
				failures[url] = detail
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var issues []Issue
	for url, detail := range failures {
		for _, occ := range occurrences[url] {
			issues = append(issues, Issue{
				File:   occ.file,
				Line:   occ.line,
				Kind:   KindBadRemote,
				Detail: fmt.Sprintf("%s: %s", url, detail),
			})
		}
	}
	return issues, nil
}

func probe(ctx context.Context, client *http.Client, url string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err.Error(), false
	}
	resp, err := client.Do(req)
	if err != nil {
		return err.Error(), false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.Status, false
	}
	return "", true
}

func sortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Kind < issues[j].Kind
	})
}
