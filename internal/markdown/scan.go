package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ImageExtensions are the asset extensions considered images by the
// repair tooling.
var ImageExtensions = []string{".png", ".gif", ".jpg", ".jpeg"}

// Tree is the result of scanning a documentation root: the markdown
// documents plus a lookup of every file (asset) under the root.
type Tree struct {
	// Root is the absolute path to the documentation root.
	Root string

	// Docs holds the markdown documents sorted by path.
	Docs []*Document

	// Assets maps a file base name to the root-relative paths of files
	// with that name. Every file under the root is an asset, markdown
	// included; assets are potential link targets.
	Assets map[string][]string
}

// ScanTree recursively finds and loads all markdown files under root and
// builds the asset lookup. Documents are loaded in parallel.
func ScanTree(ctx context.Context, root string) (*Tree, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	tree := &Tree{
		Root:   root,
		Assets: make(map[string][]string),
	}

	var mdPaths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree.Assets[d.Name()] = append(tree.Assets[d.Name()], rel)

		if strings.EqualFold(filepath.Ext(path), ".md") {
			mdPaths = append(mdPaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	docs := make([]*Document, len(mdPaths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range mdPaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := LoadDocument(path)
			if err != nil {
				return err
			}
			mu.Lock()
			docs[i] = doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	tree.Docs = docs

	return tree, nil
}

// Rel returns a document path relative to the tree root.
func (t *Tree) Rel(path string) string {
	rel, err := filepath.Rel(t.Root, path)
	if err != nil {
		return path
	}
	return rel
}

// Images returns the root-relative paths of all image assets in the
// tree.
func (t *Tree) Images() []string {
	var images []string
	for name, paths := range t.Assets {
		ext := strings.ToLower(filepath.Ext(name))
		for _, known := range ImageExtensions {
			if ext == known {
				images = append(images, paths...)
				break
			}
		}
	}
	sort.Strings(images)
	return images
}

// Lookup returns the asset paths matching a file base name.
func (t *Tree) Lookup(name string) []string {
	return t.Assets[name]
}
