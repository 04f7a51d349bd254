// Package graph builds the directed graph of inter-document links and
// supports reachability, cycle detection, and GraphViz export.
package graph

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
	"github.com/TroyWilliams3687/md-tools/internal/myst"
)

// Graph is the document link graph. Nodes are root-relative document
// paths; an edge runs from a document to each document it links to.
type Graph struct {
	nodes   map[string]*markdown.Document
	edges   map[string][]string // source -> targets
	parents map[string][]string // target -> sources (backlinks)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]*markdown.Document),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// Build constructs the link graph of a scanned tree. Relative links
// and {toctree} entries both become edges; links pointing outside the
// tree or at non-markdown files do not, and section-only links are
// self references and are skipped.
func Build(tree *markdown.Tree) *Graph {
	g := New()

	for _, doc := range tree.Docs {
		g.AddNode(tree.Rel(doc.Path), doc)
	}

	for _, doc := range tree.Docs {
		source := tree.Rel(doc.Path)
		for _, link := range doc.RelativeLinks() {
			g.linkEdge(source, link.Relative.File)
		}
		for _, entry := range myst.TocTreeEntries(doc.Lines) {
			file := strings.TrimSpace(entry.Line)
			if path.Ext(file) == "" {
				file += ".md"
			}
			g.linkEdge(source, file)
		}
	}

	return g
}

// linkEdge resolves a link target against its source document and adds
// the edge when the target is a document in the tree. Links to missing
// documents are validate's problem, not the graph's.
func (g *Graph) linkEdge(source, file string) {
	target, ok := resolve(source, file)
	if !ok {
		return
	}
	if _, exists := g.nodes[target]; !exists {
		return
	}
	g.addEdge(source, target)
}

// resolve turns a relative link in source into a root-relative document
// path.
func resolve(source, file string) (string, bool) {
	if file == "" || !strings.EqualFold(path.Ext(file), ".md") {
		return "", false
	}
	target := path.Join(path.Dir(filepath.ToSlash(source)), filepath.ToSlash(file))
	if strings.HasPrefix(target, "../") {
		return "", false
	}
	return filepath.FromSlash(target), true
}

// AddNode adds a document node to the graph.
func (g *Graph) AddNode(id string, doc *markdown.Document) {
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = doc
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	} else {
		g.nodes[id] = doc
	}
}

func (g *Graph) addEdge(source, target string) {
	if source == target {
		return
	}
	if !contains(g.edges[source], target) {
		g.edges[source] = append(g.edges[source], target)
	}
	if !contains(g.parents[target], source) {
		g.parents[target] = append(g.parents[target], source)
	}
}

// Document returns the document stored at a node.
func (g *Graph) Document(id string) (*markdown.Document, bool) {
	doc, exists := g.nodes[id]
	return doc, exists
}

// Nodes returns all node IDs sorted.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Links returns the documents a node links to.
func (g *Graph) Links(id string) []string {
	out := append([]string(nil), g.edges[id]...)
	sort.Strings(out)
	return out
}

// Backlinks returns the documents linking to a node.
func (g *Graph) Backlinks(id string) []string {
	out := append([]string(nil), g.parents[id]...)
	sort.Strings(out)
	return out
}

// NodeCount returns the number of documents in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of links in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.edges {
		count += len(targets)
	}
	return count
}

// Orphans returns documents no other document links to.
func (g *Graph) Orphans() []string {
	var orphans []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// Leaves returns documents that link to nothing.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Reachable returns all documents reachable from the given starting
// documents by following links, the starts included.
func (g *Graph) Reachable(starts []string) []string {
	seen := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, target := range g.edges[id] {
			visit(target)
		}
	}

	for _, id := range starts {
		if _, exists := g.nodes[id]; exists {
			visit(id)
		}
	}

	result := make([]string, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Levels groups documents by link depth: level 0 holds the documents
// nothing links to, level 1 the documents they link to, and so on.
// Documents reachable only through a cycle get the depth of their
// shortest path from a level 0 document; components with no entry
// point are omitted.
func (g *Graph) Levels() [][]string {
	depth := make(map[string]int)
	queue := g.Orphans()
	for _, id := range queue {
		depth[id] = 0
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, target := range g.edges[id] {
			if _, seen := depth[target]; seen {
				continue
			}
			depth[target] = depth[id] + 1
			queue = append(queue, target)
		}
	}

	max := -1
	for _, d := range depth {
		if d > max {
			max = d
		}
	}
	if max < 0 {
		return nil
	}

	levels := make([][]string, max+1)
	for id, d := range depth {
		levels[d] = append(levels[d], id)
	}
	for _, level := range levels {
		sort.Strings(level)
	}
	return levels
}

// HasCycle reports whether documents link back to themselves through a
// chain of links, along with one such chain.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, target := range g.edges[id] {
			if !visited[target] {
				path[target] = id
				if dfs(target) {
					return true
				}
			} else if recStack[target] {
				cyclePath = []string{target}
				for curr := id; curr != target; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{target}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	ids := g.Nodes()
	for _, id := range ids {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// Subgraph returns a new graph containing only the specified documents
// and the links between them.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := New()
	nodeSet := make(map[string]bool)

	for _, id := range ids {
		nodeSet[id] = true
		if doc, exists := g.nodes[id]; exists {
			sub.AddNode(id, doc)
		}
	}

	for _, id := range ids {
		for _, target := range g.edges[id] {
			if nodeSet[target] {
				sub.addEdge(id, target)
			}
		}
	}

	return sub
}

// DOT renders the graph in GraphViz dot syntax.
func (g *Graph) DOT(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", name)
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontsize=10];\n")

	for _, id := range g.Nodes() {
		fmt.Fprintf(&b, "  %q;\n", filepath.ToSlash(id))
	}
	for _, id := range g.Nodes() {
		for _, target := range g.Links(id) {
			fmt.Fprintf(&b, "  %q -> %q;\n", filepath.ToSlash(id), filepath.ToSlash(target))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
