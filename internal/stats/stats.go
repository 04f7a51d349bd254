// Package stats computes word counts and estimated page counts for a
// documentation tree.
package stats

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/sync/errgroup"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
)

// wordsPerPage approximates a printed page of prose.
const wordsPerPage = 500.0

// DocumentStats holds the counts for one document. Lines inside code
// fences and the YAML metadata block do not contribute words; fenced
// code is tallied separately.
type DocumentStats struct {
	File      string  `json:"file"`
	Words     int     `json:"words"`
	CodeWords int     `json:"code_words"`
	Pages     float64 `json:"pages"`
}

// Report is the aggregated result over a tree.
type Report struct {
	Documents []DocumentStats `json:"documents"`
	Words     int             `json:"words"`
	CodeWords int             `json:"code_words"`
	Pages     float64         `json:"pages"`
}

// Collect counts words across the tree, documents in parallel.
func Collect(ctx context.Context, tree *markdown.Tree) (*Report, error) {
	docs := make([]DocumentStats, len(tree.Docs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, doc := range tree.Docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			words, code := countWords(doc)
			mu.Lock()
			docs[i] = DocumentStats{
				File:      tree.Rel(doc.Path),
				Words:     words,
				CodeWords: code,
				Pages:     float64(words) / wordsPerPage,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].File < docs[j].File })

	report := &Report{Documents: docs}
	for _, d := range docs {
		report.Words += d.Words
		report.CodeWords += d.CodeWords
	}
	report.Pages = float64(report.Words) / wordsPerPage

	return report, nil
}

func countWords(doc *markdown.Document) (words, code int) {
	for _, nl := range markdown.OutsideFences(doc.Lines) {
		words += len(strings.Fields(nl.Line))
	}
	for _, nl := range markdown.CodeLines(doc.Lines) {
		code += len(strings.Fields(nl.Line))
	}
	return words, code
}

// Render writes the report as a table.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Document", "Words", "Code", "Est. Pages"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, d := range r.Documents {
		t.AppendRow(table.Row{d.File, d.Words, d.CodeWords, fmt.Sprintf("%.1f", d.Pages)})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d documents", len(r.Documents)),
		r.Words,
		r.CodeWords,
		fmt.Sprintf("%.1f", r.Pages),
	})

	t.SetStyle(table.StyleLight)
	t.Render()
}
