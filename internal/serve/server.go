// Package serve runs a local preview server over the documentation
// tree, re-indexing when files change on disk.
package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TroyWilliams3687/md-tools/internal/graph"
	"github.com/TroyWilliams3687/md-tools/internal/markdown"
	"github.com/TroyWilliams3687/md-tools/internal/state"
)

// debounceDelay coalesces bursts of filesystem events into one rescan.
const debounceDelay = 250 * time.Millisecond

// Server is the live preview server.
type Server struct {
	root   string
	addr   string
	store  state.IndexStore
	logger *slog.Logger

	mu    sync.RWMutex
	tree  *markdown.Tree
	graph *graph.Graph
}

// New creates a preview server over the documentation root.
func New(root, addr string, store state.IndexStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		root:   root,
		addr:   addr,
		store:  store,
		logger: logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", s.handleDocuments)
		r.Get("/backlinks", s.handleBacklinks)
		r.Get("/graph", s.handleGraph)
	})
	r.Handle("/*", http.FileServer(http.Dir(s.root)))

	return r
}

// Serve scans and indexes the tree, then serves until the context is
// cancelled, rescanning whenever markdown files change.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.rescan(ctx); err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, s.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.root, err)
	}

	go s.watchLoop(ctx, watcher)

	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("preview server running", "addr", s.addr, "root", s.root)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// watchDir recursively adds a directory tree to the watcher, skipping
// hidden directories.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.shouldRescan(watcher, event) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				s.logger.Info("change detected", "file", filepath.Base(event.Name))
				if err := s.rescan(ctx); err != nil {
					s.logger.Error("rescan failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// shouldRescan reports whether a filesystem event warrants re-indexing.
// A directory created after startup is added to the watcher here, since
// the initial walk could not have seen it.
func (s *Server) shouldRescan(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if name := filepath.Base(event.Name); len(name) > 1 && name[0] == '.' {
				return false
			}
			if err := watchDir(watcher, event.Name); err != nil {
				s.logger.Error("failed to watch new directory", "dir", event.Name, "error", err)
			}
			// The directory may have arrived with markdown inside.
			return true
		}
	}

	return filepath.Ext(event.Name) == ".md"
}

// rescan reloads the tree, rebuilds the link graph, and refreshes the
// index store.
func (s *Server) rescan(ctx context.Context) error {
	tree, err := markdown.ScanTree(ctx, s.root)
	if err != nil {
		return err
	}

	var summary *state.IndexSummary
	if s.store != nil {
		summary, err = state.IndexTree(s.store, tree)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.tree = tree
	s.graph = graph.Build(tree)
	s.mu.Unlock()

	if summary != nil {
		s.logger.Info("index refreshed", "documents", summary.Indexed, "links", summary.Links, "pruned", summary.Pruned)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "index store not configured", http.StatusServiceUnavailable)
		return
	}

	docs, err := s.store.ListDocuments()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type row struct {
		Path  string `json:"path"`
		UUID  string `json:"uuid,omitempty"`
		Title string `json:"title,omitempty"`
		Words int    `json:"words"`
	}
	out := make([]row, 0, len(docs))
	for _, doc := range docs {
		out = append(out, row{Path: doc.Path, UUID: doc.UUID, Title: doc.Title, Words: doc.Words})
	}
	writeJSON(w, out)
}

func (s *Server) handleBacklinks(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		http.Error(w, "missing target parameter", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "tree not scanned yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]any{
		"target":    target,
		"backlinks": g.Backlinks(target),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "tree not scanned yet", http.StatusServiceUnavailable)
		return
	}

	type edge struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	var edges []edge
	for _, id := range g.Nodes() {
		for _, target := range g.Links(id) {
			edges = append(edges, edge{From: id, To: target})
		}
	}

	writeJSON(w, map[string]any{
		"nodes":   g.Nodes(),
		"edges":   edges,
		"orphans": g.Orphans(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
