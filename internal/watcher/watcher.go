// Package watcher rebuilds a document's index when its PDF changes on disk.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/rag/ingest"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/fsnotify/fsnotify"
)

// Rebuilder is satisfied by rag.Service.
type Rebuilder interface {
	RebuildDocument(ctx context.Context, name string) (jobModel.Job, error)
}

type Watcher struct {
	dir       string
	debounce  time.Duration
	rebuilder Rebuilder
	watcher   *fsnotify.Watcher
	logger    *logger_i.Logger
}

func New(dir string, debounce time.Duration, rebuilder Rebuilder) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		dir:       dir,
		debounce:  debounce,
		rebuilder: rebuilder,
		watcher:   w,
		logger:    logger_i.NewLogger("Watcher"),
	}, nil
}

// Run blocks until ctx is done. Bursts of writes to one PDF within the
// debounce window trigger a single rebuild; rebuilds run one at a time.
// Removing a PDF leaves its index in place.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.logger.Info("Watching for PDF changes", "dir", w.dir, "debounce", w.debounce)

	timers := make(map[string]*time.Timer)
	due := make(chan string)
	rebuilds := make(chan string, 16)
	done := make(chan struct{})
	quit := make(chan struct{})

	go func() {
		defer close(done)
		for name := range rebuilds {
			w.rebuild(ctx, name)
		}
	}()
	defer func() {
		close(quit)
		for _, t := range timers {
			t.Stop()
		}
		close(rebuilds)
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if !ingest.IsPDF(name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				// index directories published next to the PDFs end in .pdf too
				if !isRegularFile(event.Name) {
					continue
				}
				if t, exists := timers[name]; exists {
					t.Reset(w.debounce)
					continue
				}
				timers[name] = time.AfterFunc(w.debounce, func() {
					select {
					case due <- name:
					case <-quit:
					}
				})
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				t, exists := timers[name]
				if !exists {
					w.logger.Debug("PDF entry removed", "name", name)
					continue
				}
				t.Stop()
				delete(timers, name)
				w.logger.Info("PDF removed, keeping its index", "document", name)
			}

		case name := <-due:
			delete(timers, name)
			select {
			case rebuilds <- name:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (w *Watcher) rebuild(ctx context.Context, name string) {
	if ctx.Err() != nil {
		return
	}
	job, err := w.rebuilder.RebuildDocument(ctx, name)
	if err != nil {
		w.logger.Error("Rebuild after change failed", "document", name, "error", err)
		return
	}
	w.logger.Info("Rebuilt after change", "document", name, "chunks", job.Chunks)
}
