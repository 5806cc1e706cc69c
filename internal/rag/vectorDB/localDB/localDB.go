// Package localDB persists each document's vector index under
// <root>/vectordb-<name>/ as two artifacts: index.vectors (SQLite) holding
// the embeddings and index.meta (JSON) holding chunk text and metadata.
// Both must exist for the index to be queryable.
package localDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/google/uuid"
)

// Store guards each document with a RWMutex: Search reads both artifacts
// under the read lock and the swap runs under the write lock, so a search
// never pairs one build's chunk text with another build's vectors.
type Store struct {
	root   string
	locks  sync.Map // document name -> *sync.RWMutex
	logger *logger_i.Logger
}

var _ vectorDB.IndexStore = (*Store)(nil)

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating index root %s: %w", root, err)
	}
	return &Store{root: root, logger: logger_i.NewLogger("local_index")}, nil
}

// IndexPath is the directory holding the artifacts of name.
func (s *Store) IndexPath(name string) string {
	return filepath.Join(s.root, config.IndexDirPrefix+name)
}

func (s *Store) docLock(name string) *sync.RWMutex {
	l, _ := s.locks.LoadOrStore(name, &sync.RWMutex{})
	return l.(*sync.RWMutex)
}

func (s *Store) Exists(_ context.Context, name string) (bool, error) {
	l := s.docLock(name)
	l.RLock()
	defer l.RUnlock()
	return s.exists(name)
}

func (s *Store) exists(name string) (bool, error) {
	dir := s.IndexPath(name)
	for _, artifact := range []string{config.IndexVectorsFile, config.IndexMetadataFile} {
		_, err := os.Stat(filepath.Join(dir, artifact))
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// Replace writes both artifacts into a scratch directory next to the live
// one and swaps it in with renames, so readers see the old or the new index,
// never a mix, and a failed build leaves the old index untouched.
func (s *Store) Replace(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	log := s.logger.WithTrace(ctx).With("doc", name)

	live := s.IndexPath(name)
	scratch := filepath.Join(s.root, "."+config.IndexDirPrefix+name+".tmp-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := writeVectors(ctx, filepath.Join(scratch, config.IndexVectorsFile), chunks, vectors); err != nil {
		return err
	}
	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	ds := docstore{
		DocName:   name,
		Dimension: dimension,
		Count:     len(chunks),
		BuiltAt:   time.Now().UTC(),
		Chunks:    chunks,
	}
	if err := writeDocstore(filepath.Join(scratch, config.IndexMetadataFile), ds); err != nil {
		return err
	}

	l := s.docLock(name)
	l.Lock()
	defer l.Unlock()
	return s.swap(log, scratch, live)
}

func (s *Store) swap(log *logger_i.Logger, scratch, live string) error {
	backup := ""
	if _, err := os.Stat(live); err == nil {
		backup = live + ".old-" + uuid.NewString()
		if err := os.Rename(live, backup); err != nil {
			return fmt.Errorf("moving previous index aside: %w", err)
		}
	}

	if err := os.Rename(scratch, live); err != nil {
		if backup != "" {
			if rerr := os.Rename(backup, live); rerr != nil {
				log.Error("Could not restore previous index", "error", rerr)
			}
		}
		return fmt.Errorf("publishing index: %w", err)
	}

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			log.Warn("Could not remove previous index", "path", backup, "error", err)
		}
	}
	log.Debug("Index published", "path", live)
	return nil
}

func (s *Store) Search(ctx context.Context, name string, vector []float32, k int) ([]commonModels.DocChunk, error) {
	ds, vectors, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}

	positions, scores, err := newFlatIndex(vectors).Query(vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", name, err)
	}

	matches := make([]commonModels.DocChunk, len(positions))
	for i, p := range positions {
		matches[i] = ds.Chunks[p]
		matches[i].Score = scores[i]
	}
	s.logger.WithTrace(ctx).Debug("Found matches", "doc", name, "count", len(matches))
	return matches, nil
}

// load reads both artifacts of name under its read lock. An artifact that
// vanished after the existence check (another process swapped the index)
// gets one more attempt before the index is reported missing.
func (s *Store) load(ctx context.Context, name string) (docstore, [][]float32, error) {
	l := s.docLock(name)
	l.RLock()
	defer l.RUnlock()

	for attempt := 0; ; attempt++ {
		ok, err := s.exists(name)
		if err != nil {
			return docstore{}, nil, err
		}
		if !ok {
			return docstore{}, nil, vectorDB.IndexNotFound()
		}

		ds, vectors, err := s.readArtifacts(ctx, name)
		if errors.Is(err, os.ErrNotExist) && attempt == 0 {
			continue
		}
		if errors.Is(err, os.ErrNotExist) {
			return docstore{}, nil, vectorDB.IndexNotFound()
		}
		return ds, vectors, err
	}
}

func (s *Store) readArtifacts(ctx context.Context, name string) (docstore, [][]float32, error) {
	dir := s.IndexPath(name)
	ds, err := readDocstore(filepath.Join(dir, config.IndexMetadataFile))
	if err != nil {
		return docstore{}, nil, err
	}
	vectors, err := readVectors(ctx, filepath.Join(dir, config.IndexVectorsFile))
	if err != nil {
		return docstore{}, nil, err
	}
	if len(vectors) != len(ds.Chunks) {
		return docstore{}, nil, fmt.Errorf("index %s is inconsistent: %d vectors, %d chunks", name, len(vectors), len(ds.Chunks))
	}
	return ds, vectors, nil
}

func (s *Store) Close() error {
	return nil
}
