package localDB

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
)

func chunksOf(doc string, texts ...string) []commonModels.DocChunk {
	out := make([]commonModels.DocChunk, len(texts))
	for i, t := range texts {
		out[i] = commonModels.DocChunk{ChunkId: doc + "-" + t, Chunk: t, DocName: doc, PageNum: 1, ChunkPageOrder: i}
	}
	return out
}

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewStore(root)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, root
}

func TestReplaceAndSearch_SelfMatchRanksFirst(t *testing.T) {
	ctx := context.Background()
	s, root := newStore(t)

	chunks := chunksOf("a.pdf", "alpha", "beta", "gamma", "delta")
	vectors := [][]float32{{1, 0, 0}, {0.9, 0.1, 0}, {0, 1, 0}, {0, 0, 1}}
	if err := s.Replace(ctx, "a.pdf", chunks, vectors); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	for _, artifact := range []string{config.IndexVectorsFile, config.IndexMetadataFile} {
		if _, err := os.Stat(filepath.Join(root, "vectordb-a.pdf", artifact)); err != nil {
			t.Errorf("artifact %s missing: %v", artifact, err)
		}
	}

	matches, err := s.Search(ctx, "a.pdf", []float32{0, 1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Chunk != "gamma" {
		t.Errorf("self match should rank first, got %q", matches[0].Chunk)
	}
	if matches[0].Score < matches[1].Score || matches[1].Score < matches[2].Score {
		t.Errorf("scores not descending: %v %v %v", matches[0].Score, matches[1].Score, matches[2].Score)
	}
	if matches[0].DocName != "a.pdf" || matches[0].PageNum != 1 {
		t.Errorf("metadata lost: %+v", matches[0])
	}
}

func TestSearch_MissingIndexIsNotFound(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Search(context.Background(), "ghost.pdf", []float32{1}, 3)
	if !errors.Is(err, commonModels.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExists_RequiresBothArtifacts(t *testing.T) {
	ctx := context.Background()
	s, root := newStore(t)
	if err := s.Replace(ctx, "b.pdf", chunksOf("b.pdf", "x"), [][]float32{{1, 0}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "vectordb-b.pdf", config.IndexMetadataFile)); err != nil {
		t.Fatal(err)
	}
	ok, err := s.Exists(ctx, "b.pdf")
	if err != nil || ok {
		t.Errorf("Exists = %v, %v; want false without metadata artifact", ok, err)
	}
	if _, err := s.Search(ctx, "b.pdf", []float32{1, 0}, 3); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestReplace_NoStaleChunks(t *testing.T) {
	ctx := context.Background()
	s, root := newStore(t)

	if err := s.Replace(ctx, "c.pdf", chunksOf("c.pdf", "old one", "old two"), [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, "c.pdf", chunksOf("c.pdf", "new"), [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}

	matches, err := s.Search(ctx, "c.pdf", []float32{0, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Chunk != "new" {
		t.Errorf("stale chunks leaked: %+v", matches)
	}

	entries, _ := os.ReadDir(root)
	if len(entries) != 1 {
		t.Errorf("scratch or backup dirs left behind: %v", entries)
	}
}

func TestReplace_IsolatedPerDocument(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	if err := s.Replace(ctx, "x.pdf", chunksOf("x.pdf", "from x"), [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, "y.pdf", chunksOf("y.pdf", "from y"), [][]float32{{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, "y.pdf", chunksOf("y.pdf", "from y again"), [][]float32{{0, 1}}); err != nil {
		t.Fatal(err)
	}

	matches, err := s.Search(ctx, "x.pdf", []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Chunk != "from x" {
		t.Errorf("x.pdf affected by y.pdf rebuild: %+v", matches)
	}
}

func TestReplace_FailureKeepsPreviousIndex(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	if err := s.Replace(ctx, "d.pdf", chunksOf("d.pdf", "keep me"), [][]float32{{1}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, "d.pdf", chunksOf("d.pdf", "a", "b"), [][]float32{{1}}); err == nil {
		t.Fatal("expected mismatch error")
	}

	matches, err := s.Search(ctx, "d.pdf", []float32{1}, 3)
	if err != nil || len(matches) != 1 || matches[0].Chunk != "keep me" {
		t.Errorf("previous index damaged: %+v, %v", matches, err)
	}
}

// Two builds with the same chunk count but swapped vectors: a search that
// paired one build's text with the other's vectors would return "even-1"
// or "odd-0" for the query [1, 0].
func TestSearch_ConcurrentReplaceNeverMixesBuilds(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	builds := []struct {
		chunks  []commonModels.DocChunk
		vectors [][]float32
	}{
		{chunksOf("r.pdf", "even-0", "even-1"), [][]float32{{1, 0}, {0, 1}}},
		{chunksOf("r.pdf", "odd-0", "odd-1"), [][]float32{{0, 1}, {1, 0}}},
	}
	if err := s.Replace(ctx, "r.pdf", builds[0].chunks, builds[0].vectors); err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	writerDone := make(chan error, 1)
	go func() {
		defer close(writerDone)
		for i := 1; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			b := builds[i%2]
			if err := s.Replace(ctx, "r.pdf", b.chunks, b.vectors); err != nil {
				writerDone <- err
				return
			}
		}
	}()

	for i := 0; i < 300; i++ {
		matches, err := s.Search(ctx, "r.pdf", []float32{1, 0}, 1)
		if err != nil {
			close(stop)
			t.Fatalf("search %d failed during rebuild: %v", i, err)
		}
		if got := matches[0].Chunk; got != "even-0" && got != "odd-1" {
			close(stop)
			t.Fatalf("search %d mixed two builds: top match %q", i, got)
		}
	}
	close(stop)
	if err := <-writerDone; err != nil {
		t.Fatalf("Replace: %v", err)
	}
}

func TestFlatIndex(t *testing.T) {
	idx := newFlatIndex([][]float32{{1, 0}, {0, 1}, {1, 1}, {0, 0}})

	pos, scores, err := idx.Query([]float32{1, 0.1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 2 || pos[0] != 0 || pos[1] != 2 {
		t.Errorf("positions = %v, scores = %v", pos, scores)
	}

	if _, _, err := idx.Query([]float32{1, 0, 0}, 2); !errors.Is(err, errDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}

	pos, _, _ = idx.Query([]float32{1, 0}, 10)
	if len(pos) != 4 {
		t.Errorf("k larger than index should return everything, got %d", len(pos))
	}
}

func TestVectorBlobRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3}
	got, err := decodeVector(encodeVector(v))
	if err != nil {
		t.Fatal(err)
	}
	for i := range v {
		if got[i] != v[i] {
			t.Fatalf("got %v want %v", got, v)
		}
	}
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}
