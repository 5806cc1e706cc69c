package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB/localDB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRebuilder struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingRebuilder) RebuildDocument(ctx context.Context, name string) (jobModel.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	return jobModel.Job{DocName: name, Status: jobModel.JobStatusComplete}, nil
}

func (r *recordingRebuilder) rebuilt() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func startWatcher(t *testing.T, dir string, rb Rebuilder) {
	t.Helper()
	w, err := New(dir, 100*time.Millisecond, rb)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	rb := &recordingRebuilder{}
	startWatcher(t, dir, rb)

	path := filepath.Join(dir, "report.pdf")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 version "+string(rune('a'+i))), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(rb.rebuilt()) == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, []string{"report.pdf"}, rb.rebuilt())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rb := &recordingRebuilder{}
	startWatcher(t, dir, rb)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SCAN.PDF"), []byte("x"), 0o644))

	require.Eventually(t, func() bool { return len(rb.rebuilt()) == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, []string{"SCAN.PDF"}, rb.rebuilt())
}

func TestWatcher_RemoveCancelsPendingRebuild(t *testing.T) {
	dir := t.TempDir()
	rb := &recordingRebuilder{}
	w, err := New(dir, 500*time.Millisecond, rb)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = w.Run(ctx)
	}()

	path := filepath.Join(dir, "gone.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.Remove(path))

	time.Sleep(800 * time.Millisecond)
	cancel()
	<-stopped
	assert.Empty(t, rb.rebuilt())
}

func TestWatcher_IgnoresPublishedIndexDirs(t *testing.T) {
	dir := t.TempDir()
	rb := &recordingRebuilder{}
	startWatcher(t, dir, rb)

	store, err := localDB.NewStore(dir)
	require.NoError(t, err)
	chunks := []commonModels.DocChunk{{ChunkId: "c1", Chunk: "text", DocName: "report.pdf", PageNum: 1}}
	for i := 0; i < 2; i++ {
		require.NoError(t, store.Replace(context.Background(), "report.pdf", chunks, [][]float32{{1, 0}}))
	}

	time.Sleep(400 * time.Millisecond)
	assert.Empty(t, rb.rebuilt(), "publishing vectordb-report.pdf must not trigger a rebuild")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("%PDF-1.4"), 0o644))
	require.Eventually(t, func() bool { return len(rb.rebuilt()) == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"report.pdf"}, rb.rebuilt())
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), time.Second, &recordingRebuilder{})
	assert.Error(t, err)
}
