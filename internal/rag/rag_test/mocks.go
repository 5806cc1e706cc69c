package rag_test

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
)

// MockEmbedder hashes words into a fixed size bag of words, so identical
// texts get identical vectors.
type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
	mu             sync.Mutex
	Calls          int
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return bagOfWords(query), nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = bagOfWords(c)
	}
	return out, nil
}

func bagOfWords(text string) []float32 {
	v := make([]float32, 64)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,?!")))
		v[h.Sum32()%64]++
	}
	return v
}

// MockLLM implements llm.Provider and records what it was sent.
type MockLLM struct {
	OnComplete func(ctx context.Context, messages []commonModels.Message) (string, error)
	Received   []commonModels.Message
	Calls      int
}

func (m *MockLLM) Complete(ctx context.Context, messages []commonModels.Message) (string, error) {
	m.Calls++
	m.Received = messages
	if m.OnComplete != nil {
		return m.OnComplete(ctx, messages)
	}
	return "mocked llm response", nil
}

// MockBuilder implements rag.IndexBuilder.
type MockBuilder struct {
	OnBuildAll func(ctx context.Context, docs []commonModels.Document) (jobModel.BuildReport, error)
	Docs       []commonModels.Document
	Calls      int
}

func (m *MockBuilder) BuildAll(ctx context.Context, docs []commonModels.Document) (jobModel.BuildReport, error) {
	m.Calls++
	m.Docs = docs
	if m.OnBuildAll != nil {
		return m.OnBuildAll(ctx, docs)
	}
	report := make(jobModel.BuildReport, len(docs))
	for i, d := range docs {
		report[i] = jobModel.Job{DocName: d.Name, Status: jobModel.JobStatusComplete, Chunks: 1}
	}
	return report, nil
}

// MockStore is an in-memory vectorDB.IndexStore.
type MockStore struct {
	OnSearch func(ctx context.Context, name string, v []float32, k int) ([]commonModels.DocChunk, error)
	indexes  map[string][]commonModels.DocChunk
}

func (m *MockStore) Replace(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.indexes == nil {
		m.indexes = make(map[string][]commonModels.DocChunk)
	}
	m.indexes[name] = chunks
	return nil
}

func (m *MockStore) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := m.indexes[name]
	return ok, nil
}

func (m *MockStore) Search(ctx context.Context, name string, v []float32, k int) ([]commonModels.DocChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, name, v, k)
	}
	chunks := m.indexes[name]
	if len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks, nil
}

func (m *MockStore) Close() error { return nil }
