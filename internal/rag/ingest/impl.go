package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/metrics"
	"github.com/akolanti/pdfqa/internal/rag/embedding"
	"github.com/google/uuid"
)

//splitter

// Separators ordered from best to worst for keeping meaning together.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// splitTextIntoChunks cuts text into chunks of at most limit bytes, each
// starting with up to overlap bytes from the end of the previous one.
func splitTextIntoChunks(text string, limit int, overlap int) []string {
	return splitRecursive(strings.TrimSpace(text), limit, overlap, separators)
}

func splitRecursive(text string, limit int, overlap int, seps []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	splitChar, rest := pickSeparator(text, seps)
	var parts []string
	if splitChar == "" {
		parts = hardSplit(text, limit)
	} else {
		parts = strings.Split(text, splitChar)
	}

	var chunks []string
	var currentChunk strings.Builder
	hasNew := false

	flush := func() {
		if hasNew && strings.TrimSpace(currentChunk.String()) != "" {
			chunks = append(chunks, currentChunk.String())
		}
		currentChunk.Reset()
		hasNew = false
	}

	for _, part := range parts {
		if len(part) > limit {
			flush()
			chunks = append(chunks, splitRecursive(part, limit, overlap, rest)...)
			continue
		}

		if currentChunk.Len() > 0 && currentChunk.Len()+len(splitChar)+len(part) > limit {
			previous := currentChunk.String()
			flush()
			if carry := tail(previous, overlap); len(carry)+len(splitChar)+len(part) <= limit {
				currentChunk.WriteString(carry)
			}
		}

		if currentChunk.Len() > 0 {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
		hasNew = true
	}
	flush()

	return chunks
}

func pickSeparator(text string, seps []string) (string, []string) {
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			return s, seps[i+1:]
		}
	}
	return "", nil
}

// hardSplit cuts on rune boundaries when no separator is left.
func hardSplit(text string, limit int) []string {
	var parts []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			_, cut = utf8.DecodeRuneInString(text)
		}
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
	return append(parts, text)
}

func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

func PrepareChunks(pages []rawPage, docName string, limit int, overlap int, ingestedAt time.Time) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, page := range pages {
		stringChunks := splitTextIntoChunks(page.Content, limit, overlap)

		for i, text := range stringChunks {
			allChunks = append(allChunks, commonModels.DocChunk{
				ChunkId:        uuid.NewString(),
				Chunk:          text,
				DocName:        docName,
				PageNum:        page.Number,
				ChunkPageOrder: i,
				IngestedAt:     ingestedAt,
			})
		}
	}

	return allChunks
}

// BatchIngest embeds chunks in batches of batchSize; the result lines up with chunks.
func BatchIngest(ctx context.Context, chunks []commonModels.DocChunk, embedder embedding.Embedder, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = len(chunks)
	}
	vectors := make([][]float32, 0, len(chunks))

	for i := 0; i < len(chunks); i += batchSize {
		end := min(i+batchSize, len(chunks))
		currentBatch := chunks[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Chunk
		}

		start := time.Now()
		batchVectors, err := embedder.BatchEmbedding(ctx, texts)
		metrics.CaptureExecutionMetrics("embedding", time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(batchVectors) != len(currentBatch) {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d chunks", len(batchVectors), len(currentBatch))
		}
		vectors = append(vectors, batchVectors...)
	}

	return vectors, nil
}
