package localDB

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// docstore is the metadata artifact: chunk text and provenance, keyed by
// position in the vector artifact.
type docstore struct {
	DocName   string                  `json:"doc_name"`
	Dimension int                     `json:"dimension"`
	Count     int                     `json:"count"`
	BuiltAt   time.Time               `json:"built_at"`
	Chunks    []commonModels.DocChunk `json:"chunks"`
}

const vectorSchema = `
CREATE TABLE IF NOT EXISTS vectors (
	position  INTEGER PRIMARY KEY,
	chunk_id  TEXT NOT NULL,
	embedding BLOB NOT NULL
);`

func writeVectors(ctx context.Context, path string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, vectorSchema); err != nil {
		return fmt.Errorf("creating vector table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vectors (position, chunk_id, embedding) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range vectors {
		if _, err := stmt.ExecContext(ctx, i, chunks[i].ChunkId, encodeVector(v)); err != nil {
			return fmt.Errorf("inserting vector %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func readVectors(ctx context.Context, path string) ([][]float32, error) {
	// opening a missing file would create an empty database
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT embedding FROM vectors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var vectors [][]float32
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		v, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, rows.Err()
}

func writeDocstore(path string, ds docstore) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encoding docstore: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readDocstore(path string) (docstore, error) {
	var ds docstore
	data, err := os.ReadFile(path)
	if err != nil {
		return ds, err
	}
	if err := json.Unmarshal(data, &ds); err != nil {
		return ds, fmt.Errorf("decoding docstore: %w", err)
	}
	return ds, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector blob of %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
