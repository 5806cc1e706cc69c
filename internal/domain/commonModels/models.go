package commonModels

import "time"

// Document is a source PDF read from disk at rebuild time.
type Document struct {
	Name    string `json:"doc_name"`
	Path    string `json:"path"`
	Content []byte `json:"-"`
}

type DocChunk struct {
	ChunkId        string    `json:"chunk_id"`
	Chunk          string    `json:"content"`
	DocName        string    `json:"doc_name"`
	PageNum        int       `json:"page_num"`
	ChunkPageOrder int       `json:"chunk_order"`
	IngestedAt     time.Time `json:"ingested_at"`
	Score          float32   `json:"score,omitempty"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
