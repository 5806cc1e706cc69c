package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//server listening address
	ServerListenAddr = "localhost:3050"

	//serverTimeouts
	ReadTimeout            = 10 * time.Second
	WriteTimeout           = 120 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second
	RequestTimeout         = 90 * time.Second

	//documents + persisted indexes
	DocumentsDir      = "."
	IndexDir          = "."
	IndexDirPrefix    = "vectordb-"
	IndexVectorsFile  = "index.vectors"
	IndexMetadataFile = "index.meta"
	PDFExtension      = ".pdf"

	//splitter
	MaxChunkSize = 1000 // characters
	ChunkOverlap = 0

	//retrieval
	TopK = 3

	//rebuild fan-out, 1 builds documents one after another
	RebuildWorkerCount = 1
	EmbeddingBatchSize = 100

	//per document rebuild lock
	LockTTL          = 10 * time.Minute
	LockPollInterval = 100 * time.Millisecond
	LockKeyPrefix    = "pdfqa:lock:"

	//watch mode
	WatchDebounce = 2 * time.Second

	//providers
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	OpenAIAPIKeyEnv = "OPENAI_API_KEY"
	GeminiAPIKeyEnv = "GEMINI_API_KEY"

	OpenAIChatModel      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-ada-002"

	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"

	//vector store backends
	VectorStoreLocal  = "local"
	VectorStoreQdrant = "qdrant"

	//vectorDB
	QdrantHost     = "localhost"
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//shared http transport for the llm and embedding clients
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis, empty address disables the distributed lock
	RedisAddr    = ""
	RedisLockDB  = 0
	RedisTimeout = 5 * time.Second

	DefaultConfigFile = "pdfqa.yaml"
	DefaultEnvFile    = ".env"
)
