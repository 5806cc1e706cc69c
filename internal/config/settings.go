package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is built once at startup and handed to every component.
// Precedence: constants -> YAML file -> .env file -> process env.
type Settings struct {
	ListenAddr     string        `yaml:"listen_addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	Provider       string `yaml:"provider"`
	APIKey         string `yaml:"-"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	// 0 keeps the model default
	EmbeddingDimensions int `yaml:"embedding_dimensions"`

	DocumentsDir string `yaml:"documents_dir"`
	IndexDir     string `yaml:"index_dir"`
	TopK         int    `yaml:"top_k"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	BatchSize    int    `yaml:"embedding_batch_size"`
	Workers      int    `yaml:"rebuild_workers"`

	VectorStore string       `yaml:"vector_store"`
	Qdrant      QdrantConfig `yaml:"qdrant"`

	RedisAddr string        `yaml:"redis_addr"`
	LockTTL   time.Duration `yaml:"lock_ttl"`

	AuthToken string `yaml:"-"`
	RateLimit bool   `yaml:"rate_limit"`

	Watch bool `yaml:"watch"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

type QdrantConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"-"`
	UseTLS bool   `yaml:"tls"`
}

func Defaults() *Settings {
	return &Settings{
		ListenAddr:     ServerListenAddr,
		RequestTimeout: RequestTimeout,
		Provider:       ProviderOpenAI,
		ChatModel:      OpenAIChatModel,
		EmbeddingModel: OpenAIEmbeddingModel,
		DocumentsDir:   DocumentsDir,
		IndexDir:       IndexDir,
		TopK:           TopK,
		ChunkSize:      MaxChunkSize,
		ChunkOverlap:   ChunkOverlap,
		BatchSize:      EmbeddingBatchSize,
		Workers:        RebuildWorkerCount,
		VectorStore:    VectorStoreLocal,
		Qdrant: QdrantConfig{
			Host:   QdrantHost,
			Port:   QdrantGrpcPort,
			UseTLS: QdrantUseTLS,
		},
		RedisAddr: RedisAddr,
		LockTTL:   LockTTL,
		LogLevel:  "debug",
		LogJSON:   IS_PROD,
	}
}

// Load resolves the settings. An empty configPath falls back to ./pdfqa.yaml when present.
func Load(configPath string) (*Settings, error) {
	s := Defaults()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}
	if err := s.loadYAML(configPath, explicit); err != nil {
		return nil, err
	}

	// .env never overrides variables already exported in the shell
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading %s: %w", DefaultEnvFile, err)
	}
	s.applyEnv()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) loadYAML(path string, mustExist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyEnv() {
	setString(&s.ListenAddr, "PDFQA_LISTEN_ADDR")
	setString(&s.Provider, "PDFQA_PROVIDER")
	setString(&s.ChatModel, "PDFQA_CHAT_MODEL")
	setString(&s.EmbeddingModel, "PDFQA_EMBEDDING_MODEL")
	setString(&s.DocumentsDir, "PDFQA_DOCUMENTS_DIR")
	setString(&s.IndexDir, "PDFQA_INDEX_DIR")
	setString(&s.VectorStore, "PDFQA_VECTOR_STORE")
	setString(&s.AuthToken, "PDFQA_AUTH_TOKEN")
	setString(&s.LogLevel, "LOG_LEVEL")
	setString(&s.Qdrant.Host, "QDRANT_HOST")
	setString(&s.Qdrant.APIKey, "QDRANT_API_KEY")
	setString(&s.RedisAddr, "REDIS_ADDR")
	setInt(&s.Qdrant.Port, "QDRANT_PORT")
	setInt(&s.TopK, "PDFQA_TOP_K")
	setInt(&s.Workers, "PDFQA_REBUILD_WORKERS")
	setBool(&s.RateLimit, "PDFQA_RATE_LIMIT")
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		s.LogJSON = strings.EqualFold(v, "json")
	}

	// a gemini setup that kept the openai model names gets the gemini defaults
	if s.Provider == ProviderGemini {
		if s.ChatModel == OpenAIChatModel {
			s.ChatModel = GeminiModelName
		}
		if s.EmbeddingModel == OpenAIEmbeddingModel {
			s.EmbeddingModel = GoogleEmbeddingModel
		}
	}
	s.APIKey = os.Getenv(s.APIKeyEnv())
}

// APIKeyEnv names the single variable holding the credential for both
// the embedding and completion calls of the selected provider.
func (s *Settings) APIKeyEnv() string {
	if s.Provider == ProviderGemini {
		return GeminiAPIKeyEnv
	}
	return OpenAIAPIKeyEnv
}

func (s *Settings) Validate() error {
	switch s.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return commonModels.ConfigError(fmt.Sprintf("unknown provider %q", s.Provider))
	}
	if s.APIKey == "" {
		return commonModels.ConfigError(fmt.Sprintf("Please set the %s environment variable.", s.APIKeyEnv()))
	}
	switch s.VectorStore {
	case VectorStoreLocal, VectorStoreQdrant:
	default:
		return commonModels.ConfigError(fmt.Sprintf("unknown vector store %q", s.VectorStore))
	}
	if s.TopK <= 0 {
		return commonModels.ConfigError("top_k must be positive")
	}
	if s.ChunkSize <= 0 || s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return commonModels.ConfigError("chunk_overlap must be smaller than a positive chunk_size")
	}
	if s.Workers <= 0 {
		s.Workers = 1
	}
	if s.BatchSize <= 0 {
		s.BatchSize = EmbeddingBatchSize
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		*dst = v
	}
}
