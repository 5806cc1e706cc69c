package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingAPIKeyIsConfigError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(OpenAIAPIKeyEnv, "")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, commonModels.ErrConfig))
	assert.Contains(t, err.Error(), OpenAIAPIKeyEnv)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(OpenAIAPIKeyEnv, "sk-test")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost:3050", s.ListenAddr)
	assert.Equal(t, "sk-test", s.APIKey)
	assert.Equal(t, OpenAIChatModel, s.ChatModel)
	assert.Equal(t, 3, s.TopK)
	assert.Equal(t, VectorStoreLocal, s.VectorStore)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// register the key so t.Setenv restores it after godotenv sets it
	t.Setenv(OpenAIAPIKeyEnv, "")
	require.NoError(t, os.Unsetenv(OpenAIAPIKeyEnv))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0o600))

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", s.APIKey)
}

func TestLoad_YAMLThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(OpenAIAPIKeyEnv, "sk-test")
	t.Setenv("PDFQA_TOP_K", "5")

	yml := `
listen_addr: "0.0.0.0:9000"
top_k: 4
chunk_size: 500
request_timeout: 30s
vector_store: qdrant
qdrant:
  host: qdrant.internal
  port: 7334
`
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", s.ListenAddr)
	assert.Equal(t, 5, s.TopK, "env must win over yaml")
	assert.Equal(t, 500, s.ChunkSize)
	assert.Equal(t, 30*time.Second, s.RequestTimeout)
	assert.Equal(t, VectorStoreQdrant, s.VectorStore)
	assert.Equal(t, "qdrant.internal", s.Qdrant.Host)
	assert.Equal(t, 7334, s.Qdrant.Port)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(OpenAIAPIKeyEnv, "sk-test")

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoad_GeminiUsesItsOwnKeyAndModels(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PDFQA_PROVIDER", ProviderGemini)
	t.Setenv(GeminiAPIKeyEnv, "g-key")
	t.Setenv(OpenAIAPIKeyEnv, "")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "g-key", s.APIKey)
	assert.Equal(t, GeminiModelName, s.ChatModel)
	assert.Equal(t, GoogleEmbeddingModel, s.EmbeddingModel)
}

func TestValidate(t *testing.T) {
	s := Defaults()
	s.APIKey = "k"
	s.ChunkOverlap = s.ChunkSize
	assert.Error(t, s.Validate())

	s = Defaults()
	s.APIKey = "k"
	s.VectorStore = "faiss"
	assert.Error(t, s.Validate())

	s = Defaults()
	s.APIKey = "k"
	s.Workers = 0
	require.NoError(t, s.Validate())
	assert.Equal(t, 1, s.Workers)
}
