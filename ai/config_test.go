package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderHashing, cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, DefaultDimensions, cfg.Dimensions)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, ProviderHashing, cfg.Provider)
		assert.Equal(t, DefaultDimensions, cfg.Dimensions)
	})

	t.Run("with openai options", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderOpenAI),
			WithEmbeddingHost("https://api.openai.com"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithAPIKeyEnv("SURFER_TEST_KEY"),
			WithRateLimit(5),
		)

		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "SURFER_TEST_KEY", cfg.APIKeyEnv)
		assert.Equal(t, 5.0, cfg.RequestsPerSecond)
	})

	t.Run("with dimensions", func(t *testing.T) {
		cfg := NewConfig(WithDimensions(64))
		assert.Equal(t, 64, cfg.Dimensions)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "adds suffix", host: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{name: "trims trailing slash", host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "keeps suffix", host: "https://api.openai.com/v1", want: "https://api.openai.com/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, ProviderHashing, cfg.Provider)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "provider case insensitive", cfg: NewConfig(WithProvider(" OpenAI "))},
		{name: "unknown provider", cfg: NewConfig(WithProvider("word2vec")), wantErr: true},
		{name: "hashing needs dimensions", cfg: NewConfig(WithDimensions(1)), wantErr: true},
		{name: "openai needs host", cfg: NewConfig(WithProvider(ProviderOpenAI), WithEmbeddingHost("")), wantErr: true},
		{name: "openai needs model", cfg: NewConfig(WithProvider(ProviderOpenAI), WithEmbeddingModel("")), wantErr: true},
		{name: "negative rate", cfg: NewConfig(WithRateLimit(-1)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_APIKey(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "none", cfg.APIKey())

	t.Setenv("SURFER_TEST_KEY", "sk-test")
	cfg = NewConfig(WithAPIKeyEnv("SURFER_TEST_KEY"))
	assert.Equal(t, "sk-test", cfg.APIKey())

	cfg = NewConfig(WithAPIKeyEnv("SURFER_TEST_KEY_UNSET"))
	assert.Equal(t, "none", cfg.APIKey())
}
