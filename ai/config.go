// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Embedding providers.
const (
	// ProviderHashing is the local feature-hashing embedder. Needs no service.
	ProviderHashing = "hashing"
	// ProviderOpenAI is any OpenAI-compatible embeddings API (OpenAI, Ollama, vLLM).
	ProviderOpenAI = "openai"
)

// DefaultDimensions is the vector size of the hashing embedder.
const DefaultDimensions = 512

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the embedder implementation: ProviderHashing or ProviderOpenAI.
	Provider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// APIKeyEnv names the environment variable holding the API token.
	// Empty means the service needs no authentication.
	APIKeyEnv string

	// Dimensions is the vector size produced by the hashing embedder.
	Dimensions int

	// RequestsPerSecond throttles calls to a remote embedding service.
	// Zero disables throttling.
	RequestsPerSecond float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the embedder implementation.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIKeyEnv sets the environment variable the API token is read from.
func WithAPIKeyEnv(name string) ConfigOption {
	return func(c *Config) {
		c.APIKeyEnv = name
	}
}

// WithDimensions sets the hashing embedder vector size.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// WithRateLimit throttles remote embedding requests.
func WithRateLimit(requestsPerSecond float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = requestsPerSecond
	}
}

// DefaultConfig returns a Config using the local hashing embedder, with
// OpenAI-compatible settings pointing at a local Ollama for when the
// provider is switched.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderHashing,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		Dimensions:     DefaultDimensions,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOpenAI),
//	    WithEmbeddingHost("https://api.openai.com"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	    WithAPIKeyEnv("OPENAI_API_KEY"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderHashing
	}
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderHashing:
		if c.Dimensions < 2 {
			return errors.New("ai config: Dimensions must be at least 2")
		}
	case ProviderOpenAI:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
		if c.EmbeddingModel == "" {
			return errors.New("ai config: EmbeddingModel is required")
		}
	default:
		return fmt.Errorf("ai config: unknown provider %q", c.Provider)
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond must not be negative")
	}
	return nil
}

// APIKey returns the token read from APIKeyEnv, or "none" for services that
// don't require authentication.
func (c *Config) APIKey() string {
	if c.APIKeyEnv == "" {
		return "none"
	}
	if key := os.Getenv(c.APIKeyEnv); key != "" {
		return key
	}
	return "none"
}
