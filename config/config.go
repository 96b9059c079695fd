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

// Package config loads the settings file of a Surfer data root.
//
// Settings are YAML. A missing file yields the defaults; a present file is
// merged over them, so it only needs the keys it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/chunk"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ingestion"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/metadata"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/reembed"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/search"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in a data root.
const FileName = "surfer.yaml"

// Document backends.
const (
	BackendBadger  = "badger"
	BackendChromem = "chromem"
)

// DefaultCollection is the collection every run writes to.
const DefaultCollection = "surfer_collection"

// ErrInvalidSettings is returned when a settings value is out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// ChunkSettings configures document splitting.
type ChunkSettings struct {
	Size    int    `yaml:"size"`
	Overlap int    `yaml:"overlap"`
	IDMode  string `yaml:"id_mode"`
}

// MetadataSettings configures the metadata codec.
type MetadataSettings struct {
	TypedValues bool `yaml:"typed_values"`
}

// EmbedderSettings selects and configures the embedder.
type EmbedderSettings struct {
	Provider   string  `yaml:"provider"`
	Host       string  `yaml:"host"`
	Model      string  `yaml:"model"`
	APIKeyEnv  string  `yaml:"api_key_env"`
	Dimensions int     `yaml:"dimensions"`
	Rate       float64 `yaml:"rate"`
}

// QuerySettings configures the query service.
type QuerySettings struct {
	Limit int `yaml:"limit"`
}

// IngestSettings configures the ingestion pipeline.
type IngestSettings struct {
	PoolSize  int  `yaml:"pool_size"`
	BatchSize int  `yaml:"batch_size"`
	Resume    bool `yaml:"resume"`
}

// ReembedSettings configures re-embedding runs.
type ReembedSettings struct {
	BatchSize  int           `yaml:"batch_size"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// ChromemSettings configures the chromem document backend.
type ChromemSettings struct {
	Compress bool `yaml:"compress"`
}

// Settings is the root settings structure.
type Settings struct {
	Backend    string           `yaml:"backend"`
	Collection string           `yaml:"collection"`
	Chunk      ChunkSettings    `yaml:"chunk"`
	Metadata   MetadataSettings `yaml:"metadata"`
	Embedder   EmbedderSettings `yaml:"embedder"`
	Query      QuerySettings    `yaml:"query"`
	Ingest     IngestSettings   `yaml:"ingest"`
	Reembed    ReembedSettings  `yaml:"reembed"`
	Chromem    ChromemSettings  `yaml:"chromem"`
}

// Default returns the settings used when no file is present.
func Default() *Settings {
	aiDefaults := ai.DefaultConfig()
	reembedDefaults := reembed.DefaultConfig()
	return &Settings{
		Backend:    BackendBadger,
		Collection: DefaultCollection,
		Chunk: ChunkSettings{
			Size:    chunk.DefaultSize,
			Overlap: chunk.DefaultOverlap,
			IDMode:  string(ingestion.ChunkIDSuffix),
		},
		Embedder: EmbedderSettings{
			Provider:   aiDefaults.Provider,
			Host:       aiDefaults.EmbeddingHost,
			Model:      aiDefaults.EmbeddingModel,
			Dimensions: aiDefaults.Dimensions,
		},
		Query: QuerySettings{
			Limit: search.DefaultLimit,
		},
		Reembed: ReembedSettings{
			BatchSize:  reembedDefaults.BatchSize,
			MaxRetries: reembedDefaults.MaxRetries,
			RetryDelay: reembedDefaults.RetryDelay,
		},
	}
}

// Load reads settings from path. If the file does not exist, returns defaults.
func Load(path string) (*Settings, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return cfg, nil
}

// LoadRoot reads the settings file of a data root.
func LoadRoot(userDataPath string) (*Settings, error) {
	return Load(filepath.Join(userDataPath, FileName))
}

// Save writes the settings to path, creating directories as needed.
func Save(path string, cfg *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that values are in range.
func (s *Settings) Validate() error {
	switch s.Backend {
	case BackendBadger, BackendChromem:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidSettings, s.Backend)
	}
	if s.Collection == "" {
		return fmt.Errorf("%w: collection is required", ErrInvalidSettings)
	}
	if _, err := s.Chunker(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if _, err := ingestion.ParseChunkIDMode(s.Chunk.IDMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := s.AIConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.Query.Limit < 1 {
		return fmt.Errorf("%w: query.limit must be > 0", ErrInvalidSettings)
	}
	if s.Ingest.PoolSize < 0 {
		return fmt.Errorf("%w: ingest.pool_size must not be negative", ErrInvalidSettings)
	}
	if s.Ingest.BatchSize < 0 {
		return fmt.Errorf("%w: ingest.batch_size must not be negative", ErrInvalidSettings)
	}
	if s.Reembed.MaxRetries < 1 {
		return fmt.Errorf("%w: reembed.max_retries must be > 0", ErrInvalidSettings)
	}
	return nil
}

// Chunker builds the configured chunker.
func (s *Settings) Chunker() (*chunk.Chunker, error) {
	return chunk.New(s.Chunk.Size, s.Chunk.Overlap)
}

// Codec builds the configured metadata codec.
func (s *Settings) Codec() *metadata.Codec {
	return metadata.NewCodec(metadata.WithTypedValues(s.Metadata.TypedValues))
}

// AIConfig converts the embedder settings.
func (s *Settings) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithProvider(s.Embedder.Provider),
		ai.WithEmbeddingHost(s.Embedder.Host),
		ai.WithEmbeddingModel(s.Embedder.Model),
		ai.WithAPIKeyEnv(s.Embedder.APIKeyEnv),
		ai.WithDimensions(s.Embedder.Dimensions),
		ai.WithRateLimit(s.Embedder.Rate),
	)
}

// IngestOptions converts the chunk, metadata and ingest settings to
// pipeline options.
func (s *Settings) IngestOptions() ([]ingestion.Option, error) {
	chunker, err := s.Chunker()
	if err != nil {
		return nil, err
	}
	mode, err := ingestion.ParseChunkIDMode(s.Chunk.IDMode)
	if err != nil {
		return nil, err
	}

	opts := []ingestion.Option{
		ingestion.WithChunker(chunker),
		ingestion.WithCodec(s.Codec()),
		ingestion.WithChunkIDMode(mode),
		ingestion.WithResume(s.Ingest.Resume),
	}
	if s.Ingest.PoolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(s.Ingest.PoolSize))
	}
	if s.Ingest.BatchSize > 0 {
		opts = append(opts, ingestion.WithEmbedBatchSize(s.Ingest.BatchSize))
	}
	return opts, nil
}

// ReembedConfig converts the reembed settings.
func (s *Settings) ReembedConfig() *reembed.Config {
	cfg := reembed.DefaultConfig()
	if s.Reembed.BatchSize > 0 {
		cfg.BatchSize = s.Reembed.BatchSize
		cfg.ReportInterval = s.Reembed.BatchSize
	}
	cfg.MaxRetries = s.Reembed.MaxRetries
	if s.Reembed.RetryDelay > 0 {
		cfg.RetryDelay = s.Reembed.RetryDelay
	}
	return cfg
}
