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

package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	surfer "github.com/CEREBRUS-MAXIMUS/Surfer-Data"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ai"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/config"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/core"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/ingestion"
	"github.com/CEREBRUS-MAXIMUS/Surfer-Data/search"
	"github.com/urfave/cli/v2"
)

// errReported marks a failure already written to the error stream.
var errReported = errors.New("error reported")

func newApp() *cli.App {
	return &cli.App{
		Name:  "surfer",
		Usage: "Vector storage and search for exported personal data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Settings file (default: <userDataPath>/" + config.FileName + " when present)",
			},
		},
		Before: setupLogger,
		// Exit codes are decided by main
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Load an exported run into the vector store",
				ArgsUsage: "<userDataPath> <pathToJsonFile> <base64Descriptor>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Continue an interrupted run from its checkpoint",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Find the documents closest to a query",
				ArgsUsage: "<userDataPath> <queryText> [platformName]",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results (default from settings)",
					},
				},
			},
			{
				Name:      "count",
				Usage:     "Print the number of stored documents",
				ArgsUsage: "<userDataPath>",
				Action:    countCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete the collection and its documents",
				ArgsUsage: "<userDataPath>",
				Action:    deleteCommand,
			},
			{
				Name:      "collections",
				Usage:     "List the collections of the store",
				ArgsUsage: "<userDataPath>",
				Action:    collectionsCommand,
			},
			{
				Name:      "reembed",
				Usage:     "Recompute every document vector with the configured embedder",
				ArgsUsage: "<userDataPath>",
				Action:    reembedCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Stdout carries progress and results only
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openDatabase opens the data root named by the first argument.
func openDatabase(c *cli.Context) (*surfer.Database, error) {
	root := c.Args().First()
	if root == "" {
		return nil, fmt.Errorf("user data path is required")
	}

	opts, err := databaseOptions(c)
	if err != nil {
		return nil, err
	}
	return surfer.Open(root, opts...)
}

// databaseOptions applies the --config flag. Without it the data root's
// own settings file is used.
func databaseOptions(c *cli.Context) ([]surfer.DatabaseOption, error) {
	opts := []surfer.DatabaseOption{surfer.WithLogger(slog.Default())}

	path := c.String("config")
	if path == "" {
		return opts, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("settings file: %w", err)
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return append(opts, surfer.WithSettings(settings)), nil
}

// descriptor identifies an exported run.
type descriptor struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PlatformID      string `json:"platformId"`
	VectorizeConfig struct {
		Documents string `json:"documents"`
	} `json:"vectorize_config"`
}

func decodeDescriptor(encoded string) (*descriptor, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding descriptor: %w", err)
	}
	var d descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	return &d, nil
}

// readContent reads the items of an export file. Numbers keep their
// literal text.
func readContent(path string) ([]core.RawItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var export struct {
		Content *[]core.RawItem `json:"content"`
	}
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if export.Content == nil {
		return nil, fmt.Errorf("%s: no content provided", path)
	}
	return *export.Content, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("usage: surfer ingest %s", c.Command.ArgsUsage)
	}

	run, err := decodeDescriptor(c.Args().Get(2))
	if err != nil {
		return err
	}
	content, err := readContent(c.Args().Get(1))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	if c.Bool("resume") {
		opts = append(opts, ingestion.WithResume(true))
	}
	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	req := &core.IngestionRequest{
		RunID:          run.ID,
		PlatformID:     run.PlatformID,
		PlatformName:   run.Name,
		DocumentsField: run.VectorizeConfig.Documents,
		Content:        content,
	}

	out := c.App.Writer
	_, err = pipeline.Ingest(c.Context, req, func(e core.ProgressEvent) {
		fmt.Fprintln(out, e.String())
	})
	if err != nil {
		return fmt.Errorf("ingesting run %s: %w", run.ID, err)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	results, err := runQuery(c)
	if err != nil {
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(c.App.ErrWriter, string(payload))
		return errReported
	}

	payload, err := json.Marshal(search.Columns(results))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(payload))
	return nil
}

func runQuery(c *cli.Context) ([]*core.SearchResult, error) {
	if c.NArg() < 2 || c.NArg() > 3 {
		return nil, fmt.Errorf("usage: surfer query %s", c.Command.ArgsUsage)
	}

	db, err := openDatabase(c)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}

	return searcher.Search(c.Context, search.Query{
		Text:     c.Args().Get(1),
		Platform: c.Args().Get(2),
		Limit:    c.Int("limit"),
	})
}

func countCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Count(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, n)
	return nil
}

func deleteCommand(c *cli.Context) error {
	root := c.Args().First()
	if root == "" {
		return fmt.Errorf("user data path is required")
	}
	opts, err := databaseOptions(c)
	if err != nil {
		return err
	}
	return surfer.Delete(c.Context, root, opts...)
}

func collectionsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	collections, err := db.ListCollections(c.Context)
	if err != nil {
		return err
	}
	for _, info := range collections {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", info.Name, info.ID)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	settings := db.Settings()
	fmt.Fprintf(c.App.ErrWriter, "Store: %s\n", c.Args().First())
	fmt.Fprintf(c.App.ErrWriter, "Embedding provider: %s\n", settings.Embedder.Provider)
	if settings.Embedder.Provider == ai.ProviderOpenAI {
		fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", settings.Embedder.Host)
		fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", settings.Embedder.Model)
	}
	fmt.Fprintln(c.App.ErrWriter)

	if _, err := db.NewReembedder(c.App.ErrWriter).Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}
