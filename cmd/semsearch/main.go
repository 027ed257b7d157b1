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
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/coursesearch"
	"github.com/poiesic/coursesearch/config"
	"github.com/poiesic/coursesearch/eval"
	"github.com/poiesic/coursesearch/index"
	"github.com/poiesic/coursesearch/metrics"
	"github.com/poiesic/coursesearch/search"
	"github.com/poiesic/coursesearch/server"
	"github.com/poiesic/coursesearch/vocab"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "semsearch",
		Usage: "Vector-space search over a course catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"COURSESEARCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the catalog store (overrides storage.path)",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Storage driver, badger or sqlite (overrides storage.driver)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import a YAML or JSON corpus, upserting by code",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Corpus file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "skip-invalid",
						Usage: "Skip documents missing a code or name instead of failing",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Rebuild the vocabulary and every document vector",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "title-weight",
						Usage: "Times a document name is repeated before counting terms",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of vectorization workers",
					},
					&cli.BoolFlag{
						Name:  "skip-invalid",
						Usage: "Leave invalid documents unindexed instead of failing",
					},
					&cli.StringFlag{
						Name:  "vocabulary-file",
						Usage: "Also write the vocabulary to this file",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Rank the catalog against a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max-hits",
						Aliases: []string{"n"},
						Usage:   "Number of results to show",
					},
					&cli.StringFlag{
						Name:  "vocabulary-file",
						Usage: "Read the vocabulary from this file instead of the store",
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Show the query's in-vocabulary terms and score parts",
					},
				},
			},
			{
				Name:   "evaluate",
				Usage:  "Score rankings against a relevance test set",
				Action: evaluateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "test-set",
						Aliases: []string{"t"},
						Usage:   "Test set file, one \"query -> code, code\" per line",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of queries ranked at once",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve search over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides http.addr)",
					},
				},
			},
			{
				Name:  "vocab",
				Usage: "Inspect or move the vocabulary",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print vocabulary details, or the terms of one document",
						Action: vocabShowCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "code",
								Usage: "Print the terms of this document's vector",
							},
						},
					},
					{
						Name:   "export",
						Usage:  "Write the stored vocabulary to a file",
						Action: vocabExportCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "out",
								Aliases:  []string{"o"},
								Usage:    "Destination file",
								Required: true,
							},
						},
					},
					{
						Name:   "import",
						Usage:  "Replace the stored vocabulary with a file",
						Action: vocabImportCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "in",
								Aliases:  []string{"i"},
								Usage:    "Source file",
								Required: true,
							},
						},
					},
				},
			},
		},
	}
}

// setup loads the configuration, applies global flag overrides and
// configures logging.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("driver") {
		cfg.Storage.Driver = c.String("driver")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = strings.ToLower(c.String("log-level"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func loadedConfig(c *cli.Context) config.Config {
	if cfg, ok := c.App.Metadata[configKey].(config.Config); ok {
		return cfg
	}
	return config.Default()
}

func openDatabase(c *cli.Context) (*coursesearch.Database, config.Config, error) {
	cfg := loadedConfig(c)
	db, err := coursesearch.OpenConfigured(cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func importCommand(c *cli.Context) error {
	ctx := c.Context

	docs, err := coursesearch.LoadCorpus(c.String("file"))
	if err != nil {
		return err
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.Import(ctx, docs, c.Bool("skip-invalid"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Added: %d  Updated: %d  Unchanged: %d  Skipped: %d\n",
		result.Added, result.Updated, result.Unchanged, result.Skipped)
	if result.Added+result.Updated > 0 {
		fmt.Fprintln(c.App.Writer, "Run 'semsearch index' to rebuild vectors.")
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := c.Context

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ic := cfg.IndexerConfig()
	if c.IsSet("title-weight") {
		ic.TitleWeight = c.Int("title-weight")
	}
	if c.IsSet("batch-size") {
		ic.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("pool-size") {
		ic.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("skip-invalid") {
		ic.SkipInvalid = c.Bool("skip-invalid")
	}
	if c.IsSet("vocabulary-file") {
		ic.ArtifactPath = c.String("vocabulary-file")
	}

	// Validate config
	if ic.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if ic.TitleWeight <= 0 {
		return fmt.Errorf("title-weight must be greater than 0")
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s (%s)\n", cfg.Storage.Path, cfg.Storage.Driver)
	fmt.Fprintf(c.App.ErrWriter, "Title weight: %d\n", ic.TitleWeight)
	fmt.Fprintln(c.App.ErrWriter)

	result, err := db.Index(ctx, index.WithConfig(ic), index.WithProgress(c.App.ErrWriter))
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Indexed %d documents (%d skipped), %d terms, version %016x in %v\n",
		result.Documents, result.Skipped, result.Terms, result.Version, result.Elapsed.Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := c.Context
	query := strings.Join(c.Args().Slice(), " ")

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	maxHits := cfg.Search.MaxHits
	if c.IsSet("max-hits") {
		maxHits = c.Int("max-hits")
	}
	opts := []search.Option{search.WithMaxHits(maxHits)}

	var searcher *search.Searcher
	if path := c.String("vocabulary-file"); path != "" {
		searcher, err = db.NewSearcherFromFile(path, opts...)
	} else {
		searcher, err = db.NewSearcher(ctx, opts...)
	}
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := searcher.Search(ctx, query)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := c.App.Writer
	if c.Bool("explain") {
		terms := searcher.Vectorizer().Terms(searcher.QueryVector(query))
		fmt.Fprintf(out, "Query terms: %s\n\n", strings.Join(terms, ", "))
	}
	for i, r := range results {
		if c.Bool("explain") {
			fmt.Fprintf(out, "%3d. %-10s %-40s %.4f (overlap %.4f, boost %.0f)\n",
				i+1, r.Document.Code, r.Document.Name, r.Score, r.Overlap, r.Boost)
			continue
		}
		fmt.Fprintf(out, "%3d. %-10s %-40s %.4f\n", i+1, r.Document.Code, r.Document.Name, r.Score)
	}
	fmt.Fprintf(out, "\nSearched in %.4f seconds\n", elapsed.Seconds())
	return nil
}

func evaluateCommand(c *cli.Context) error {
	ctx := c.Context

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	path := cfg.Eval.TestSet
	if c.IsSet("test-set") {
		path = c.String("test-set")
	}
	if path == "" {
		return fmt.Errorf("test-set is required")
	}
	concurrency := cfg.Eval.Concurrency
	if c.IsSet("concurrency") {
		concurrency = c.Int("concurrency")
	}

	judgments, err := eval.LoadTestSet(path)
	if err != nil {
		// Malformed lines are reported; the rest still run
		var lineErr *eval.LineError
		if !errors.As(err, &lineErr) {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "Test set errors:\n%v\n\n", err)
	}

	report, err := db.Evaluate(ctx, judgments, eval.WithConcurrency(concurrency))
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	return report.WriteTable(c.App.Writer)
}

func serveCommand(c *cli.Context) error {
	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	addr := cfg.HTTP.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	searcher, err := db.NewSearcher(c.Context,
		search.WithMaxHits(cfg.Search.MaxHits),
		search.WithMonitor(metrics.NewSearchMonitor()))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(searcher, db.DocumentRepository()).Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "err", err)
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

func vocabShowCommand(c *cli.Context) error {
	ctx := c.Context

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	vocabulary, err := db.Vocabulary(ctx)
	if err != nil {
		return err
	}

	out := c.App.Writer
	code := c.String("code")
	if code == "" {
		fmt.Fprintf(out, "Version: %016x\n", vocabulary.Version)
		fmt.Fprintf(out, "Title weight: %d\n", vocabulary.TitleWeight)
		fmt.Fprintf(out, "Terms: %d\n", vocabulary.Size())
		fmt.Fprintf(out, "Built: %s\n", vocabulary.BuiltAt.Format(time.RFC3339))
		return nil
	}

	doc, err := db.DocumentRepository().GetDocumentByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("document %q: %w", code, err)
	}
	vectorizer, err := vocab.NewVectorizer(vocabulary)
	if err != nil {
		return err
	}
	if !doc.Vector.IsEmpty() && doc.Vector.Version != vocabulary.Version {
		return fmt.Errorf("%w: document %q", search.ErrVocabularyMismatch, code)
	}
	terms := vectorizer.Terms(doc.Vector)
	for i, term := range terms {
		fmt.Fprintf(out, "%-30s %.4f\n", term, doc.Vector.Weights[i])
	}
	return nil
}

func vocabExportCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	vocabulary, err := db.Vocabulary(c.Context)
	if err != nil {
		return err
	}
	if err := vocab.WriteFile(c.String("out"), vocabulary); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d terms (version %016x) to %s\n", vocabulary.Size(), vocabulary.Version, c.String("out"))
	return nil
}

func vocabImportCommand(c *cli.Context) error {
	vocabulary, err := vocab.ReadFile(c.String("in"))
	if err != nil {
		return err
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.VocabularyRepository().SaveVocabulary(c.Context, vocabulary); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Loaded %d terms (version %016x)\n", vocabulary.Size(), vocabulary.Version)
	return nil
}
