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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/menusync"
	"github.com/poiesic/menusync/ai"
	"github.com/poiesic/menusync/core"
	"github.com/poiesic/menusync/runner"
)

func main() {
	app := &cli.App{
		Name:   "menusync",
		Usage:  "Sync vendor menu feeds into a vector index",
		Flags:  globalFlags(),
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch this week's feeds for every hall and meal",
				Action: fetchCommand,
				Flags:  configFlags(),
			},
			{
				Name:   "transform",
				Usage:  "Canonicalize this week's raw feeds into JSON-LD documents",
				Action: transformCommand,
				Flags:  configFlags(),
			},
			{
				Name:   "sweep",
				Usage:  "Delete canonical documents from the completed prior week",
				Action: sweepCommand,
				Flags:  configFlags(),
			},
			{
				Name:   "load",
				Usage:  "Embed today's documents into the vector index, resumably",
				Action: loadCommand,
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:  "date",
						Usage: "Target date (YYYY-MM-DD); defaults to today",
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Resume a prior interrupted run for the same date",
						Value: true,
					},
				),
			},
			{
				Name:   "daily",
				Usage:  "Run the daily job: fetch, transform, then load today",
				Action: dailyCommand,
				Flags:  configFlags(),
			},
			{
				Name:   "weekly",
				Usage:  "Run the weekly job: fetch, transform, then sweep",
				Action: weeklyCommand,
				Flags:  configFlags(),
			},
			{
				Name:   "verify",
				Usage:  "List the documents indexed for a date's partition",
				Action: verifyCommand,
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:  "date",
						Usage: "Target date (YYYY-MM-DD); defaults to today",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error)",
			Value:   "info",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Load environment variables from this file if it exists",
			Value: ".env",
		},
	}
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "feed-base-url",
			Usage:   "Vendor feed base URL",
			EnvVars: []string{"MENUSYNC_FEED_URL"},
		},
		&cli.StringSliceFlag{
			Name:    "hall",
			Usage:   "Hall slug to fetch (repeatable)",
			EnvVars: []string{"MENUSYNC_HALLS"},
		},
		&cli.StringSliceFlag{
			Name:    "meal",
			Usage:   "Meal type to fetch (repeatable)",
			EnvVars: []string{"MENUSYNC_MEALS"},
			Value:   cli.NewStringSlice("lunch", "dinner"),
		},
		&cli.StringFlag{
			Name:    "raw-root",
			Usage:   "Directory for raw weekly payloads",
			EnvVars: []string{"MENUSYNC_RAW_ROOT"},
			Value:   "data/raw",
		},
		&cli.StringFlag{
			Name:    "doc-root",
			Usage:   "Directory for canonical documents",
			EnvVars: []string{"MENUSYNC_DOC_ROOT"},
			Value:   "data/canonical",
		},
		&cli.StringFlag{
			Name:    "state-path",
			Usage:   "BadgerDB directory for resumable run state",
			EnvVars: []string{"MENUSYNC_STATE_PATH"},
			Value:   "data/state",
		},
		&cli.StringFlag{
			Name:    "qdrant-host",
			Usage:   "Vector service host",
			EnvVars: []string{"QDRANT_HOST"},
			Value:   "localhost",
		},
		&cli.IntFlag{
			Name:    "qdrant-port",
			Usage:   "Vector service gRPC port",
			EnvVars: []string{"QDRANT_PORT"},
			Value:   6334,
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Vector service API key",
			EnvVars: []string{"QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "collection",
			Usage:   "Vector collection name",
			EnvVars: []string{"MENUSYNC_COLLECTION"},
			Value:   "menus",
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			EnvVars: []string{"MENUSYNC_EMBEDDING_HOST"},
			Value:   "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"MENUSYNC_EMBEDDING_MODEL"},
			Value:   "text-embedding-3-small",
		},
		&cli.IntFlag{
			Name:    "embedding-dimension",
			Usage:   "Embedding vector dimension",
			EnvVars: []string{"MENUSYNC_EMBEDDING_DIMENSION"},
			Value:   ai.DefaultDimension,
		},
		&cli.StringFlag{
			Name:    "openai-api-key",
			Usage:   "Embedding service API key",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "timezone",
			Usage:   "Timezone for today/yesterday computation",
			EnvVars: []string{"MENUSYNC_TIMEZONE"},
			Value:   "America/Chicago",
		},
	}
}

func buildConfig(c *cli.Context) *menusync.Config {
	return &menusync.Config{
		FeedBaseURL:  c.String("feed-base-url"),
		Halls:        c.StringSlice("hall"),
		Meals:        c.StringSlice("meal"),
		RawRoot:      c.String("raw-root"),
		DocRoot:      c.String("doc-root"),
		StatePath:    c.String("state-path"),
		VectorHost:   c.String("qdrant-host"),
		VectorPort:   c.Int("qdrant-port"),
		VectorAPIKey: c.String("qdrant-api-key"),
		Collection:   c.String("collection"),
		AI: ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithDimension(c.Int("embedding-dimension")),
			ai.WithAPIKey(c.String("openai-api-key")),
		),
		Timezone: c.String("timezone"),
	}
}

func openPipeline(c *cli.Context) (*menusync.Pipeline, error) {
	pipeline, err := menusync.NewPipeline(buildConfig(c))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return pipeline, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM so resumable
// state is persisted before exit.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fetchCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, stop := signalContext()
	defer stop()

	week := core.WeekStart(pipeline.Now())
	report, err := pipeline.Fetcher().FetchWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Week %s: %d saved, %d closed, %d failed\n",
		core.DateString(week), report.Saved, report.Closed, report.Failed)
	return nil
}

func transformCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	week := core.WeekStart(pipeline.Now())
	written, err := pipeline.Transformer().TransformWeek(week)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Week %s: %d documents written\n", core.DateString(week), written)
	return nil
}

func sweepCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	deleted, err := pipeline.Sweeper().SweepPreviousWeek(pipeline.Now())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Swept %d documents from the prior week\n", deleted)
	return nil
}

func loadCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, stop := signalContext()
	defer stop()

	now := pipeline.Now()
	today := c.String("date")
	yesterday := ""
	if today == "" {
		today = core.DateString(now)
		yesterday = core.DateString(now.AddDate(0, 0, -1))
	}

	return runLoad(ctx, pipeline, today, yesterday, c.Bool("resume"))
}

func dailyCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, stop := signalContext()
	defer stop()

	now := pipeline.Now()
	week := core.WeekStart(now)

	report, err := pipeline.Fetcher().FetchWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Fetch: %d saved, %d closed, %d failed\n",
		report.Saved, report.Closed, report.Failed)

	written, err := pipeline.Transformer().TransformWeek(week)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Transform: %d documents written\n", written)

	today := core.DateString(now)
	yesterday := core.DateString(now.AddDate(0, 0, -1))
	return runLoad(ctx, pipeline, today, yesterday, true)
}

func weeklyCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, stop := signalContext()
	defer stop()

	week := core.WeekStart(pipeline.Now())

	report, err := pipeline.Fetcher().FetchWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Fetch: %d saved, %d closed, %d failed\n",
		report.Saved, report.Closed, report.Failed)

	written, err := pipeline.Transformer().TransformWeek(week)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Transform: %d documents written\n", written)

	deleted, err := pipeline.Sweeper().SweepPreviousWeek(pipeline.Now())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Sweep: %d documents deleted\n", deleted)
	return nil
}

func verifyCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	ctx, stop := signalContext()
	defer stop()

	date := c.String("date")
	if date == "" {
		date = core.DateString(pipeline.Now())
	}
	tag := core.SiteTag(date)

	payloads, err := pipeline.Index().PointsByTag(ctx, tag)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Partition %s: %d points\n", tag, len(payloads))
	for _, p := range payloads {
		fmt.Printf("%s\t%s\t%s\n", p.DocID, p.Site, p.Meal)
	}
	return nil
}

func runLoad(ctx context.Context, pipeline *menusync.Pipeline, today, yesterday string, resume bool) error {
	run, err := pipeline.NewRunner(
		runner.WithResume(resume),
		runner.WithProgress(os.Stderr),
	)
	if err != nil {
		return err
	}

	state, err := run.Run(ctx, today, yesterday)
	if err != nil {
		return fmt.Errorf("load interrupted: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Load %s: status=%s loaded=%d failed=%d total=%d\n",
		today, state.Status(), len(state.Loaded), len(state.Failed), state.Total)
	return nil
}

func setup(c *cli.Context) error {
	// Missing env file is fine; flags and real environment still apply.
	if err := godotenv.Load(c.String("env-file")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading env file: %w", err)
	}
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
