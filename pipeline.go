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

// Package menusync syncs vendor menu feeds into a vector index.
//
// The pipeline has two cadences. Weekly: fetch every (hall, meal) feed for
// the current week, canonicalize the payloads into per-day JSON-LD
// documents, and sweep documents from the completed prior week. Daily:
// embed today's documents into the vector index, retire yesterday's
// partition, and record resumable progress so an interrupted load picks up
// where it left off.
//
// Pipeline wires the stages together from one configuration; the cmd
// subpackage exposes them as CLI entry points for schedulers.
package menusync

import (
	"log/slog"
	"time"

	"github.com/poiesic/menusync/ai"
	"github.com/poiesic/menusync/ai/openai"
	"github.com/poiesic/menusync/canonical"
	"github.com/poiesic/menusync/feed"
	"github.com/poiesic/menusync/loader"
	"github.com/poiesic/menusync/runner"
	"github.com/poiesic/menusync/storage"
	"github.com/poiesic/menusync/storage/badger"
	"github.com/poiesic/menusync/vector"
	"github.com/poiesic/menusync/vector/qdrant"
)

// Config collects the connection and layout settings for a full pipeline.
type Config struct {
	// FeedBaseURL is the vendor feed's base URL.
	FeedBaseURL string

	// Halls are the entity slugs fetched each week.
	Halls []string

	// Meals are the meal types fetched per hall.
	Meals []string

	// RawRoot is the directory raw weekly payloads are stored under.
	RawRoot string

	// DocRoot is the directory canonical documents are stored under.
	DocRoot string

	// StatePath is the BadgerDB directory for resumable run state.
	StatePath string

	// VectorHost is the vector service host.
	VectorHost string

	// VectorPort is the vector service gRPC port. Zero means the default.
	VectorPort int

	// VectorAPIKey authenticates against a managed vector service.
	VectorAPIKey string

	// Collection is the vector collection name.
	Collection string

	// AI configures the embedding service.
	AI *ai.Config

	// Timezone resolves "today" and "yesterday". Empty means UTC.
	Timezone string
}

// Pipeline aggregates the sync stages over shared configuration.
type Pipeline struct {
	config   *Config
	fetcher  *feed.Fetcher
	trans    *canonical.Transformer
	sweeper  *canonical.Sweeper
	store    *canonical.Store
	loader   *loader.Loader
	index    vector.Index
	states   storage.StateRepository
	location *time.Location
	logger   *slog.Logger
}

// NewPipeline wires every stage from the configuration. The vector index
// and state store connections are opened here; callers must Close the
// pipeline. Stages that are not needed for a given job are still
// constructed; construction is cheap and validation is uniform.
func NewPipeline(config *Config) (*Pipeline, error) {
	if config.AI == nil {
		config.AI = ai.DefaultConfig()
	}
	if err := config.AI.Validate(); err != nil {
		return nil, err
	}

	location := time.UTC
	if config.Timezone != "" {
		var err error
		location, err = time.LoadLocation(config.Timezone)
		if err != nil {
			return nil, err
		}
	}

	client, err := feed.NewClient(config.FeedBaseURL)
	if err != nil {
		return nil, err
	}

	rawStore, err := feed.NewRawStore(config.RawRoot)
	if err != nil {
		return nil, err
	}

	fetcher, err := feed.NewFetcher(client, rawStore, config.Halls, config.Meals)
	if err != nil {
		return nil, err
	}

	docStore, err := canonical.NewStore(config.DocRoot)
	if err != nil {
		return nil, err
	}

	trans, err := canonical.NewTransformer(rawStore, docStore)
	if err != nil {
		return nil, err
	}

	sweeper, err := canonical.NewSweeper(docStore)
	if err != nil {
		return nil, err
	}

	var qopts []qdrant.Option
	if config.VectorPort != 0 {
		qopts = append(qopts, qdrant.WithPort(config.VectorPort))
	}
	if config.VectorAPIKey != "" {
		qopts = append(qopts, qdrant.WithAPIKey(config.VectorAPIKey))
	}
	index, err := qdrant.NewIndex(config.VectorHost, config.Collection, qopts...)
	if err != nil {
		return nil, err
	}

	embedder, err := openai.NewEmbedder(config.AI)
	if err != nil {
		index.Close()
		return nil, err
	}

	ldr, err := loader.NewLoader(docStore, embedder, index,
		loader.WithDimension(config.AI.Dimension))
	if err != nil {
		index.Close()
		return nil, err
	}

	backend, err := badger.OpenBackend(config.StatePath, false)
	if err != nil {
		index.Close()
		return nil, err
	}
	states, err := badger.NewStateRepository(backend)
	if err != nil {
		backend.Close()
		index.Close()
		return nil, err
	}

	return &Pipeline{
		config:   config,
		fetcher:  fetcher,
		trans:    trans,
		sweeper:  sweeper,
		store:    docStore,
		loader:   ldr,
		index:    index,
		states:   states,
		location: location,
		logger:   slog.Default().With("component", "pipeline"),
	}, nil
}

// Close releases the pipeline's connections.
func (p *Pipeline) Close() error {
	if err := p.index.Close(); err != nil {
		p.logger.Error("error closing vector index", "err", err)
	}
	if err := p.states.Close(); err != nil {
		p.logger.Error("error closing state store", "err", err)
		return err
	}
	return nil
}

// Fetcher returns the weekly feed fetcher.
func (p *Pipeline) Fetcher() *feed.Fetcher {
	return p.fetcher
}

// Transformer returns the canonicalizer.
func (p *Pipeline) Transformer() *canonical.Transformer {
	return p.trans
}

// Sweeper returns the retention sweeper.
func (p *Pipeline) Sweeper() *canonical.Sweeper {
	return p.sweeper
}

// Loader returns the vector sync loader.
func (p *Pipeline) Loader() *loader.Loader {
	return p.loader
}

// Index returns the vector index.
func (p *Pipeline) Index() vector.Index {
	return p.index
}

// NewRunner creates a resumable run orchestrator over this pipeline's
// loader and state store.
func (p *Pipeline) NewRunner(opts ...runner.RunnerOption) (*runner.Runner, error) {
	return runner.NewRunner(p.loader, p.states, opts...)
}

// Now returns the current time in the configured timezone.
func (p *Pipeline) Now() time.Time {
	return time.Now().In(p.location)
}
