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

package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/menusync/ai"
	"github.com/poiesic/menusync/canonical"
	"github.com/poiesic/menusync/core"
	"github.com/poiesic/menusync/vector"
)

const (
	// defaultBatchSize bounds the number of points per upsert request.
	defaultBatchSize = 128

	// defaultSource tags points with the feed they came from.
	defaultSource = "nutrislice"

	pointKind = "menu"
)

// Loader embeds canonical menu documents and upserts them into the vector
// index. Points are staged internally and flushed in batches; call Flush
// after the last file to push the remainder.
type Loader struct {
	store     *canonical.Store
	embedder  ai.Embedder
	index     vector.Index
	batchSize int
	dimension int
	source    string
	logger    *slog.Logger

	staged     []vector.Point
	stagedDocs []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBatchSize overrides the upsert batch size. Default is 128.
func WithBatchSize(size int) LoaderOption {
	return func(l *Loader) {
		if size > 0 {
			l.batchSize = size
		}
	}
}

// WithDimension sets the embedding dimension the collection is created
// with. Default is ai.DefaultDimension.
func WithDimension(dim int) LoaderOption {
	return func(l *Loader) {
		if dim > 0 {
			l.dimension = dim
		}
	}
}

// WithSource overrides the provenance tag carried in point payloads.
func WithSource(source string) LoaderOption {
	return func(l *Loader) {
		if source != "" {
			l.source = source
		}
	}
}

// WithLoaderLogger sets a custom logger. Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader over the given document store, embedder and
// vector index.
func NewLoader(store *canonical.Store, embedder ai.Embedder, index vector.Index, opts ...LoaderOption) (*Loader, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	l := &Loader{
		store:     store,
		embedder:  embedder,
		index:     index,
		batchSize: defaultBatchSize,
		dimension: ai.DefaultDimension,
		source:    defaultSource,
		logger:    slog.Default().With("component", "loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Prepare ensures the collection and its payload field indexes exist.
// Idempotent; safe to call on every run.
func (l *Loader) Prepare(ctx context.Context) error {
	if err := l.index.EnsureCollection(ctx, l.dimension); err != nil {
		return fmt.Errorf("ensuring collection: %w", err)
	}
	if err := l.index.EnsureFieldIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring field indexes: %w", err)
	}
	return nil
}

// RetireDate deletes every point in the given date's partition.
func (l *Loader) RetireDate(ctx context.Context, date string) error {
	tag := core.SiteTag(date)
	if err := l.index.DeleteByTag(ctx, tag); err != nil {
		return fmt.Errorf("retiring partition %s: %w", tag, err)
	}
	return nil
}

// Files returns the canonical document paths for a date, sorted.
func (l *Loader) Files(date string) ([]string, error) {
	return l.store.List(date)
}

// LoadFile embeds one canonical document and stages its point. Returns
// false with a nil error when the file is skipped: already indexed for its
// date, or carrying no extractable text.
func (l *Loader) LoadFile(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading document: %w", err)
	}

	var menu canonical.Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		return false, fmt.Errorf("parsing document %s: %w", filepath.Base(path), err)
	}

	docID := strings.TrimSuffix(filepath.Base(path), ".jsonld")
	tag := core.SiteTag(menu.DatePublished)

	count, err := l.index.CountByTagAndDoc(ctx, tag, docID)
	if err != nil {
		return false, fmt.Errorf("checking existing point: %w", err)
	}
	if count > 0 {
		l.logger.Debug("document already indexed", "doc", docID, "sitetag", tag)
		return false, nil
	}

	text := ExtractText(data)
	if text == "" {
		l.logger.Warn("document has no extractable text", "doc", docID)
		return false, nil
	}

	vec, err := l.embedder.EmbedText(ctx, text)
	if err != nil {
		return false, fmt.Errorf("embedding document %s: %w", docID, err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return false, fmt.Errorf("compacting document %s: %w", docID, err)
	}

	l.staged = append(l.staged, vector.Point{
		ID:     core.IDFromContent(tag + "/" + docID),
		Vector: vec,
		Payload: vector.Payload{
			SiteTag:    tag,
			Site:       menu.Hall,
			Name:       menu.Name,
			SchemaJSON: compact.String(),
			URL:        menuURL(menu),
			Meal:       menu.Meal,
			Date:       menu.DatePublished,
			Source:     l.source,
			Kind:       pointKind,
			DocID:      docID,
		},
	})
	l.stagedDocs = append(l.stagedDocs, docID)

	if len(l.staged) >= l.batchSize {
		if err := l.Flush(ctx); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Flush upserts the staged points. On failure the batch is dropped and the
// returned FlushError names every document it carried.
func (l *Loader) Flush(ctx context.Context) error {
	if len(l.staged) == 0 {
		return nil
	}

	batch := l.staged
	docs := l.stagedDocs
	l.staged = nil
	l.stagedDocs = nil
	if err := l.index.Upsert(ctx, batch); err != nil {
		return &FlushError{Docs: docs, Err: err}
	}
	l.logger.Debug("flushed points", "count", len(batch))
	return nil
}

// LoadReport summarizes one day's load.
type LoadReport struct {
	Loaded  int
	Skipped int
	Failed  int
}

// LoadDay runs the full non-resumable load for one date: prepares the
// index, embeds every document matching the date and flushes the
// remainder. Per-file errors are logged and counted, not fatal.
func (l *Loader) LoadDay(ctx context.Context, date string) (*LoadReport, error) {
	if err := l.Prepare(ctx); err != nil {
		return nil, err
	}

	files, err := l.Files(date)
	if err != nil {
		return nil, fmt.Errorf("listing documents for %s: %w", date, err)
	}

	report := &LoadReport{}
	for _, path := range files {
		loaded, err := l.LoadFile(ctx, path)
		switch {
		case err != nil:
			l.logger.Error("error loading document", "path", path, "err", err)
			report.Failed++
			// A dropped batch takes files already counted as loaded with it.
			var flushErr *FlushError
			if errors.As(err, &flushErr) {
				report.Loaded -= len(flushErr.Docs) - 1
				report.Failed += len(flushErr.Docs) - 1
			}
		case loaded:
			report.Loaded++
		default:
			report.Skipped++
		}
	}

	if err := l.Flush(ctx); err != nil {
		var flushErr *FlushError
		if errors.As(err, &flushErr) {
			report.Loaded -= len(flushErr.Docs)
			report.Failed += len(flushErr.Docs)
		}
		return report, err
	}

	l.logger.Info("load complete", "date", date,
		"loaded", report.Loaded, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// menuURL synthesizes a stable document-level URL from the menu's key
// fields.
func menuURL(menu canonical.Menu) string {
	section := ""
	if len(menu.Sections) > 0 {
		section = canonical.Slugify(menu.Sections[0].Name)
	}
	return fmt.Sprintf("menu://%s/%s/%s/%s", menu.Hall, menu.Meal, menu.DatePublished, section)
}
