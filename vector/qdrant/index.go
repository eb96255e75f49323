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

package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"

	"github.com/poiesic/menusync/vector"
)

// keywordFields are the payload fields that get keyword indexes. The
// loader filters on all three.
var keywordFields = []string{"sitetag", "site", "doc_id"}

const scrollPageSize = 256

// Index implements vector.Index against a Qdrant collection.
type Index struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
	closed     bool
}

// Option configures an Index.
type Option func(*options)

type options struct {
	port   int
	apiKey string
	useTLS bool
	logger *slog.Logger
}

// WithPort sets the Qdrant gRPC port. Default is 6334.
func WithPort(port int) Option {
	return func(o *options) {
		o.port = port
	}
}

// WithAPIKey sets the Qdrant API key. TLS is enabled automatically when a
// key is provided, as Qdrant Cloud requires.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
		if key != "" {
			o.useTLS = true
		}
	}
}

// WithTLS toggles TLS on the gRPC connection.
func WithTLS(useTLS bool) Option {
	return func(o *options) {
		o.useTLS = useTLS
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewIndex connects to a Qdrant server and returns an index over the given
// collection. The collection is not created here; call EnsureCollection.
func NewIndex(host, collection string, opts ...Option) (*Index, error) {
	if host == "" {
		return nil, vector.ErrHostRequired
	}
	if collection == "" {
		return nil, vector.ErrCollectionRequired
	}

	o := &options{
		port:   6334,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   o.port,
		APIKey: o.apiKey,
		UseTLS: o.useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Index{
		client:     client,
		collection: collection,
		logger:     o.logger.With("component", "qdrant-index", "collection", collection),
	}, nil
}

// EnsureCollection creates the collection with a cosine-distance vector
// space of the given dimension if it does not already exist.
func (i *Index) EnsureCollection(ctx context.Context, dimension int) error {
	if i.closed {
		return vector.ErrIndexClosed
	}

	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		return nil
	}

	err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: i.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	i.logger.Info("created collection", "dimension", dimension)
	return nil
}

// EnsureFieldIndexes creates keyword indexes on the filtered payload
// fields. Qdrant treats re-creation as a no-op, so this is safe per run.
func (i *Index) EnsureFieldIndexes(ctx context.Context) error {
	if i.closed {
		return vector.ErrIndexClosed
	}

	for _, field := range keywordFields {
		_, err := i.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: i.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("indexing payload field %s: %w", field, err)
		}
	}
	return nil
}

// Upsert writes a batch of points, waiting for the write to be applied.
func (i *Index) Upsert(ctx context.Context, points []vector.Point) error {
	if i.closed {
		return vector.ErrIndexClosed
	}
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, len(points))
	for n, p := range points {
		structs[n] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(p.ID)),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload.Map()),
		}
	}

	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points:         structs,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}

	i.logger.Debug("upserted points", "count", len(points))
	return nil
}

// DeleteByTag removes every point whose sitetag matches tag.
func (i *Index) DeleteByTag(ctx context.Context, tag string) error {
	if i.closed {
		return vector.ErrIndexClosed
	}

	_, err := i.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: i.collection,
		Points:         qdrant.NewPointsSelectorFilter(tagFilter(tag)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("deleting points for tag %s: %w", tag, err)
	}

	i.logger.Info("deleted points", "sitetag", tag)
	return nil
}

// CountByTagAndDoc returns the exact number of points matching both the
// sitetag and doc_id payload fields.
func (i *Index) CountByTagAndDoc(ctx context.Context, tag, docID string) (uint64, error) {
	if i.closed {
		return 0, vector.ErrIndexClosed
	}

	count, err := i.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: i.collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("sitetag", tag),
				qdrant.NewMatch("doc_id", docID),
			},
		},
		Exact: qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points for doc %s: %w", docID, err)
	}
	return count, nil
}

// PointsByTag scrolls the full set of payloads matching the sitetag.
func (i *Index) PointsByTag(ctx context.Context, tag string) ([]vector.Payload, error) {
	if i.closed {
		return nil, vector.ErrIndexClosed
	}

	var payloads []vector.Payload
	var offset *qdrant.PointId
	for {
		points, err := i.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: i.collection,
			Filter:         tagFilter(tag),
			Limit:          qdrant.PtrOf(uint32(scrollPageSize)),
			WithPayload:    qdrant.NewWithPayload(true),
			Offset:         offset,
		})
		if err != nil {
			return nil, fmt.Errorf("scrolling points for tag %s: %w", tag, err)
		}
		if len(points) == 0 {
			break
		}

		for _, p := range points {
			// The offset point repeats at the start of each page after
			// the first.
			if offset != nil && p.Id.GetNum() == offset.GetNum() {
				continue
			}
			payloads = append(payloads, payloadFromValues(p.Payload))
		}

		if len(points) < scrollPageSize {
			break
		}
		offset = points[len(points)-1].Id
	}
	return payloads, nil
}

// Close shuts down the gRPC connection.
func (i *Index) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	return i.client.Close()
}

func tagFilter(tag string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("sitetag", tag),
		},
	}
}

func payloadFromValues(values map[string]*qdrant.Value) vector.Payload {
	get := func(key string) string {
		if v, ok := values[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	return vector.Payload{
		SiteTag:    get("sitetag"),
		Site:       get("site"),
		Name:       get("name"),
		SchemaJSON: get("schema_json"),
		URL:        get("url"),
		Meal:       get("meal"),
		Date:       get("date"),
		Source:     get("source"),
		Kind:       get("kind"),
		DocID:      get("doc_id"),
	}
}
