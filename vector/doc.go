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

// Package vector defines the vector index abstraction the sync loader
// writes menu embeddings into.
//
// The Index interface covers collection lifecycle, batched upserts,
// tag-scoped deletion and the count/scroll queries the loader and verify
// command need. The qdrant subpackage implements it against a Qdrant
// server over gRPC; the mock subpackage provides an in-memory index for
// tests.
//
// Every point carries a structured Payload whose sitetag field partitions
// the collection by serving date, so a day can be retired with a single
// filtered delete.
package vector
