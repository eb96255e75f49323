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

// Package loader syncs canonical menu documents into the vector index.
//
// For a target date the loader ensures the collection and its payload
// indexes exist, retires the previous date's partition, and embeds each of
// the date's documents into one vector point. Points are staged and
// upserted in fixed-size batches. Document identity is deterministic, so
// re-running a load for the same date skips files that are already indexed
// instead of duplicating them.
//
// The loader itself does not retry; the runner package drives per-file
// load operations with retry, timeout and persisted progress.
package loader
