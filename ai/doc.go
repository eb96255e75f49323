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

// Package ai defines the embedding service abstraction used by the vector
// sync loader.
//
// The loader embeds canonical menu documents before indexing them;
// everything it needs from an AI backend is the Embedder interface. The
// openai subpackage implements it against any OpenAI-compatible embeddings
// API (OpenAI itself, Ollama, vLLM, LocalAI), and the mock subpackage
// provides a deterministic in-process implementation for tests.
//
// Configuration is shared through Config, which carries the API host,
// model identifier, expected vector dimension and an optional API key:
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingHost("https://api.openai.com/v1"),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	embedder, err := openai.NewEmbedder(cfg)
package ai
