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

// Package storage provides the persistence abstraction for sync run state.
//
// The run orchestrator records which documents each daily sync has loaded
// so an interrupted run can resume without re-embedding finished files.
// This package defines the StateRepository interface that decouples the
// orchestrator from the storage backend, plus the binary serialization for
// the persisted state.
//
// Public constructors in backend packages return the interface, not the
// concrete type, so consumers can swap in mocks or alternative backends
// without modification:
//
//	repo, err := badger.NewStateRepository(backend)  // storage.StateRepository
//
// The badger subpackage implements the interface on BadgerDB, the same
// embedded store used for local development and single-host deployments.
package storage
