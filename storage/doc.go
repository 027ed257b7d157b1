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

// Package storage provides the storage abstraction layer for coursesearch.
//
// This package defines repository interfaces that decouple the catalog store
// from indexing and ranking. Two backends implement them: BadgerDB
// (storage/badger) and SQLite (storage/sqlite).
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the repository interfaces:
//
//	docs, vocab, backend, err := badger.NewRepositories(path)
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Architecture
//
//   - DocumentRepository: catalog documents and their term vectors
//   - VocabularyRepository: the single frozen vocabulary of the current index
//
// Documents are listed in insertion order. Ranking relies on this order to
// break ties, so every backend must preserve it.
//
// # Usage
//
//	docs, vocab, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
