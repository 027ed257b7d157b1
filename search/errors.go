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

package search

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrVocabularyRequired is returned when a vocabulary is not provided.
	ErrVocabularyRequired = errors.New("vocabulary required")

	// ErrVocabularyMismatch is returned when a document vector was built
	// against a different vocabulary than the one used for the query.
	ErrVocabularyMismatch = errors.New("document vector built with a different vocabulary")

	// ErrInvalidMaxHits is returned when the result limit is below 1.
	ErrInvalidMaxHits = errors.New("max hits must be at least 1")
)
