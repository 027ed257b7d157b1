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

// Package search ranks catalog documents against free-text queries.
//
// Each candidate's score is the sum of two signals:
//   - Overlap: the unnormalized dot product of the query's raw term counts
//     and the document's term-frequency vector
//   - Boost: a flat 1 when the query matches the document name, either as
//     its acronym or with every query token appearing inside the name
//
// Overlap is deliberately not divided by vector norms. Candidates are sorted
// by score with ties kept in candidate order, and Search returns at most
// MaxHits of them. Rank returns the full ordering for evaluation.
package search
