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

// Package vocab learns a frozen term vocabulary from a corpus and turns
// documents and queries into sparse vectors in that vocabulary's space.
//
// Each document is reduced to a pseudo-document: its normalized name repeated
// TitleWeight times followed by its normalized description. Fit collects the
// unigram and bigram terms of every pseudo-document into a sorted vocabulary
// whose Version is a hash of the corpus content.
//
// Document vectors hold term frequencies scaled so that they sum to 1.
// Query vectors hold raw term counts. Neither is IDF weighted or length
// normalized. Terms missing from the vocabulary are ignored, so the same
// vocabulary must be used on both sides.
package vocab
