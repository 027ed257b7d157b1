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


// Package text provides the text normalization shared by indexing and querying.
//
// Normalization happens in two stages:
//   - Normalize lowercases and stems every whitespace-delimited token, keeping
//     every token and its position. Non-ASCII characters are removed first.
//   - Terms splits normalized text into word tokens, drops English stop words
//     and emits unigrams followed by bigrams. These are the vocabulary terms.
//
// Stemming uses the Snowball English (Porter2) stemmer.
package text
