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


package core

import (
	"fmt"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Code must not be empty
//   - Name must not be empty
//   - Vector must be well formed
//
// NOT validated:
//   - Description (may be absent)
//   - ID (0 is valid before the document is stored)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyCode)
	}

	if doc.Name == "" {
		return fmt.Errorf("%w: code %q: %w", ErrInvalidDocument, doc.Code, ErrEmptyName)
	}

	if err := ValidateVector(doc.Vector); err != nil {
		return fmt.Errorf("%w: code %q: %w", ErrInvalidDocument, doc.Code, err)
	}

	return nil
}

// ValidateVector checks that a sparse vector is well formed.
func ValidateVector(v Vector) error {
	if len(v.Indices) != len(v.Weights) {
		return fmt.Errorf("%w: %w (%d != %d)", ErrInvalidVector, ErrLengthMismatch, len(v.Indices), len(v.Weights))
	}
	for i := range v.Indices {
		if v.Indices[i] < 0 || (i > 0 && v.Indices[i] <= v.Indices[i-1]) {
			return fmt.Errorf("%w: %w at position %d", ErrInvalidVector, ErrUnsortedIndices, i)
		}
		if v.Weights[i] < 0 {
			return fmt.Errorf("%w: %w at position %d", ErrInvalidVector, ErrNegativeWeight, i)
		}
	}
	return nil
}
