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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidVector indicates a Vector failed validation.
	ErrInvalidVector = errors.New("invalid vector")

	// ErrEmptyCode indicates the document Code field is empty.
	ErrEmptyCode = errors.New("document code cannot be empty")

	// ErrEmptyName indicates the document Name field is empty.
	ErrEmptyName = errors.New("document name cannot be empty")

	// ErrLengthMismatch indicates a vector has a different number of indices and weights.
	ErrLengthMismatch = errors.New("indices and weights differ in length")

	// ErrUnsortedIndices indicates vector indices are not strictly increasing.
	ErrUnsortedIndices = errors.New("indices must be strictly increasing")

	// ErrNegativeWeight indicates a vector weight is negative.
	ErrNegativeWeight = errors.New("weights must be non-negative")
)
