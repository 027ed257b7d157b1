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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/coursesearch/core"
)

const (
	// VocabularyFormatTag starts every encoded vocabulary.
	VocabularyFormatTag = "coursesearch/vocabulary"
	// VocabularyFormatVersion is the current vocabulary encoding version.
	VocabularyFormatVersion = 1
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
// The input is walked with Skip first so a corrupt collection length fails
// before anything is allocated.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	if _, err := core.DocumentMUS.Skip(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if err := core.ValidateVector(doc.Vector); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}

// MarshalVector serializes a Vector to bytes.
func MarshalVector(vec core.Vector) []byte {
	buf := make([]byte, core.VectorMUS.Size(vec))
	core.VectorMUS.Marshal(vec, buf)
	return buf
}

// UnmarshalVector deserializes a Vector from bytes.
func UnmarshalVector(data []byte) (core.Vector, error) {
	if _, err := core.VectorMUS.Skip(data); err != nil {
		return core.Vector{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	vec, _, err := core.VectorMUS.Unmarshal(data)
	if err != nil {
		return core.Vector{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if err := core.ValidateVector(vec); err != nil {
		return core.Vector{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return vec, nil
}

// MarshalVocabulary serializes a Vocabulary to bytes behind a format tag and
// version.
func MarshalVocabulary(vocabulary *core.Vocabulary) []byte {
	size := ord.String.Size(VocabularyFormatTag)
	size += varint.Int.Size(VocabularyFormatVersion)
	buf := make([]byte, size+core.VocabularyMUS.Size(*vocabulary))
	n := ord.String.Marshal(VocabularyFormatTag, buf)
	n += varint.Int.Marshal(VocabularyFormatVersion, buf[n:])
	core.VocabularyMUS.Marshal(*vocabulary, buf[n:])
	return buf
}

// UnmarshalVocabulary deserializes a Vocabulary from bytes.
// A foreign or newer blob is rejected before its body is decoded, and
// trailing bytes are rejected.
func UnmarshalVocabulary(data []byte) (*core.Vocabulary, error) {
	tag, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrSerializationFailed, ErrUnknownFormat, err)
	}
	if tag != VocabularyFormatTag {
		return nil, fmt.Errorf("%w: %w: tag %q", ErrSerializationFailed, ErrUnknownFormat, tag)
	}
	format, n1, err := varint.Int.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if format != VocabularyFormatVersion {
		return nil, fmt.Errorf("%w: %w: %d", ErrSerializationFailed, ErrUnsupportedFormatVersion, format)
	}

	body := data[n:]
	size, err := core.VocabularyMUS.Skip(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if size != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(body)-size)
	}
	vocabulary, _, err := core.VocabularyMUS.Unmarshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &vocabulary, nil
}
