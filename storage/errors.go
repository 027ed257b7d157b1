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

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey indicates a duplicate key violation.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTransactionFailed indicates that a transaction failed and may be retried.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrArtifactNotFound indicates that a vocabulary artifact file does not exist.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrCorruptArtifact indicates that a vocabulary artifact could not be decoded.
	ErrCorruptArtifact = errors.New("corrupt artifact")

	// ErrUnknownFormat indicates an encoded blob does not start with the expected tag.
	ErrUnknownFormat = errors.New("unknown encoding format")

	// ErrUnsupportedFormatVersion indicates an encoded blob was written by a newer format.
	ErrUnsupportedFormatVersion = errors.New("unsupported format version")
)
