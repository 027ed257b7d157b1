package badger

import (
	"encoding/binary"

	"github.com/poiesic/coursesearch/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec:"
	documentCodePrefix = "doccode:"
	documentIDSeq      = "docseq"
	vocabularyKey      = "vocab:current"
)

// makeDocumentKey generates a key for a document by ID.
// Format: prefix + big-endian ID, so key order is insertion order.
func makeDocumentKey(id core.ID) []byte {
	buf := make([]byte, len(documentPrefix)+8)
	offset := copy(buf, documentPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// documentIDFromKey extracts the ID from a document key.
func documentIDFromKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(documentPrefix):]))
}

// makeDocumentCodeKey generates a key for the code index.
// Format: prefix + code
func makeDocumentCodeKey(code string) []byte {
	buf := make([]byte, len(documentCodePrefix)+len(code))
	offset := copy(buf, documentCodePrefix)
	copy(buf[offset:], code)
	return buf
}
