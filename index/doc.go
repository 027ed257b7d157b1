// Package index rebuilds the search index of a document store.
//
// An Indexer reads every stored document in batches, fits a vocabulary on the
// whole corpus, computes each document's term-frequency vector on a worker
// pool, writes the vectors back, and finally saves the vocabulary. Vectors
// carry the vocabulary version, so a run interrupted between the two writes
// leaves an index that searches reject instead of silently misranking.
package index
