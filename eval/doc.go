// Package eval measures ranking quality against hand-labeled relevance
// judgments.
//
// A case pairs a query with the codes of the documents relevant to it. The
// ranked list is walked until every relevant document has been seen, giving
// a precision value at each rank. From that curve Evaluate derives
// interpolated precision at 25, 50, 75 and 100 percent recall, two mean
// precisions, and the Salton and McGill normalized precision and recall.
//
// Test sets are plain text, one case per line:
//
//	intro programming -> CS 101, CS 102
package eval
