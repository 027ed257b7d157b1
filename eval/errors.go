package eval

import "errors"

var (
	// ErrMalformedLine is returned for a test-set line that is not
	// "<query> -> <code>, <code>, ...".
	ErrMalformedLine = errors.New("malformed test-set line")

	// ErrEmptyRelevantSet is returned when a case has no relevant codes.
	ErrEmptyRelevantSet = errors.New("relevant set is empty")

	// ErrRecallNotReached is returned when the ranked list ends before every
	// relevant document was retrieved.
	ErrRecallNotReached = errors.New("ranked list ends before full recall")

	// ErrUndefinedMetric is returned when normalized precision or recall has
	// a zero denominator.
	ErrUndefinedMetric = errors.New("metric undefined")

	// ErrRankerRequired is returned when an evaluator has no ranker.
	ErrRankerRequired = errors.New("ranker required")
)
