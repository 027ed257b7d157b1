package eval

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/coursesearch/core"
)

// LineError reports a test-set line that could not be parsed.
type LineError struct {
	Line int // 1-based
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseTestSet reads relevance judgments, one "<query> -> <code>, <code>"
// line each. Blank lines are skipped. Every well-formed line is returned;
// malformed lines are reported together as joined *LineError values.
func ParseTestSet(r io.Reader) ([]core.RelevanceJudgment, error) {
	var judgments []core.RelevanceJudgment
	var lineErrs []error
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		judgment, err := parseLine(line)
		if err != nil {
			lineErrs = append(lineErrs, &LineError{Line: lineNo, Err: err})
			continue
		}
		judgment.Line = lineNo
		judgments = append(judgments, judgment)
	}
	if err := scanner.Err(); err != nil {
		return judgments, err
	}
	return judgments, errors.Join(lineErrs...)
}

// LoadTestSet parses the test set stored at path.
func LoadTestSet(path string) ([]core.RelevanceJudgment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestSet(f)
}

func parseLine(line string) (core.RelevanceJudgment, error) {
	query, list, ok := strings.Cut(line, "->")
	if !ok {
		return core.RelevanceJudgment{}, fmt.Errorf("%w: missing \"->\"", ErrMalformedLine)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return core.RelevanceJudgment{}, fmt.Errorf("%w: empty query", ErrMalformedLine)
	}
	if strings.Contains(list, "->") {
		return core.RelevanceJudgment{}, fmt.Errorf("%w: more than one \"->\"", ErrMalformedLine)
	}

	var codes []string
	for _, code := range strings.Split(list, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			return core.RelevanceJudgment{}, fmt.Errorf("%w: empty code in %q", ErrMalformedLine, strings.TrimSpace(list))
		}
		codes = append(codes, code)
	}
	return core.RelevanceJudgment{Query: query, Codes: codes}, nil
}
