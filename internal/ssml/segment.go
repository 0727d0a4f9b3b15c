package ssml

import (
	"fmt"
	"regexp"
	"strings"
)

// Sentence patterns.
const (
	// DefaultSentencePattern captures a run of non-terminator characters
	// followed by one or more of '.', '!' or '?'.
	DefaultSentencePattern = `([^.!?]+[.!?]+)`
	// PeriodRunPattern captures a run of non-period characters followed by a
	// single terminator. A '!' or '?' inside the run does not end a sentence.
	PeriodRunPattern = `([^.]+[.!?])`
)

const requiredCaptureGroups = 1

// Segmenter splits raw text into ordered sentences.
type Segmenter interface {
	Segment(text string) []string
}

// SegmenterFunc adapts a plain function to the Segmenter interface.
type SegmenterFunc func(text string) []string

// Segment calls f(text).
func (f SegmenterFunc) Segment(text string) []string {
	return f(text)
}

// RegexSegmenter emits the single capture group of every non-overlapping match
// of its pattern, left to right. Text after the last match is dropped.
type RegexSegmenter struct {
	pattern *regexp.Regexp
}

var defaultSegmenter = MustRegexSegmenter(DefaultSentencePattern)

// DefaultSegmenter returns the segmenter for DefaultSentencePattern.
func DefaultSegmenter() *RegexSegmenter {
	return defaultSegmenter
}

// NewRegexSegmenter compiles pattern and checks that it has exactly one
// capture group.
func NewRegexSegmenter(pattern string) (*RegexSegmenter, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return FromRegexp(compiled)
}

// FromRegexp wraps an already compiled pattern.
func FromRegexp(pattern *regexp.Regexp) (*RegexSegmenter, error) {
	if pattern == nil {
		return nil, fmt.Errorf("%w: nil pattern", ErrInvalidPattern)
	}

	groups := pattern.NumSubexp()
	if groups != requiredCaptureGroups {
		return nil, fmt.Errorf(
			"%w: %q has %d capture groups, want %d",
			ErrInvalidPattern,
			pattern.String(),
			groups,
			requiredCaptureGroups,
		)
	}

	return &RegexSegmenter{pattern: pattern}, nil
}

// MustRegexSegmenter is like NewRegexSegmenter but panics on error.
func MustRegexSegmenter(pattern string) *RegexSegmenter {
	segmenter, err := NewRegexSegmenter(pattern)
	if err != nil {
		panic(err)
	}

	return segmenter
}

// Pattern returns the source text of the underlying expression.
func (s *RegexSegmenter) Pattern() string {
	return s.pattern.String()
}

// Segment returns the trimmed sentences found in text. Sentences that trim to
// the empty string are skipped.
func (s *RegexSegmenter) Segment(text string) []string {
	matches := s.pattern.FindAllStringSubmatch(text, -1)
	sentences := make([]string, 0, len(matches))

	for _, match := range matches {
		sentence := strings.TrimSpace(match[1])
		if sentence == "" {
			continue
		}

		sentences = append(sentences, sentence)
	}

	return sentences
}
