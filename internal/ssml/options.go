package ssml

import (
	"fmt"
	"strings"
)

// Default cast values.
const (
	DefaultSpeaker         = "en-US-AvaMultilingualNeural"
	DefaultLeadingSilence  = "1s"
	DefaultTrailingSilence = "1s"
	defaultIndentSpaces    = 2
)

// Options configures a single cast. An empty silence or lexicon value means
// the corresponding element is not emitted.
type Options struct {
	Segmenter       Segmenter
	Speaker         string
	LeadingSilence  string
	TrailingSilence string
	LexiconURI      string
	Indent          bool
}

// DefaultOptions returns the documented defaults: the default speaker, one
// second of leading and trailing silence, no lexicon, no indentation and the
// default sentence pattern.
func DefaultOptions() Options {
	return Options{
		Segmenter:       DefaultSegmenter(),
		Speaker:         DefaultSpeaker,
		LeadingSilence:  DefaultLeadingSilence,
		TrailingSilence: DefaultTrailingSilence,
		LexiconURI:      "",
		Indent:          false,
	}
}

// Validate reports whether the options can produce a document.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Speaker) == "" {
		return fmt.Errorf("%w: speaker cannot be empty", ErrInvalidOptions)
	}

	if o.Segmenter == nil {
		return fmt.Errorf("%w: segmenter cannot be nil", ErrInvalidOptions)
	}

	return nil
}

// WithPattern returns a copy of o that segments with pattern.
func (o Options) WithPattern(pattern string) (Options, error) {
	segmenter, err := NewRegexSegmenter(pattern)
	if err != nil {
		return o, err
	}

	o.Segmenter = segmenter

	return o, nil
}

// ModifyOptions selects what Modify rewrites. Empty fields are left alone.
type ModifyOptions struct {
	Speaker    string
	LexiconURI string
}
