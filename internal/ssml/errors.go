package ssml

import "errors"

var (
	// ErrInvalidPattern indicates a sentence pattern that does not compile or
	// does not expose exactly one capture group.
	ErrInvalidPattern = errors.New("invalid sentence pattern")
	// ErrInvalidOptions indicates cast options that cannot produce a document.
	ErrInvalidOptions = errors.New("invalid cast options")
	// ErrParse indicates input that is not well-formed markup.
	ErrParse = errors.New("parse error")
	// ErrMissingVoice indicates a well-formed document without a voice element.
	ErrMissingVoice = errors.New("missing required element: voice")
)
