// Package core defines the interfaces shared by the ssml-service components.
package core

import (
	"context"

	"github.com/book-expert/ssml-service/internal/ssml"
)

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// Caster turns text into a serialized SSML document.
type Caster interface {
	Cast(text string, opts ssml.Options) (string, error)
}

// CasterFunc adapts a function to the Caster interface.
type CasterFunc func(text string, opts ssml.Options) (string, error)

// Cast calls f(text, opts).
func (f CasterFunc) Cast(text string, opts ssml.Options) (string, error) {
	return f(text, opts)
}

// NormalizingCaster runs text through Normalize before delegating to Next.
type NormalizingCaster struct {
	Next      Caster
	Normalize func(text string) string
}

// Cast normalizes text and casts the result.
func (c NormalizingCaster) Cast(text string, opts ssml.Options) (string, error) {
	return c.Next.Cast(c.Normalize(text), opts)
}

// DefaultCaster casts with ssml.Cast.
var DefaultCaster Caster = CasterFunc(ssml.Cast)
