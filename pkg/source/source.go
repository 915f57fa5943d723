// Package source fetches raw graph files from local disk or object storage.
//
// Every Source returns the complete contents; no handle outlives Fetch.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("source: object not found")
	ErrBadURI            = errors.New("source: malformed uri")
	ErrUnsupportedScheme = errors.New("source: unsupported scheme")
	ErrCorrupt           = errors.New("source: corrupt compressed data")
)

// Source fetches the bytes behind a URI
type Source interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, uri string) ([]byte, error)

func (f SourceFunc) Fetch(ctx context.Context, uri string) ([]byte, error) { return f(ctx, uri) }

// Scheme returns the lower-cased scheme of uri, or "" for plain paths
func Scheme(uri string) string {
	scheme, _, found := strings.Cut(uri, "://")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}

// Mux dispatches Fetch by URI scheme. Plain paths use the "" scheme.
type Mux struct {
	routes map[string]Source
}

// NewMux returns a Mux serving plain paths and file:// URIs from files
func NewMux(files Source) *Mux {
	m := &Mux{routes: make(map[string]Source)}
	m.Handle("", files)
	m.Handle("file", files)
	return m
}

// Handle routes scheme to src, replacing any previous route
func (m *Mux) Handle(scheme string, src Source) {
	m.routes[strings.ToLower(scheme)] = src
}

func (m *Mux) Fetch(ctx context.Context, uri string) ([]byte, error) {
	scheme := Scheme(uri)
	src, ok := m.routes[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnsupportedScheme, scheme, uri)
	}
	return src.Fetch(ctx, uri)
}
