package mocks

import (
	"context"
	"fieldbook/infras/otel"
	"sync"
)

// Recorder is an otel.Otel that keeps every scope it opens so tests can inspect what was traced.
type Recorder struct {
	mu     sync.Mutex
	scopes []*Scope
}

func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scope := &Scope{ScopeName: scopeName, SpanName: spanName, Attributes: map[string]any{}}
	r.scopes = append(r.scopes, scope)

	return ctx, scope
}

// Scopes returns the scopes opened so far, oldest first.
func (r *Recorder) Scopes() []*Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Scope(nil), r.scopes...)
}

type noopOtel struct{}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func NewOtel() otel.Otel {
	return noopOtel{}
}
