// Package lifecycle exposes store change events as a lifecycle.Source so a
// supervised application can react to them like any other signal.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/shelf/pkg/core"
)

type storeSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	skip   func(core.Event) bool
}

// SourceOption configures a store source.
type SourceOption func(*storeSource)

// WithoutExternal drops events that originated outside this process.
func WithoutExternal() SourceOption {
	return func(s *storeSource) {
		s.skip = func(e core.Event) bool { return e.External }
	}
}

// NewSource creates a lifecycle.Source that emits store change events.
// core.Event satisfies lifecycle.Event through its String method.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Watch subscribes to store under pattern and wraps the subscription as a Source.
func Watch(ctx context.Context, store *core.Store, pattern string, opts ...SourceOption) (lifecycle.Source, error) {
	events, err := store.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}
	return NewSource(events, opts...), nil
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.skip != nil && s.skip(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
