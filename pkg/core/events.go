package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
)

type subscriber struct {
	pattern string
	ch      chan Event
}

// broker fans store events out to Watch subscribers.
// A subscriber whose buffer is full loses the event instead of blocking writers.
type broker struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	buffer int
	logger *slog.Logger
}

func newBroker(buffer int, logger *slog.Logger) *broker {
	return &broker{
		subs:   make(map[*subscriber]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (b *broker) subscribe(ctx context.Context, pattern string) *subscriber {
	sub := &subscriber{pattern: pattern, ch: make(chan Event, b.buffer)}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, sub)
		close(sub.ch)
		b.mu.Unlock()
	}()
	return sub
}

func (b *broker) publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		b.deliverLocked(sub, e)
	}
}

// deliver sends to a single subscriber if it is still registered.
func (b *broker) deliver(sub *subscriber, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.subs[sub]; ok {
		b.deliverLocked(sub, e)
	}
}

func (b *broker) deliverLocked(sub *subscriber, e Event) {
	if ok, _ := doublestar.Match(sub.pattern, e.Namespace); !ok {
		return
	}
	select {
	case sub.ch <- e:
	default:
		b.logger.Warn("event dropped, subscriber too slow", "event", e.String())
	}
}

func (b *broker) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (s *Store) publish(t EventType, ns, id string) {
	s.broker.publish(Event{
		Type:      t,
		Namespace: ns,
		ID:        id,
		Timestamp: s.clock().Unix(),
	})
}

// Watch streams the changes made to namespaces matching pattern (doublestar
// syntax, "" means every namespace). When the medium can observe external
// edits those are delivered as MODIFY events with External set.
// The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}

	var keys <-chan string
	if kw, ok := s.medium.(KeyWatcher); ok {
		var err error
		keys, err = kw.WatchKeys(ctx)
		if err != nil {
			return nil, Unavailable("watch", pattern, err)
		}
	}

	sub := s.broker.subscribe(ctx, pattern)
	if keys != nil {
		lifecycle.Go(ctx, func(ctx context.Context) error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case key, ok := <-keys:
					if !ok {
						return nil
					}
					s.broker.deliver(sub, Event{
						Type:      EventModify,
						Namespace: key,
						Timestamp: time.Now().Unix(),
						External:  true,
					})
				}
			}
		}, lifecycle.WithErrorHandler(func(err error) {
			s.logger.Error("medium watch forwarder failed", "error", err)
		}))
	}
	return sub.ch, nil
}
