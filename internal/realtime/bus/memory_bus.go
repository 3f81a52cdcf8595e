package bus

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const memoryForwarderBuffer = 64

// memoryBus delivers events in-process. Each forwarder drains its own buffered queue on
// a goroutine, so Publish never runs subscriber work on the caller's goroutine. It is
// used when REDIS_ADDR is unset and in tests.
type memoryBus struct {
	mu       sync.RWMutex
	handlers map[int]chan LessonGraphEvent
	next     int
	closed   bool
	done     chan struct{}
}

func NewMemoryBus() Bus {
	return &memoryBus{
		handlers: map[int]chan LessonGraphEvent{},
		done:     make(chan struct{}),
	}
}

// Publish queues ev for every forwarder. When a queue is full it waits until there is
// room or ctx ends.
func (b *memoryBus) Publish(ctx context.Context, ev LessonGraphEvent) error {
	if ev.Type == "" {
		return fmt.Errorf("event type required")
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("memory bus closed")
	}
	queues := make([]chan LessonGraphEvent, 0, len(b.handlers))
	for _, q := range b.handlers {
		queues = append(queues, q)
	}
	b.mu.RUnlock()

	for _, q := range queues {
		select {
		case q <- ev:
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return fmt.Errorf("memory bus closed")
		}
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvent func(ev LessonGraphEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("memory bus closed")
	}
	id := b.next
	b.next++
	q := make(chan LessonGraphEvent, memoryForwarderBuffer)
	b.handlers[id] = q
	b.mu.Unlock()

	go func() {
		defer func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case ev := <-q:
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	return nil
}
