package bot

import "sync"

// KeyFunc derives the registry key from a message. The default keys by
// originating channel.
type KeyFunc func(*Message) string

// Factory builds a fresh session for a key on first access.
type Factory[T any] func(msg *Message, bc *Context, key string) T

// Manager is a keyed registry of lazily created session objects. Instances
// live until Remove; repeated lookups for one key always yield the same
// instance. Creation happens under the registry lock so two racing first
// messages cannot double-construct a session.
type Manager[T any] struct {
	mu      sync.Mutex
	items   map[string]T
	factory Factory[T]
	keyOf   KeyFunc
}

type ManagerOption[T any] func(*Manager[T])

// WithKeyFunc overrides the channel-key derivation. The computed key is
// used consistently on both the hit and the create path.
func WithKeyFunc[T any](f KeyFunc) ManagerOption[T] {
	return func(m *Manager[T]) { m.keyOf = f }
}

func NewManager[T any](factory Factory[T], opts ...ManagerOption[T]) *Manager[T] {
	m := &Manager[T]{
		items:   make(map[string]T),
		factory: factory,
		keyOf:   func(msg *Message) string { return msg.ChannelKey() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// KeyOf exposes the derived key for a message.
func (m *Manager[T]) KeyOf(msg *Message) string { return m.keyOf(msg) }

// GetOrCreate returns the session for the message's key, building it first
// if needed. Idempotent per key.
func (m *Manager[T]) GetOrCreate(msg *Message, bc *Context) T {
	key := m.keyOf(msg)
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[key]; ok {
		return it
	}
	it := m.factory(msg, bc, key)
	m.items[key] = it
	return it
}

// Peek returns the session for key without creating one.
func (m *Manager[T]) Peek(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	return it, ok
}

// Has reports existence without creating.
func (m *Manager[T]) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

// Remove deletes the stored session so a later GetOrCreate builds a fresh one.
func (m *Manager[T]) Remove(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}
