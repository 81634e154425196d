package bot

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrChannelLocked means a handler is already registered for the key.
	// Locking over an existing lock is a programming error in the caller:
	// it must unlock before re-locking.
	ErrChannelLocked = errors.New("channel already locked")
)

// ExclusiveHandler consumes every non-command message of a locked channel.
type ExclusiveHandler func(ctx context.Context, msg *Message)

// ReceptionLock routes a channel's unprompted messages to a single game
// handler instead of the command dispatcher. At most one handler per key.
type ReceptionLock struct {
	mu       sync.Mutex
	handlers map[string]ExclusiveHandler
}

func NewReceptionLock() *ReceptionLock {
	return &ReceptionLock{handlers: make(map[string]ExclusiveHandler)}
}

// Lock registers h as the exclusive consumer for key.
func (r *ReceptionLock) Lock(key string, h ExclusiveHandler) error {
	if h == nil {
		return errors.New("nil exclusive handler")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[key]; ok {
		return ErrChannelLocked
	}
	r.handlers[key] = h
	return nil
}

// Unlock deregisters the handler for key. Unlocking a free key is a no-op.
func (r *ReceptionLock) Unlock(key string) {
	r.mu.Lock()
	delete(r.handlers, key)
	r.mu.Unlock()
}

// Locked reports whether a handler is registered for key.
func (r *ReceptionLock) Locked(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[key]
	return ok
}

// Dispatch invokes the exclusive handler for the message's channel, if any.
// Returns true when the message was consumed. The handler runs outside the
// registry lock: it may itself unlock the channel.
func (r *ReceptionLock) Dispatch(ctx context.Context, msg *Message) bool {
	r.mu.Lock()
	h, ok := r.handlers[msg.ChannelKey()]
	r.mu.Unlock()
	if !ok {
		return false
	}
	h(ctx, msg)
	return true
}
