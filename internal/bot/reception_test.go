package bot

import (
	"context"
	"testing"
)

func groupMsg(channel, userID, content string) *Message {
	return &Message{
		ID:      "m1",
		Channel: channel,
		Kind:    ChannelGroup,
		Author:  User{ID: userID, Name: userID},
		Content: content,
	}
}

func TestLockIsExclusivePerKey(t *testing.T) {
	r := NewReceptionLock()
	h := func(ctx context.Context, msg *Message) {}

	if err := r.Lock("group:a", h); err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if err := r.Lock("group:a", h); err != ErrChannelLocked {
		t.Fatalf("expected ErrChannelLocked, got %v", err)
	}
	// A different key is independent.
	if err := r.Lock("group:b", h); err != nil {
		t.Fatalf("lock other key: %v", err)
	}
	r.Unlock("group:a")
	if err := r.Lock("group:a", h); err != nil {
		t.Fatalf("relock after unlock: %v", err)
	}
}

func TestUnlockFreeKeyIsNoop(t *testing.T) {
	r := NewReceptionLock()
	r.Unlock("group:nothing")
	if r.Locked("group:nothing") {
		t.Fatalf("key should not be locked")
	}
}

func TestDispatchRoutesToHandler(t *testing.T) {
	r := NewReceptionLock()
	var got *Message
	err := r.Lock("group:a", func(ctx context.Context, msg *Message) { got = msg })
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	msg := groupMsg("a", "u1", "hello")
	if !r.Dispatch(context.Background(), msg) {
		t.Fatalf("expected message to be consumed")
	}
	if got == nil || got.Content != "hello" {
		t.Fatalf("handler did not receive the message: %+v", got)
	}

	if r.Dispatch(context.Background(), groupMsg("b", "u1", "hi")) {
		t.Fatalf("unlocked channel must not consume")
	}
}

func TestHandlerMayUnlockDuringDispatch(t *testing.T) {
	r := NewReceptionLock()
	err := r.Lock("group:a", func(ctx context.Context, msg *Message) {
		r.Unlock("group:a")
	})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	// Must not deadlock: the handler runs outside the registry lock.
	if !r.Dispatch(context.Background(), groupMsg("a", "u1", "bye")) {
		t.Fatalf("expected consumption")
	}
	if r.Locked("group:a") {
		t.Fatalf("handler unlock did not stick")
	}
}

func TestNilHandlerRejected(t *testing.T) {
	r := NewReceptionLock()
	if err := r.Lock("group:a", nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}
