package bot

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Command is one registered capability. Execute receives the whitespace
// split remainder after the command token. Returned errors are defects:
// user-facing conditions are the command's own responsibility to report.
type Command interface {
	Name() string
	Execute(ctx context.Context, bc *Context, msg *Message, args []string) error
}

// Dispatcher parses prefix commands and routes messages. Channels under an
// exclusive reception lock bypass command parsing for unprompted messages.
type Dispatcher struct {
	bc     *Context
	logger *zap.Logger

	mu       sync.RWMutex
	commands map[string]Command
}

func NewDispatcher(bc *Context, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{bc: bc, logger: logger, commands: make(map[string]Command)}
}

func (d *Dispatcher) Register(cmd Command) {
	d.mu.Lock()
	d.commands[strings.ToLower(cmd.Name())] = cmd
	d.mu.Unlock()
}

// CommandNames lists registered commands, sorted, for help output.
func (d *Dispatcher) CommandNames() []string {
	d.mu.RLock()
	names := make([]string, 0, len(d.commands))
	for n := range d.commands {
		names = append(names, n)
	}
	d.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Handle processes one inbound message end to end. A panicking handler is
// recovered here, logged, and answered with a generic apology; game
// cleanup (unlock, deregister) stays the owning session's responsibility.
func (d *Dispatcher) Handle(ctx context.Context, msg *Message) {
	if msg == nil || msg.Author.Bot {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("handler panic",
				zap.String("channel", msg.ChannelKey()),
				zap.String("user", msg.Author.ID),
				zap.Any("panic", rec),
			)
			d.bc.Say(ctx, msg.Channel, "common.internal_error", nil)
		}
	}()

	content := strings.TrimSpace(msg.Content)
	if !strings.HasPrefix(content, d.bc.Prefix) {
		// Unprompted message: only a locked channel consumes it.
		d.bc.Locks.Dispatch(ctx, msg)
		return
	}

	raw := strings.TrimSpace(strings.TrimPrefix(content, d.bc.Prefix))
	if raw == "" {
		return
	}
	parts := strings.Fields(raw)
	name := strings.ToLower(parts[0])
	args := parts[1:]

	d.mu.RLock()
	cmd, ok := d.commands[name]
	d.mu.RUnlock()
	if !ok {
		d.bc.Say(ctx, msg.Channel, "common.unknown_command", map[string]string{"Prefix": d.bc.Prefix})
		return
	}

	if err := cmd.Execute(ctx, d.bc, msg, args); err != nil {
		d.logger.Error("command error",
			zap.String("command", name),
			zap.String("channel", msg.ChannelKey()),
			zap.Error(err),
		)
		d.bc.Say(ctx, msg.Channel, "common.internal_error", nil)
	}
}
