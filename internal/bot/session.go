package bot

// ChannelSession is the base every stateful per-channel game embeds. It
// knows its own key and can take or release exclusive reception for it.
type ChannelSession struct {
	Key     string
	Channel string
	Kind    ChannelKind
	Bot     *Context
}

func NewChannelSession(msg *Message, bc *Context, key string) ChannelSession {
	return ChannelSession{
		Key:     key,
		Channel: msg.Channel,
		Kind:    msg.Kind,
		Bot:     bc,
	}
}

// LockChannel routes the session channel's unprompted messages to h.
func (s *ChannelSession) LockChannel(h ExclusiveHandler) error {
	return s.Bot.Locks.Lock(s.Key, h)
}

// UnlockChannel restores normal command routing for the session channel.
func (s *ChannelSession) UnlockChannel() {
	s.Bot.Locks.Unlock(s.Key)
}
