package bot

// ChannelKind separates identifier spaces that the platform multiplexes
// over the same ids (a DM and a group room may share a raw id).
type ChannelKind string

const (
	ChannelGroup  ChannelKind = "group"
	ChannelDirect ChannelKind = "dm"
)

// User identifies a message author.
type User struct {
	ID   string
	Name string
	Bot  bool
}

// DisplayName prefers the human-readable name, falling back to the id.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// Message is the inbound abstraction the core operates on. The transport
// frame is decoded at the gateway boundary; the core never sees it.
type Message struct {
	ID      string
	Channel string
	Kind    ChannelKind
	Author  User
	Content string
}

// ChannelKey returns the conversation key used by the reception lock and
// the state managers. Kind-prefixing keeps DM and group ids apart.
func (m *Message) ChannelKey() string {
	return ChannelKey(m.Kind, m.Channel)
}

func ChannelKey(kind ChannelKind, id string) string {
	if kind == "" {
		kind = ChannelGroup
	}
	return string(kind) + ":" + id
}
