package gateway

// EventType discriminates inbound gateway frames.
type EventType string

const (
	EventMessage  EventType = "message"
	EventReaction EventType = "reaction"
)

// Event is one inbound frame from the chat gateway.
type Event struct {
	Type       EventType `json:"type"`
	Room       string    `json:"room"`
	RoomKind   string    `json:"room_kind,omitempty"` // "group" or "dm"
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	SenderBot  bool      `json:"sender_bot,omitempty"`
	Content    string    `json:"content,omitempty"`
	MessageID  string    `json:"message_id,omitempty"`
	Emoji      string    `json:"emoji,omitempty"`
}

// ReplyRequest posts a text message to a room.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

// PrivateRequest posts a text message to a user's direct channel.
type PrivateRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
	Data string `json:"data"`
}

// EditRequest replaces the content of a previously sent message.
type EditRequest struct {
	Room      string `json:"room"`
	MessageID string `json:"message_id"`
	Data      string `json:"data"`
}

// EmbedField is one labelled block of an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedRequest posts a structured visual block; rendering is the gateway's job.
type EmbedRequest struct {
	Room        string       `json:"room"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// ReplyResponse carries the id of the delivered message when the gateway knows it.
type ReplyResponse struct {
	MessageID string `json:"message_id,omitempty"`
}

// WebSocketState mirrors the connection lifecycle for observers.
type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)
