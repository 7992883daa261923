package domain

// MessageType classifies an observed message row in a channel.
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageSticker  MessageType = "sticker"
	MessageDocument MessageType = "document"
	MessageVoice    MessageType = "voice"
	MessageUnknown  MessageType = "unknown"
)

// RawMessage is one observed message row. It is never persisted directly;
// only messages carrying at least one qualifying link survive the pipeline.
type RawMessage struct {
	Type MessageType

	// Sender parsed from row metadata, empty when absent.
	Sender string

	Text string
}
