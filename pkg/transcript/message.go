package transcript

import (
	"encoding/json"

	"llama-chat-be/pkg/tabular"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind tags the message payload shape.
type Kind string

const (
	KindText  Kind = "text"
	KindTable Kind = "table"
)

// Message is one transcript entry. It is a tagged union: Text carries the
// payload for KindText, Table for KindTable. Raw always holds the original
// unparsed text, even for table messages, so fallback rendering and export
// naming survive a failed or skipped parse. Error marks bot messages that
// surface a failure to the user.
type Message struct {
	Sender Sender         `json:"sender"`
	Kind   Kind           `json:"kind"`
	Text   string         `json:"text,omitempty"`
	Table  *tabular.Table `json:"table,omitempty"`
	Raw    string         `json:"raw"`
	Error  bool           `json:"error,omitempty"`
}

// NewUserText builds a plain user message.
func NewUserText(text string) Message {
	return Message{Sender: SenderUser, Kind: KindText, Text: text, Raw: text}
}

// NewBotReply classifies raw model output: pipe-table content becomes a
// table message, everything else stays text. Raw is kept either way.
func NewBotReply(raw string) Message {
	if table, ok := tabular.Detect(raw); ok {
		return Message{Sender: SenderBot, Kind: KindTable, Table: table, Raw: raw}
	}
	return Message{Sender: SenderBot, Kind: KindText, Text: raw, Raw: raw}
}

// NewBotError builds the synthetic bot message that surfaces a failure in
// the transcript.
func NewBotError(text string) Message {
	return Message{Sender: SenderBot, Kind: KindText, Text: text, Raw: text, Error: true}
}

// legacyMessage mirrors the historical wire shape, where the payload lived
// in a bare "text" field and "raw"/"data" did not exist yet.
type legacyMessage struct {
	Sender Sender         `json:"sender"`
	Kind   Kind           `json:"kind"`
	Text   string         `json:"text"`
	Data   string         `json:"data"`
	Table  *tabular.Table `json:"table"`
	Raw    string         `json:"raw"`
	Error  bool           `json:"error"`
}

// UnmarshalJSON is the single migration point for legacy-shaped messages.
// Missing tags and payload fields are normalized here so the rest of the
// package never branches on field presence.
func (m *Message) UnmarshalJSON(data []byte) error {
	var lm legacyMessage
	if err := json.Unmarshal(data, &lm); err != nil {
		return err
	}

	text := lm.Text
	if text == "" {
		text = lm.Data
	}

	out := Message{
		Sender: lm.Sender,
		Kind:   lm.Kind,
		Text:   text,
		Table:  lm.Table,
		Raw:    lm.Raw,
		Error:  lm.Error,
	}
	if out.Sender == "" {
		out.Sender = SenderBot
	}
	if out.Kind == "" || (out.Kind == KindTable && out.Table == nil) {
		out.Kind = KindText
	}
	if out.Raw == "" {
		out.Raw = text
	}

	*m = out
	return nil
}
