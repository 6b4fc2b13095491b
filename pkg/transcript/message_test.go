package transcript

import (
	"encoding/json"
	"testing"
)

func TestNewBotReplyClassification(t *testing.T) {
	reply := NewBotReply("| A | B |\n|---|---|\n| 1 | 2 |")
	if reply.Kind != KindTable || reply.Table == nil {
		t.Fatalf("pipe-table output should become a table message, got %+v", reply)
	}
	if reply.Raw == "" {
		t.Error("Raw must be kept for table messages")
	}

	prose := NewBotReply("just words")
	if prose.Kind != KindText || prose.Text != "just words" {
		t.Errorf("prose output should stay text, got %+v", prose)
	}
}

func TestUnmarshalLegacyMessage(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantText string
		wantKind Kind
		wantRaw  string
	}{
		{
			name:     "legacy bare text field",
			payload:  `{"sender":"bot","text":"hello"}`,
			wantText: "hello",
			wantKind: KindText,
			wantRaw:  "hello",
		},
		{
			name:     "legacy data field",
			payload:  `{"sender":"user","kind":"text","data":"typed"}`,
			wantText: "typed",
			wantKind: KindText,
			wantRaw:  "typed",
		},
		{
			name:     "table kind without table payload degrades to text",
			payload:  `{"sender":"bot","kind":"table","text":"| broken"}`,
			wantText: "| broken",
			wantKind: KindText,
			wantRaw:  "| broken",
		},
		{
			name:     "current shape passes through",
			payload:  `{"sender":"user","kind":"text","text":"hi","raw":"hi"}`,
			wantText: "hi",
			wantKind: KindText,
			wantRaw:  "hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Message
			if err := json.Unmarshal([]byte(tt.payload), &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if m.Text != tt.wantText || m.Kind != tt.wantKind || m.Raw != tt.wantRaw {
				t.Errorf("got %+v, want text=%q kind=%q raw=%q", m, tt.wantText, tt.wantKind, tt.wantRaw)
			}
		})
	}
}
