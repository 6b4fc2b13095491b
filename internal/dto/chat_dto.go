package dto

import (
	"time"

	"github.com/google/uuid"

	"llama-chat-be/pkg/transcript"
)

type SendChatRequest struct {
	SessionId *uuid.UUID `json:"session_id,omitempty"`
	Prompt    string     `json:"prompt" validate:"required"`
	Model     string     `json:"model,omitempty" validate:"omitempty,oneof=basic ultra"`
}

// SendChatResponse returns the post-append snapshot. The bot reply is not in
// it yet; it lands in the session when generation completes and is observed
// on the next read.
type SendChatResponse struct {
	Session transcript.Session `json:"session"`
	Pending bool               `json:"pending"`
}

type SessionSummaryResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  int       `json:"messages"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required"`
}

type BeginEditRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Index     int       `json:"index" validate:"min=0"`
}

type BeginEditResponse struct {
	Staged string `json:"staged"`
}

type CommitEditRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model,omitempty" validate:"omitempty,oneof=basic ultra"`
}

type DictationResponse struct {
	Transcript string `json:"transcript"`
	Listening  bool   `json:"listening"`
}
