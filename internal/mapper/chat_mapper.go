package mapper

import (
	"llama-chat-be/internal/dto"
	"llama-chat-be/pkg/transcript"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToSummary(s transcript.Session) dto.SessionSummaryResponse {
	return dto.SessionSummaryResponse{
		Id:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		Messages:  len(s.Messages),
	}
}

func (m *ChatMapper) SessionsToSummaries(sessions []transcript.Session) []dto.SessionSummaryResponse {
	out := make([]dto.SessionSummaryResponse, len(sessions))
	for i, s := range sessions {
		out[i] = m.SessionToSummary(s)
	}
	return out
}
