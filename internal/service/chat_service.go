package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"llama-chat-be/internal/dto"
	"llama-chat-be/internal/mapper"
	"llama-chat-be/internal/pkg/logger"
	"llama-chat-be/pkg/speech"
	"llama-chat-be/pkg/tabular"
	"llama-chat-be/pkg/transcript"
	"llama-chat-be/pkg/transcript/editor"
)

var ErrNotATable = fmt.Errorf("message is not a table")

// IChatService defines the conversation surface: session CRUD, the send
// path, edit-and-regenerate, dictation, and table export.
type IChatService interface {
	CreateSession(ctx context.Context, title string) transcript.Session
	GetSessions(ctx context.Context) []dto.SessionSummaryResponse
	GetGroupedSessions(ctx context.Context) []transcript.Group
	GetSession(ctx context.Context, id uuid.UUID) (transcript.Session, bool)
	SelectSession(ctx context.Context, id uuid.UUID)
	RenameSession(ctx context.Context, id uuid.UUID, title string)
	DeleteSession(ctx context.Context, id uuid.UUID)

	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	SendChatWithFile(ctx context.Context, request *dto.SendChatRequest, filename string, data []byte) (*dto.SendChatResponse, error)

	BeginEdit(ctx context.Context, request *dto.BeginEditRequest) (*dto.BeginEditResponse, error)
	CancelEdit(ctx context.Context)
	CommitEdit(ctx context.Context, request *dto.CommitEditRequest) (*dto.SendChatResponse, error)

	ExportTable(ctx context.Context, sessionId uuid.UUID, index int) (tabular.Artifact, error)
	StartDictation(ctx context.Context) *dto.DictationResponse
	Dictate(ctx context.Context, filename string, audio []byte) (*dto.DictationResponse, error)
}

type chatService struct {
	store     *transcript.Store
	flow      *editor.Flow
	dictation *speech.Dictation
	pubSub    *gochannel.GoChannel
	topicName string
	mapper    *mapper.ChatMapper
	logger    logger.ILogger
}

func NewChatService(
	store *transcript.Store,
	flow *editor.Flow,
	dictation *speech.Dictation,
	pubSub *gochannel.GoChannel,
	topicName string,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		store:     store,
		flow:      flow,
		dictation: dictation,
		pubSub:    pubSub,
		topicName: topicName,
		mapper:    mapper.NewChatMapper(),
		logger:    sysLogger,
	}
}

// --- Sessions ---

func (cs *chatService) CreateSession(_ context.Context, title string) transcript.Session {
	if title == "" {
		title = "New chat"
	}
	session := cs.store.Create(title)
	cs.logger.Info("chat", "session created", map[string]interface{}{"session_id": session.ID.String()})
	return session
}

func (cs *chatService) GetSessions(_ context.Context) []dto.SessionSummaryResponse {
	return cs.mapper.SessionsToSummaries(cs.store.Sessions())
}

func (cs *chatService) GetGroupedSessions(_ context.Context) []transcript.Group {
	return cs.store.Grouped()
}

func (cs *chatService) GetSession(_ context.Context, id uuid.UUID) (transcript.Session, bool) {
	return cs.store.Get(id)
}

func (cs *chatService) SelectSession(_ context.Context, id uuid.UUID) {
	cs.store.Select(id)
}

func (cs *chatService) RenameSession(_ context.Context, id uuid.UUID, title string) {
	cs.store.Rename(id, title)
}

func (cs *chatService) DeleteSession(_ context.Context, id uuid.UUID) {
	cs.store.Delete(id)
	cs.logger.Info("chat", "session deleted", map[string]interface{}{"session_id": id.String()})
}

// --- Send path ---

func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	return cs.send(ctx, request, "", nil)
}

func (cs *chatService) SendChatWithFile(ctx context.Context, request *dto.SendChatRequest, filename string, data []byte) (*dto.SendChatResponse, error) {
	return cs.send(ctx, request, filename, data)
}

func (cs *chatService) send(ctx context.Context, request *dto.SendChatRequest, filename string, data []byte) (*dto.SendChatResponse, error) {
	sessionId := cs.resolveSession(request)

	session, ok := cs.store.Append(sessionId, transcript.NewUserText(request.Prompt))
	if !ok {
		// The session vanished between resolution and append; start over in
		// a fresh one rather than failing the send.
		session = cs.store.Create(transcript.DeriveTitle(request.Prompt))
		sessionId = session.ID
		session, _ = cs.store.Append(sessionId, transcript.NewUserText(request.Prompt))
	}

	if err := cs.publishJob(generationJob{
		SessionId: sessionId,
		Prompt:    request.Prompt,
		Model:     request.Model,
		Filename:  filename,
		File:      data,
	}); err != nil {
		// The request never left the process; surface it in the transcript
		// like any other generation failure.
		session, _ = cs.store.Append(sessionId, transcript.NewBotError("Error: "+err.Error()))
		return &dto.SendChatResponse{Session: session, Pending: false}, nil
	}

	return &dto.SendChatResponse{Session: session, Pending: true}, nil
}

// resolveSession picks the transcript a send lands in: the requested
// session when it still exists, otherwise the current one, otherwise a
// fresh session titled from the prompt.
func (cs *chatService) resolveSession(request *dto.SendChatRequest) uuid.UUID {
	if request.SessionId != nil {
		if _, ok := cs.store.Get(*request.SessionId); ok {
			cs.store.Select(*request.SessionId)
			return *request.SessionId
		}
	}
	if current, ok := cs.store.Current(); ok {
		return current.ID
	}
	return cs.store.Create(transcript.DeriveTitle(request.Prompt)).ID
}

func (cs *chatService) publishJob(job generationJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return cs.pubSub.Publish(cs.topicName, message.NewMessage(watermill.NewUUID(), payload))
}

// --- Edit path ---

func (cs *chatService) BeginEdit(_ context.Context, request *dto.BeginEditRequest) (*dto.BeginEditResponse, error) {
	staged, err := cs.flow.Begin(request.SessionId, request.Index)
	if err != nil {
		return nil, err
	}
	return &dto.BeginEditResponse{Staged: staged}, nil
}

func (cs *chatService) CancelEdit(_ context.Context) {
	cs.flow.Cancel()
}

// CommitEdit resolves the active cursor: replace-and-truncate, then exactly
// one regeneration for the edited prompt. Without a cursor (or with a stale
// one) the text degrades to an ordinary new-message submission.
func (cs *chatService) CommitEdit(ctx context.Context, request *dto.CommitEditRequest) (*dto.SendChatResponse, error) {
	commit, err := cs.flow.CommitText(request.Prompt)
	if err != nil || !commit.Replaced {
		return cs.send(ctx, &dto.SendChatRequest{Prompt: request.Prompt, Model: request.Model}, "", nil)
	}

	if pubErr := cs.publishJob(generationJob{
		SessionId: commit.SessionID,
		Prompt:    request.Prompt,
		Model:     request.Model,
	}); pubErr != nil {
		session, _ := cs.store.Append(commit.SessionID, transcript.NewBotError("Error: "+pubErr.Error()))
		return &dto.SendChatResponse{Session: session, Pending: false}, nil
	}

	return &dto.SendChatResponse{Session: commit.Session, Pending: true}, nil
}

// --- Export ---

func (cs *chatService) ExportTable(_ context.Context, sessionId uuid.UUID, index int) (tabular.Artifact, error) {
	session, ok := cs.store.Get(sessionId)
	if !ok {
		return tabular.Artifact{}, fmt.Errorf("session not found")
	}
	if index < 0 || index >= len(session.Messages) {
		return tabular.Artifact{}, fmt.Errorf("message index out of range")
	}
	msg := session.Messages[index]
	if msg.Kind != transcript.KindTable || msg.Table == nil {
		return tabular.Artifact{}, ErrNotATable
	}
	return tabular.Export(*msg.Table, fmt.Sprintf("table_%d", index)), nil
}

// --- Dictation ---

// StartDictation toggles the shared listening resource: starting while
// already listening stops the active session instead.
func (cs *chatService) StartDictation(_ context.Context) *dto.DictationResponse {
	started := cs.dictation.Start()
	return &dto.DictationResponse{Listening: started}
}

// Dictate completes a dictation turn. Failures become transcript entries in
// the current (or a newly created) session, never bare errors to the caller.
func (cs *chatService) Dictate(ctx context.Context, filename string, audio []byte) (*dto.DictationResponse, error) {
	text, err := cs.dictation.Finish(ctx, filename, audio)
	if err != nil {
		cs.surfaceError("Error: " + err.Error())
		return &dto.DictationResponse{Listening: false}, nil
	}
	return &dto.DictationResponse{Transcript: text, Listening: false}, nil
}

// surfaceError appends a visible error entry to the current session,
// creating one when none is active.
func (cs *chatService) surfaceError(text string) {
	current, ok := cs.store.Current()
	if !ok {
		current = cs.store.Create("New chat")
	}
	cs.store.Append(current.ID, transcript.NewBotError(text))
}
