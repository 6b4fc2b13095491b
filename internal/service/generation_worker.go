package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"llama-chat-be/internal/pkg/logger"
	"llama-chat-be/pkg/llm"
	"llama-chat-be/pkg/transcript"
)

// generationJob is the payload carried across the async suspension point
// between the send path and the generation completion.
type generationJob struct {
	SessionId uuid.UUID `json:"session_id"`
	Prompt    string    `json:"prompt"`
	Model     string    `json:"model,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	File      []byte    `json:"file,omitempty"`
}

type IGenerationWorker interface {
	Consume(ctx context.Context) error
}

// generationWorker resolves pending generation jobs: it calls the provider,
// classifies the reply, and appends it by session id. The append-by-id
// lookup at completion time is what lets a deleted session silently discard
// its in-flight response.
type generationWorker struct {
	pubSub    *gochannel.GoChannel
	topicName string
	store     *transcript.Store
	provider  llm.Provider
	logger    logger.ILogger
}

func NewGenerationWorker(
	pubSub *gochannel.GoChannel,
	topicName string,
	store *transcript.Store,
	provider llm.Provider,
	sysLogger logger.ILogger,
) IGenerationWorker {
	return &generationWorker{
		pubSub:    pubSub,
		topicName: topicName,
		store:     store,
		provider:  provider,
		logger:    sysLogger,
	}
}

func (gw *generationWorker) Consume(ctx context.Context) error {
	messages, err := gw.pubSub.Subscribe(ctx, gw.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			gw.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (gw *generationWorker) processMessage(ctx context.Context, msg *message.Message) {
	// Ack unconditionally: every outcome, including failure, is surfaced in
	// the transcript, so a redelivery would only duplicate it.
	defer msg.Ack()

	var job generationJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		gw.logger.Error("generation", "failed to unmarshal job", map[string]interface{}{"error": err.Error()})
		return
	}

	var opts []llm.Option
	if job.Model != "" {
		opts = append(opts, llm.WithModel(job.Model))
	}
	if len(job.File) > 0 {
		opts = append(opts, llm.WithAttachment(job.Filename, job.File))
	}

	raw, err := gw.provider.Generate(ctx, job.Prompt, opts...)

	var reply transcript.Message
	if err != nil {
		reply = botErrorMessage(err)
	} else {
		reply = transcript.NewBotReply(raw)
	}

	if _, ok := gw.store.Append(job.SessionId, reply); !ok {
		gw.logger.Info("generation", "response discarded, session gone", map[string]interface{}{
			"session_id": job.SessionId.String(),
		})
	}
}

// botErrorMessage maps the failure taxonomy onto transcript entries: a
// semantic failure shows the server's own error string, a transport failure
// gets the "Error:" prefix.
func botErrorMessage(err error) transcript.Message {
	var semErr *llm.SemanticError
	if errors.As(err, &semErr) {
		return transcript.NewBotError(semErr.Reason)
	}
	return transcript.NewBotError("Error: " + err.Error())
}
