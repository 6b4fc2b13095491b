package bootstrap

import (
	"log"

	"llama-chat-be/internal/config"
	"llama-chat-be/internal/controller"
	"llama-chat-be/internal/pkg/logger"
	"llama-chat-be/internal/repository/memory"
	"llama-chat-be/internal/service"
	"llama-chat-be/pkg/llm/remote"
	"llama-chat-be/pkg/speech"
	"llama-chat-be/pkg/transcript"
	"llama-chat-be/pkg/transcript/editor"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const generationTopic = "generation.jobs"

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	GenerationWorker service.IGenerationWorker
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Core State
	store := transcript.NewStore()
	flow := editor.NewFlow(store)

	// Speech recognizer selection. "none" keeps dictation wired but every
	// transcription attempt reports the capability as unavailable.
	var recognizer speech.Recognizer
	if cfg.Speech.Provider == "http" {
		recognizer = speech.NewHTTPRecognizer(cfg.Speech.BaseURL)
		log.Printf("[INFO] Using Speech Provider: HTTP (%s)", cfg.Speech.BaseURL)
	} else {
		recognizer = speech.Unavailable{}
		log.Printf("[INFO] Speech recognition disabled")
	}
	dictation := speech.NewDictation(recognizer)

	// Generation provider
	llmProvider := remote.NewProvider(
		cfg.Generate.BaseURL,
		cfg.Generate.DefaultModel,
		cfg.Generate.MaxNewTokens,
	)
	log.Printf("[INFO] Using Generation Endpoint: %s (model=%s)", cfg.Generate.BaseURL, cfg.Generate.DefaultModel)

	userRepo := memory.NewUserRepository()

	// 4. Services
	chatService := service.NewChatService(
		store,
		flow,
		dictation,
		pubSub,
		generationTopic,
		sysLogger,
	)
	authService := service.NewAuthService(
		userRepo,
		cfg.Auth.AllowedUsers,
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		sysLogger,
	)
	generationWorker := service.NewGenerationWorker(
		pubSub,
		generationTopic,
		store,
		llmProvider,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		AuthController: controller.NewAuthController(authService),
		ChatController: controller.NewChatController(chatService),

		GenerationWorker: generationWorker,
	}
}
