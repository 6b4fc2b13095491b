package controller

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"llama-chat-be/internal/dto"
	"llama-chat-be/internal/pkg/serverutils"
	"llama-chat-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authGuard fiber.Handler)
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authGuard fiber.Handler) {
	h := r.Group("/chat", authGuard)

	h.Post("/send", c.Send)

	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions", c.GetSessions)
	h.Get("/sessions/grouped", c.GetGroupedSessions)
	h.Get("/sessions/:id", c.GetSession)
	h.Post("/sessions/:id/select", c.SelectSession)
	h.Patch("/sessions/:id/title", c.RenameSession)
	h.Delete("/sessions/:id", c.DeleteSession)
	h.Get("/sessions/:id/messages/:index/export", c.ExportTable)

	h.Post("/edit/begin", c.BeginEdit)
	h.Post("/edit/cancel", c.CancelEdit)
	h.Post("/edit/commit", c.CommitEdit)

	h.Post("/dictation/start", c.StartDictation)
	h.Post("/dictation", c.Dictate)
}

// Send accepts either a JSON body or, on the attachment path, multipart
// form data with a "file" field plus the same fields as form values.
func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	var filename string
	var data []byte

	if fileHeader, err := ctx.FormFile("file"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return badRequest(ctx, "unable to read uploaded file")
		}
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			return badRequest(ctx, "unable to read uploaded file")
		}
		filename = fileHeader.Filename

		req.Prompt = ctx.FormValue("prompt")
		req.Model = ctx.FormValue("model")
		if raw := ctx.FormValue("session_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return badRequest(ctx, "invalid session id")
			}
			req.SessionId = &id
		}
	} else if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	var res *dto.SendChatResponse
	var err error
	if data != nil {
		res, err = c.service.SendChatWithFile(ctx.Context(), &req, filename, data)
	} else {
		res, err = c.service.SendChat(ctx.Context(), &req)
	}
	if err != nil {
		return err
	}
	return ok(ctx, "Message sent", res)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	// Body is optional; an empty one creates an untitled session.
	_ = ctx.BodyParser(&req)

	session := c.service.CreateSession(ctx.Context(), req.Title)
	return ok(ctx, "Session created", session)
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	return ok(ctx, "Sessions", c.service.GetSessions(ctx.Context()))
}

func (c *chatController) GetGroupedSessions(ctx *fiber.Ctx) error {
	return ok(ctx, "Sessions by period", c.service.GetGroupedSessions(ctx.Context()))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}
	session, found := c.service.GetSession(ctx.Context(), id)
	if !found {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": "session not found",
		})
	}
	return ok(ctx, "Session", session)
}

func (c *chatController) SelectSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}
	// Selection misses are silently ignored; navigation must not error.
	c.service.SelectSession(ctx.Context(), id)
	return ok(ctx, "Session selected", nil)
}

func (c *chatController) RenameSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}
	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}
	c.service.RenameSession(ctx.Context(), id, req.Title)
	return ok(ctx, "Session renamed", nil)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}
	c.service.DeleteSession(ctx.Context(), id)
	return ok(ctx, "Session deleted", nil)
}

func (c *chatController) ExportTable(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}
	index, err := strconv.Atoi(ctx.Params("index"))
	if err != nil {
		return badRequest(ctx, "invalid message index")
	}

	artifact, err := c.service.ExportTable(ctx.Context(), id, index)
	if err != nil {
		if errors.Is(err, service.ErrNotATable) {
			return badRequest(ctx, err.Error())
		}
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": err.Error(),
		})
	}

	ctx.Set(fiber.HeaderContentType, artifact.MIME)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+artifact.Name+`"`)
	return ctx.Send(artifact.Data)
}

func (c *chatController) BeginEdit(ctx *fiber.Ctx) error {
	var req dto.BeginEditRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}
	res, err := c.service.BeginEdit(ctx.Context(), &req)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return ok(ctx, "Editing", res)
}

func (c *chatController) CancelEdit(ctx *fiber.Ctx) error {
	c.service.CancelEdit(ctx.Context())
	return ok(ctx, "Edit cancelled", nil)
}

func (c *chatController) CommitEdit(ctx *fiber.Ctx) error {
	var req dto.CommitEditRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}
	res, err := c.service.CommitEdit(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ok(ctx, "Edit committed", res)
}

func (c *chatController) StartDictation(ctx *fiber.Ctx) error {
	return ok(ctx, "Dictation", c.service.StartDictation(ctx.Context()))
}

func (c *chatController) Dictate(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return badRequest(ctx, "missing audio field")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(ctx, "unable to read audio")
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil {
		return badRequest(ctx, "unable to read audio")
	}

	res, err := c.service.Dictate(ctx.Context(), fileHeader.Filename, audio)
	if err != nil {
		return err
	}
	return ok(ctx, "Dictation finished", res)
}

// --- Envelope helpers ---

func ok(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": message,
		"data":    data,
	})
}

func badRequest(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    400,
		"message": message,
	})
}
