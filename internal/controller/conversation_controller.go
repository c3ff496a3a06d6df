package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/serverutils"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpdateTitle(ctx *fiber.Ctx) error
	ReplaceMessages(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	DeleteMany(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
	exportService       service.IExportService
	publisherService    service.IPublisherService
}

func NewConversationController(
	conversationService service.IConversationService,
	exportService service.IExportService,
	publisherService service.IPublisherService,
) IConversationController {
	return &conversationController{
		conversationService: conversationService,
		exportService:       exportService,
		publisherService:    publisherService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	// Preview is the public share-link surface; it stays ahead of the
	// auth middleware.
	h.Get(":id/preview", c.Preview)
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Post("delete-many", c.DeleteMany)
	h.Get(":id", c.Show)
	h.Put(":id/title", c.UpdateTitle)
	h.Put(":id/messages", c.ReplaceMessages)
	h.Post(":id/export", c.Export)
	h.Delete(":id", c.Delete)
}

func (c *conversationController) Create(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	var req dto.CreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create conversation", res))
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	res, err := c.conversationService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return chat.NewStatusError(400, "invalid conversation id")
	}

	res, err := c.conversationService.Get(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *conversationController) UpdateTitle(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return chat.NewStatusError(400, "invalid conversation id")
	}

	var req dto.UpdateTitleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.conversationService.UpdateTitle(ctx.Context(), userId, id, req.Title); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update title", nil))
}

func (c *conversationController) ReplaceMessages(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return chat.NewStatusError(400, "invalid conversation id")
	}

	var req dto.ReplaceMessagesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Snapshots are persisted by the background worker; the client gets
	// an immediate ack and retries are idempotent replaces.
	err = c.publisherService.PublishPersistMessages(ctx.Context(), dto.PersistMessagesMessage{
		UserId:         userId,
		ConversationId: id,
		Messages:       req.Messages,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Messages queued for persistence", nil))
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return chat.NewStatusError(400, "invalid conversation id")
	}

	if err := c.conversationService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversation", nil))
}

func (c *conversationController) DeleteMany(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	var req dto.DeleteManyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(req.Ids))
	for _, raw := range req.Ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return chat.NewStatusError(400, "invalid conversation id")
		}
		ids = append(ids, id)
	}

	if err := c.conversationService.DeleteMany(ctx.Context(), userId, ids); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversations", nil))
}

func (c *conversationController) Preview(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return chat.NewStatusError(400, "invalid conversation id")
	}

	res, err := c.conversationService.Preview(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show preview", res))
}

func (c *conversationController) Export(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return chat.NewStatusError(400, "invalid conversation id")
	}

	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.exportService.ExportToEmail(ctx.Context(), userId, id, req.Email); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Export email sent", dto.ExportResponse{
		ConversationId: id.String(),
		SentTo:         req.Email,
	}))
}
