package controller

import (
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/constant"
	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/serverutils"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/internal/websocket"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	Models(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	hub         *websocket.Hub
}

func NewChatController(chatService service.IChatService, hub *websocket.Hub) IChatController {
	return &chatController{
		chatService: chatService,
		hub:         hub,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Get("models", c.Models)

	h.Use(serverutils.JwtMiddleware)
	h.Post("send", c.Send)
	h.Post("stop", c.Stop)

	// Socket upgrade. The JWT middleware above already stashed user_id in
	// locals; the upgrade handler picks it up from there.
	h.Use("ws", func(ctx *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	h.Get("ws", fiberws.New(func(conn *fiberws.Conn) {
		userIdStr, _ := conn.Locals("user_id").(string)
		userId, err := uuid.Parse(userIdStr)
		if err != nil {
			conn.Close()
			return
		}
		websocket.ServeWs(c.hub, conn, userId)
	}))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Send(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

// Stop is the HTTP fallback for clients without a live socket.
func (c *chatController) Stop(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	var req dto.StopCommand
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	c.chatService.Stop(userId, req.ConversationId)
	return ctx.JSON(serverutils.SuccessResponse[any]("Stop requested", nil))
}

func (c *chatController) Models(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list models", constant.Models))
}
