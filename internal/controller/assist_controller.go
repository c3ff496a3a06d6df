package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/serverutils"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
)

type IAssistController interface {
	RegisterRoutes(r fiber.Router)
	SuggestTitle(ctx *fiber.Ctx) error
	EnhancePrompt(ctx *fiber.Ctx) error
}

type assistController struct {
	assistService service.IAssistService
}

func NewAssistController(assistService service.IAssistService) IAssistController {
	return &assistController{assistService: assistService}
}

func (c *assistController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assist/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("title-suggestion", c.SuggestTitle)
	h.Post("enhance-prompt", c.EnhancePrompt)
}

func (c *assistController) SuggestTitle(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	var req dto.TitleSuggestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistService.SuggestTitle(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success suggest title", res))
}

func (c *assistController) EnhancePrompt(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	var req dto.EnhancePromptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistService.EnhancePrompt(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success enhance prompt", res))
}
