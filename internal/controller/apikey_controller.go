package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/serverutils"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

type IAPIKeyController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
}

type apiKeyController struct {
	apiKeyService service.IAPIKeyService
}

func NewAPIKeyController(apiKeyService service.IAPIKeyService) IAPIKeyController {
	return &apiKeyController{apiKeyService: apiKeyService}
}

func (c *apiKeyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/apikey/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Save)
	h.Get("", c.List)
	h.Post(":provider/verify", c.Verify)
	h.Delete(":provider", c.Delete)
}

func (c *apiKeyController) Save(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	var req dto.SaveAPIKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.apiKeyService.Save(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save api key", res))
}

func (c *apiKeyController) List(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	res, err := c.apiKeyService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list api keys", res))
}

func (c *apiKeyController) Verify(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	provider := ctx.Params("provider")
	if provider == "" {
		return chat.NewStatusError(400, "provider is required")
	}

	if err := c.apiKeyService.Verify(ctx.Context(), userId, provider); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("API key verified", nil))
}

func (c *apiKeyController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserID(ctx)

	provider := ctx.Params("provider")
	if provider == "" {
		return chat.NewStatusError(400, "provider is required")
	}

	if err := c.apiKeyService.Delete(ctx.Context(), userId, provider); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete api key", nil))
}
