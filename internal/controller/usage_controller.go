package controller

import (
	"wtf2eat-be/internal/pkg/serverutils"
	"wtf2eat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUsageController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
}

type usageController struct {
	service service.IActivityService
	auth    fiber.Handler
}

func NewUsageController(service service.IActivityService, auth fiber.Handler) IUsageController {
	return &usageController{service: service, auth: auth}
}

func (c *usageController) RegisterRoutes(r fiber.Router) {
	r.Get("/usage", c.auth, c.Get)
}

func (c *usageController) Get(ctx *fiber.Ctx) error {
	res, err := c.service.Usage(ctx.UserContext(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get usage", res))
}
