package controller

import (
	"errors"

	"wtf2eat-be/internal/dto"
	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/pkg/serverutils"
	"wtf2eat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultSearchLimit = 9

type IPreferenceController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type preferenceController struct {
	service service.IPreferenceService
	auth    fiber.Handler
}

func NewPreferenceController(service service.IPreferenceService, auth fiber.Handler) IPreferenceController {
	return &preferenceController{service: service, auth: auth}
}

func (c *preferenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/preferences")
	h.Use(c.auth)
	h.Get("", c.List)
	h.Get("search", c.Search)
	h.Delete(":id", c.Delete)
}

func (c *preferenceController) List(ctx *fiber.Ctx) error {
	prefs, err := c.service.List(ctx.UserContext(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}

	res := make([]dto.PreferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		res = append(res, toPreferenceResponse(p))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get preferences", res))
}

func (c *preferenceController) Search(ctx *fiber.Ctx) error {
	q := ctx.Query("q")
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}
	limit := ctx.QueryInt("limit", defaultSearchLimit)
	if limit <= 0 || limit > 50 {
		limit = defaultSearchLimit
	}

	hits, err := c.service.Search(ctx.UserContext(), serverutils.UserId(ctx), q, limit)
	if err != nil {
		return err
	}

	res := make([]dto.ScoredPreferenceResponse, 0, len(hits))
	for _, h := range hits {
		res = append(res, dto.ScoredPreferenceResponse{
			PreferenceResponse: toPreferenceResponse(h.Preference),
			Score:              h.Score,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search preferences", res))
}

func (c *preferenceController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid preference id")
	}

	err = c.service.Delete(ctx.UserContext(), serverutils.UserId(ctx), id)
	if errors.Is(err, service.ErrPreferenceNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete preference", nil))
}

func toPreferenceResponse(p *entity.Preference) dto.PreferenceResponse {
	return dto.PreferenceResponse{Id: p.Id, Text: p.Text, CreatedAt: p.CreatedAt}
}
