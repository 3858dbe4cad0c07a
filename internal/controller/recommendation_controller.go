package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"wtf2eat-be/internal/dto"
	"wtf2eat-be/internal/pkg/serverutils"
	"wtf2eat-be/internal/service"
	"wtf2eat-be/pkg/ai/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IRecommendationController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type recommendationController struct {
	service service.IRecommendationService
	auth    fiber.Handler
}

func NewRecommendationController(service service.IRecommendationService, auth fiber.Handler) IRecommendationController {
	return &recommendationController{service: service, auth: auth}
}

func (c *recommendationController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate", c.auth, c.Generate)
}

// Generate streams the run as server-sent events, one "data:" line per event.
func (c *recommendationController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	userId := serverutils.UserId(ctx)

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber context is recycled once the handler returns; the run is
	// bound to the stream writer instead.
	runCtx, cancel := context.WithCancel(context.Background())
	events := c.service.Generate(runCtx, userId, req)

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for e := range events {
			if err := writeEvent(w, e); err != nil {
				// client went away
				return
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, e pipeline.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
