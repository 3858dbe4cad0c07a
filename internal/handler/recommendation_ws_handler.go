package handler

import (
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/pkg/serverutils"
	internalWS "wtf2eat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RecommendationWsHandler upgrades authenticated requests to a websocket that
// streams recommendation runs and live notifications.
type RecommendationWsHandler struct {
	hub         *internalWS.Hub
	recommender internalWS.Recommender
	auth        fiber.Handler
	logger      logger.ILogger
}

func NewRecommendationWsHandler(hub *internalWS.Hub, recommender internalWS.Recommender, auth fiber.Handler, log logger.ILogger) *RecommendationWsHandler {
	return &RecommendationWsHandler{
		hub:         hub,
		recommender: recommender,
		auth:        auth,
		logger:      log,
	}
}

func (h *RecommendationWsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/recommend", h.auth, h.ServeWs)
}

func (h *RecommendationWsHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID := serverutils.UserId(c)

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("RecommendationWsHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, h.recommender, conn, userID)
		h.logger.Info("RecommendationWsHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}
