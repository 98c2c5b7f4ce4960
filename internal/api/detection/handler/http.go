package detectionHandler

import (
	detectionService "Perception/internal/api/detection/service"
	"Perception/internal/middleware"
	"Perception/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
	utils utils.IUtils,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		validator:        validator,
		middleware:       middleware,
		utils:            utils,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	detect := srv.Group("/detect", h.middleware.NewTokenMiddleware)
	detect.Get("/sources", h.HandleListSources)
	detect.Get("/sample", h.HandleSampleImage)
	detect.Post("/image", h.HandleDetectImage)

	detect.Use("/stream/ws", wsMiddleware)
	detect.Get("/stream/ws", websocket.New(h.handleStreamWebSocket))
}
