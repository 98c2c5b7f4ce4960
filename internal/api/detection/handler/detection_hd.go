package detectionHandler

import (
	"Perception/internal/api/detection"
	contextPkg "Perception/pkg/context"
	"Perception/pkg/handlerUtil"
	jwtPkg "Perception/pkg/jwt"
	"Perception/pkg/log"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const defaultConfidence = 0.5

func (h *DetectionHandler) HandleListSources(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.detectionService.ListSources())
}

func (h *DetectionHandler) HandleSampleImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.detectionService.SampleImage(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "sample_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *DetectionHandler) HandleDetectImage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.Handle(ctx, requestID, detection.ErrInvalidImage, ctx.Path(), "read_form_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing image detection request")

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	confidence := defaultConfidence
	if raw := ctx.FormValue("confidence"); raw != "" {
		confidence, err = strconv.ParseFloat(raw, 64)
		if err != nil || confidence <= 0 || confidence > 1 {
			return errHandler.Handle(ctx, requestID, detection.ErrInvalidImage, ctx.Path(), "parse_confidence")
		}
	}

	fileContent, err := file.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
	}
	defer fileContent.Close()

	imageData, err := io.ReadAll(fileContent)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
	}

	res, err := h.detectionService.DetectImage(c, userData.Username, imageData, confidence)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect_image")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"detections": len(res.Detections),
		}).Info("Image detection successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
