package detectionHandler

import (
	"Perception/internal/api/detection"
	"Perception/internal/entity"
	"Perception/internal/media"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

func (h *DetectionHandler) handleStreamWebSocket(c *websocket.Conn) {
	h.log.Info("Detection stream WebSocket client connected")
	defer h.log.Info("Detection stream WebSocket client disconnected")

	userData, ok := c.Locals("user").(entity.UserLoginData)
	if !ok {
		_ = c.WriteJSON(map[string]string{"error": "unauthorized"})
		return
	}

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	var req detection.StreamRequest
	if err := c.SetReadDeadline(time.Now().Add(30 * time.Second)); err != nil {
		h.log.Errorf("Error setting read deadline: %v", err)
		return
	}
	if err := c.ReadJSON(&req); err != nil {
		h.log.Errorf("Error reading stream request: %v", err)
		_ = c.WriteJSON(map[string]string{"error": "invalid stream request"})
		return
	}
	if err := c.SetReadDeadline(time.Time{}); err != nil {
		h.log.Errorf("Error resetting read deadline: %v", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.log.Errorf("Invalid stream request: %v", err)
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := media.Open(ctx, streamConfig(req))
	if err != nil {
		h.log.Errorf("Error opening media source: %v", err)
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	// Any further client message, including a close frame, ends the stream.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	err = h.detectionService.StreamDetections(ctx, userData.Username, src, req.Confidence, func(frame detection.StreamFrame) error {
		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			return err
		}
		return c.WriteJSON(frame)
	})
	if err != nil && ctx.Err() == nil {
		h.log.Errorf("Detection stream ended with error: %v", err)
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
	}
}

func streamConfig(req detection.StreamRequest) media.Config {
	cfg := media.Config{
		Preset:      req.Preset,
		DeviceIndex: req.DeviceIndex,
		URL:         req.URL,
	}

	switch req.Source {
	case detection.VideoSource:
		cfg.Kind = media.KindVideo
	case detection.WebcamSource:
		cfg.Kind = media.KindWebcam
	case detection.YouTubeSource:
		cfg.Kind = media.KindYouTube
	}

	return cfg
}
