package yolo

import (
	"Perception/internal/entity"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// IModel is the client side of the inference service. The service answers
// requests in order on a single socket, so Predict holds the connection
// mutex for the whole request/response roundtrip; concurrent callers are
// serialized and never interleave writes or reads.
type IModel interface {
	Predict(frame []byte, confidence float64) ([]entity.Detection, error)
	IsConnected() bool
	Reconnect() error
	CloseConnection()
}

type modelClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	weightsPath  string
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

type predictRequest struct {
	Confidence float64 `json:"confidence"`
	FrameSize  int     `json:"frame_size"`
}

type loadRequest struct {
	Weights string `json:"weights"`
}

type predictResponse struct {
	Detections []struct {
		BBox  []float64 `json:"bbox"`
		Label string    `json:"label"`
		Score float64   `json:"score"`
	} `json:"detections"`
	Error string `json:"error,omitempty"`
}

func NewModelClient(weightsPath string) IModel {
	client := &modelClient{
		weightsPath:  weightsPath,
		pingInterval: 30 * time.Second,
		readTimeout:  30 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground()

	return client
}

func (c *modelClient) connectInBackground() {
	if err := c.Reconnect(); err != nil {
		log.Printf("Initial connection to inference service failed: %v. Will retry on demand.", err)
	} else {
		log.Printf("Successfully connected to inference service")
	}
}

func (c *modelClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

func (c *modelClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reconnectLocked()
}

func (c *modelClient) reconnectLocked() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("MODEL_WS_URL")
	if url == "" {
		url = "ws://localhost:8000/api/v1/detect/ws"
	}

	log.Printf("Connecting to inference service at %s", url)

	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	// Ask the service to load our weights before any frames arrive. The
	// service keeps the model resident, so this is a no-op after the first
	// connection.
	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := conn.WriteJSON(loadRequest{Weights: c.weightsPath}); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send load request: %w", err)
	}
	conn.SetWriteDeadline(time.Time{})

	c.conn = conn

	go c.keepAlive()

	return nil
}

func (c *modelClient) CloseConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *modelClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn

		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)

		if err != nil {
			log.Printf("Ping to inference service failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// Predict keeps the mutex for the full roundtrip. Releasing it between the
// request and the response would let a second caller read this caller's
// frames off the shared connection.
func (c *modelClient) Predict(frame []byte, confidence float64) ([]entity.Detection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.reconnectLocked(); err != nil {
			return nil, fmt.Errorf("cannot connect to inference service: %w", err)
		}
	}
	conn := c.conn

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

	if err := conn.WriteJSON(predictRequest{Confidence: confidence, FrameSize: len(frame)}); err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error sending predict request: %w", err)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error reading inference response: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	var result predictResponse
	if err := json.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling inference response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("inference service error: %s", result.Error)
	}

	detections := make([]entity.Detection, 0, len(result.Detections))
	for _, d := range result.Detections {
		if len(d.BBox) != 4 {
			continue
		}
		detections = append(detections, entity.Detection{
			Box: entity.Box{
				X1: int(d.BBox[0]),
				Y1: int(d.BBox[1]),
				X2: int(d.BBox[2]),
				Y2: int(d.BBox[3]),
			},
			Label: d.Label,
			Score: d.Score,
		})
	}

	return detections, nil
}
