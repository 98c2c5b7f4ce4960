package yolo

import (
	"Perception/internal/entity"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeInferenceService answers each predict request with a single
// detection whose score echoes the request's confidence, so a caller can
// tell whether it received its own response or another caller's.
func newFakeInferenceService(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var load loadRequest
		if err := conn.ReadJSON(&load); err != nil {
			return
		}

		for {
			var req predictRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}

			// Widen the window between request and response so interleaved
			// callers would collide.
			time.Sleep(20 * time.Millisecond)

			body := fmt.Sprintf(`{"detections":[{"bbox":[1,2,3,4],"label":"object","score":%g}]}`, req.Confidence)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(body)); err != nil {
				return
			}
		}
	}))

	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *modelClient {
	t.Helper()
	t.Setenv("MODEL_WS_URL", "ws"+strings.TrimPrefix(srv.URL, "http"))

	client := &modelClient{
		weightsPath:  "weights/test.pt",
		pingInterval: time.Minute,
		readTimeout:  5 * time.Second,
		writeTimeout: 5 * time.Second,
	}
	require.NoError(t, client.Reconnect())
	t.Cleanup(client.CloseConnection)

	return client
}

func TestPredict_RoundTrip(t *testing.T) {
	client := newTestClient(t, newFakeInferenceService(t))

	detections, err := client.Predict([]byte("frame"), 0.5)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, "object", detections[0].Label)
	assert.Equal(t, 0.5, detections[0].Score)
	assert.Equal(t, entity.Box{X1: 1, Y1: 2, X2: 3, Y2: 4}, detections[0].Box)
}

func TestPredict_ConcurrentCallersGetOwnResponses(t *testing.T) {
	client := newTestClient(t, newFakeInferenceService(t))

	confidences := []float64{0.25, 0.75, 0.4, 0.6}
	scores := make([]float64, len(confidences))
	errs := make([]error, len(confidences))

	var wg sync.WaitGroup
	for i, confidence := range confidences {
		wg.Add(1)
		go func(i int, confidence float64) {
			defer wg.Done()
			detections, err := client.Predict([]byte("frame"), confidence)
			errs[i] = err
			if err == nil && len(detections) == 1 {
				scores[i] = detections[0].Score
			}
		}(i, confidence)
	}
	wg.Wait()

	for i, confidence := range confidences {
		require.NoError(t, errs[i])
		assert.Equal(t, confidence, scores[i])
	}
}

func TestPredict_ReconnectsOnDemand(t *testing.T) {
	srv := newFakeInferenceService(t)
	t.Setenv("MODEL_WS_URL", "ws"+strings.TrimPrefix(srv.URL, "http"))

	client := &modelClient{
		weightsPath:  "weights/test.pt",
		pingInterval: time.Minute,
		readTimeout:  5 * time.Second,
		writeTimeout: 5 * time.Second,
	}
	t.Cleanup(client.CloseConnection)

	assert.False(t, client.IsConnected())

	detections, err := client.Predict([]byte("frame"), 0.3)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.True(t, client.IsConnected())
}
