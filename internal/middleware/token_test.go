package middleware

import (
	"Perception/internal/entity"
	jwtPkg "Perception/pkg/jwt"
	"Perception/pkg/redis"
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]entity.Session)}
}

func (f *fakeSessionStore) SetSession(_ context.Context, session entity.Session, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, id string) (entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return entity.Session{}, redis.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func newProtectedApp(t *testing.T, store redis.IRedis) *fiber.App {
	t.Helper()

	mw := New(logrus.New(), store)

	app := fiber.New()
	app.Get("/detect/sources", mw.NewTokenMiddleware, func(ctx *fiber.Ctx) error {
		user, ok := ctx.Locals("user").(entity.UserLoginData)
		if !ok {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}
		return ctx.JSON(fiber.Map{"username": user.Username})
	})

	return app
}

func signInSession(t *testing.T, store redis.IRedis, username string) (string, string) {
	t.Helper()

	session := entity.Session{
		ID:        "01K3TESTSESSION00000000000",
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.SetSession(context.Background(), session, time.Hour))

	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"username":   username,
		"session_id": session.ID,
	}, time.Hour)
	require.NoError(t, err)

	return token, session.ID
}

func TestTokenMiddleware_RejectsAfterLogout(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "middleware-test-secret")

	store := newFakeSessionStore()
	app := newProtectedApp(t, store)
	token, sessionID := signInSession(t, store, "alice")

	req := httptest.NewRequest(fiber.MethodGet, "/detect/sources", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Logout deletes the session; the still-unexpired token must stop working.
	require.NoError(t, store.DeleteSession(context.Background(), sessionID))

	req = httptest.NewRequest(fiber.MethodGet, "/detect/sources", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTokenMiddleware_MissingToken(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "middleware-test-secret")

	app := newProtectedApp(t, newFakeSessionStore())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/detect/sources", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTokenMiddleware_QueryParameterToken(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "middleware-test-secret")

	store := newFakeSessionStore()
	app := newProtectedApp(t, store)
	token, _ := signInSession(t, store, "alice")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/detect/sources?access_token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
