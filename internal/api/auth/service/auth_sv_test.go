package authService

import (
	"Perception/database/sqlite"
	"Perception/internal/api/auth"
	authRepository "Perception/internal/api/auth/repository"
	"Perception/internal/entity"
	"Perception/pkg/bcrypt"
	"Perception/pkg/redis"
	"Perception/pkg/utils"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{sessions: make(map[string]entity.Session)}
}

func (f *fakeRedis) SetSession(_ context.Context, session entity.Session, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeRedis) GetSession(_ context.Context, id string) (entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return entity.Session{}, redis.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeRedis) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func newTestService(t *testing.T) (AuthService, *fakeRedis, authRepository.Repository) {
	t.Helper()
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	db, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	repo := authRepository.New(db, logger)
	redisServer := newFakeRedis()

	svc := New(logger, repo, redisServer, bcrypt.NewWithCost(4), utils.New())
	return svc, redisServer, repo
}

func TestRegisterUser_HashesPassword(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()

	err := svc.User().RegisterUser(ctx, auth.CreateUserRequest{Username: "alice", Password: "secret-password"})
	require.NoError(t, err)

	client, err := repo.NewClient(false)
	require.NoError(t, err)

	user, err := client.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", user.Password)
	assert.NoError(t, bcrypt.New().ComparePassword(user.Password, "secret-password"))
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := auth.CreateUserRequest{Username: "alice", Password: "secret-password"}
	require.NoError(t, svc.User().RegisterUser(ctx, req))

	err := svc.User().RegisterUser(ctx, req)
	require.ErrorIs(t, err, auth.ErrUsernameAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	svc, redisServer, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.User().RegisterUser(ctx, auth.CreateUserRequest{Username: "alice", Password: "secret-password"}))

	res, err := svc.Auth().Login(ctx, auth.LoginUserRequest{Username: "alice", Password: "secret-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Greater(t, res.ExpiresInMinutes, 0.0)

	require.Len(t, redisServer.sessions, 1)
	for _, session := range redisServer.sessions {
		assert.Equal(t, "alice", session.Username)
	}

	client, err := repo.NewClient(false)
	require.NoError(t, err)
	activities, err := client.Activities.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "User logged in", activities[0].Activity)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, redisServer, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.User().RegisterUser(ctx, auth.CreateUserRequest{Username: "alice", Password: "secret-password"}))

	_, err := svc.Auth().Login(ctx, auth.LoginUserRequest{Username: "alice", Password: "wrong-password"})
	require.ErrorIs(t, err, auth.ErrInvalidUsernameOrPassword)
	assert.Empty(t, redisServer.sessions)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Auth().Login(context.Background(), auth.LoginUserRequest{Username: "nobody", Password: "whatever"})
	require.ErrorIs(t, err, auth.ErrInvalidUsernameOrPassword)
}

func TestLogin_ActivityWriteFailureLeavesNoSession(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	db, err := sqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	repo := authRepository.New(db, logger)
	redisServer := newFakeRedis()
	svc := New(logger, repo, redisServer, bcrypt.NewWithCost(4), utils.New())

	ctx := context.Background()
	require.NoError(t, svc.User().RegisterUser(ctx, auth.CreateUserRequest{Username: "alice", Password: "secret-password"}))

	// Break the activity log so the write after session creation fails.
	_, err = db.Exec("DROP TABLE activity_logs")
	require.NoError(t, err)

	_, err = svc.Auth().Login(ctx, auth.LoginUserRequest{Username: "alice", Password: "secret-password"})
	require.Error(t, err)
	assert.Empty(t, redisServer.sessions)
}

func TestLogout_DeletesSession(t *testing.T) {
	svc, redisServer, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.User().RegisterUser(ctx, auth.CreateUserRequest{Username: "alice", Password: "secret-password"}))

	_, err := svc.Auth().Login(ctx, auth.LoginUserRequest{Username: "alice", Password: "secret-password"})
	require.NoError(t, err)
	require.Len(t, redisServer.sessions, 1)

	var sessionID string
	for id := range redisServer.sessions {
		sessionID = id
	}

	require.NoError(t, svc.Auth().Logout(ctx, sessionID))
	assert.Empty(t, redisServer.sessions)

	_, err = redisServer.GetSession(ctx, sessionID)
	require.ErrorIs(t, err, redis.ErrSessionNotFound)
}

func TestGetActivities_OnlyOwnEntries(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Activity().RecordActivity(ctx, "alice", "User logged in"))
	require.NoError(t, svc.Activity().RecordActivity(ctx, "bob", "User logged in"))
	require.NoError(t, svc.Activity().RecordActivity(ctx, "alice", "Detected objects on image"))

	res, err := svc.Activity().GetActivities(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, res.Activities, 2)
	assert.Equal(t, "User logged in", res.Activities[0].Activity)
	assert.Equal(t, "Detected objects on image", res.Activities[1].Activity)
}
