package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/forms"
	"github.com/user/tareas-go/users"
)

type recordingNotifier struct {
	mu    sync.Mutex
	users []*users.User
}

func (n *recordingNotifier) EnqueueWelcome(u *users.User) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, u)
	return true
}

type fixture struct {
	gateway  *Gateway
	users    *users.Service
	sessions *MemorySessionStore
	welcome  *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := NewBcryptHasher(bcrypt.MinCost)
	userService := users.NewService(users.NewMemoryRepository(), hasher, logger)
	sessions := NewMemorySessionStore()
	welcome := &recordingNotifier{}

	gw := NewGateway(GatewayDeps{
		Users:      userService,
		Verifier:   hasher,
		Sessions:   sessions,
		Tokens:     NewTokenSigner("test-secret"),
		Validator:  forms.NewValidator(),
		Welcome:    welcome,
		SessionTTL: time.Hour,
		Logger:     logger,
	})
	return &fixture{gateway: gw, users: userService, sessions: sessions, welcome: welcome}
}

func registerForm(username, email string) forms.RegisterForm {
	return forms.RegisterForm{
		Username:        username,
		Email:           email,
		Password:        "pw-1234",
		ConfirmPassword: "pw-1234",
		Accept:          true,
	}
}

func TestGateway_RegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.gateway.Register(ctx, registerForm("alice", "Alice@Example.com"))
	require.NoError(t, err)
	require.NotNil(t, s.Identity)
	assert.Equal(t, "alice", s.Identity.Username)
	assert.NotEmpty(t, s.Token)

	// Registration logs the user in.
	id, err := f.gateway.Load(ctx, s.Token)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, s.Identity.UserID, id.UserID)

	require.Len(t, f.welcome.users, 1)
	assert.Equal(t, "alice@example.com", f.welcome.users[0].Email)

	login, err := f.gateway.Login(ctx, "alice", "pw-1234")
	require.NoError(t, err)
	assert.Equal(t, s.Identity.UserID, login.Identity.UserID)
	assert.NotEqual(t, s.Identity.SessionID, login.Identity.SessionID)
}

func TestGateway_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.gateway.Register(ctx, registerForm("alice", "alice@example.com"))
	require.NoError(t, err)

	_, wrongPassword := f.gateway.Login(ctx, "alice", "nope")
	_, unknownUser := f.gateway.Login(ctx, "bob", "pw-1234")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.True(t, apperror.IsAuthError(wrongPassword))
	assert.True(t, apperror.IsAuthError(unknownUser))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGateway_RegisterDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.gateway.Register(ctx, registerForm("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = f.gateway.Register(ctx, registerForm("alice", "ALICE@example.com"))
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ValidationError, appErr.Type)
	assert.Equal(t, []string{users.UsernameTakenMessage}, appErr.Fields["username"])
	assert.Equal(t, []string{users.EmailTakenMessage}, appErr.Fields["email"])

	// No second welcome mail, no second account.
	assert.Len(t, f.welcome.users, 1)
}

func TestGateway_RegisterInvalidSkipsAvailabilityCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.gateway.Register(ctx, registerForm("alice", "alice@example.com"))
	require.NoError(t, err)

	form := registerForm("codi", "alice@example.com")
	form.ConfirmPassword = "different"
	_, err = f.gateway.Register(ctx, form)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This username is not allowed."}, appErr.Fields["username"])
	assert.Equal(t, []string{users.EmailTakenMessage}, appErr.Fields["email"])
	assert.Equal(t, []string{"Passwords do not match."}, appErr.Fields["password"])
}

func TestGateway_ConcurrentRegistrationsOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.gateway.Register(ctx, registerForm("racer", "racer@example.com"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, apperror.IsValidationError(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)
}

func TestGateway_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.gateway.Register(ctx, registerForm("alice", "alice@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.gateway.Logout(ctx, s.Identity))

	id, err := f.gateway.Load(ctx, s.Token)
	require.NoError(t, err)
	assert.Nil(t, id)

	// Anonymous logout is a no-op.
	assert.NoError(t, f.gateway.Logout(ctx, nil))
}

func TestGateway_LoadIgnoresBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		id, err := f.gateway.Load(ctx, tok)
		assert.NoError(t, err)
		assert.Nil(t, id)
	}

	// A token for a session owned by somebody else is ignored too.
	sid, err := f.sessions.Create(ctx, 99, time.Hour)
	require.NoError(t, err)
	forged, err := NewTokenSigner("test-secret").Sign(sid, 1, time.Hour)
	require.NoError(t, err)
	id, err := f.gateway.Load(ctx, forged)
	assert.NoError(t, err)
	assert.Nil(t, id)
}
