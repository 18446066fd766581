package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tareas-go/apperror"
)

// reverseHasher is a stand-in for bcrypt; it only has to differ from the plaintext.
type reverseHasher struct{ err error }

func (h reverseHasher) Hash(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	r := []rune(p)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return "hashed:" + string(r), nil
}

func newTestService() *Service {
	return NewService(NewMemoryRepository(), reverseHasher{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreate_StoresHashNotPlaintext(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice", "secret123", "Alice@Example.com")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	got, err := svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", got.PasswordHash)
	assert.Equal(t, "alice@example.com", got.Email)

	byEmail, err := svc.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestCreate_DuplicateIdentifiers(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice", "pw", "other@example.com")
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))

	_, err = svc.Create(ctx, "bob", "pw", "ALICE@example.com")
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))

	_, err = svc.GetByUsername(ctx, "bob")
	assert.True(t, apperror.IsNotFound(err), "no row may be created on conflict")
}

func TestCreate_ConcurrentSameUsername(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, "racer", "pw", "racer@example.com")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsConflictError(err))
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestCreate_HashFailure(t *testing.T) {
	svc := NewService(NewMemoryRepository(), reverseHasher{err: errors.New("boom")}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Create(context.Background(), "alice", "pw", "a@example.com")
	require.Error(t, err)
	ae, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.InternalError, ae.Type)
}

func TestTakenHelpers(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)

	taken, err := svc.UsernameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = svc.UsernameTaken(ctx, "Alice")
	require.NoError(t, err)
	assert.False(t, taken, "usernames are case-sensitive")

	taken, err = svc.EmailTaken(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.True(t, taken)
}
