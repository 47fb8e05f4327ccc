package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/feature/auth/domain/entity"
)

// fakeSessionRepository is an in-memory SessionRepository.
type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session

	// DeleteExpiredFunc overrides DeleteExpired when set.
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
	// TrimToLimitFunc overrides TrimToLimit when set.
	TrimToLimitFunc func(ctx context.Context, userID string, keep int) (int64, error)
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*entity.Session{}}
}

func (f *fakeSessionRepository) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepository) FindByID(_ context.Context, id string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepository) active(userID string) []*entity.Session {
	var out []*entity.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsValid() {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeSessionRepository) countActive(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.active(userID))
}

func (f *fakeSessionRepository) Revoke(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (f *fakeSessionRepository) RevokeAllByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if f.DeleteExpiredFunc != nil {
		return f.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

func (f *fakeSessionRepository) TrimToLimit(ctx context.Context, userID string, keep int) (int64, error) {
	if f.TrimToLimitFunc != nil {
		return f.TrimToLimitFunc(ctx, userID, keep)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	active := f.active(userID)
	var n int64
	for len(active) > keep {
		delete(f.sessions, active[0].ID)
		active = active[1:]
		n++
	}
	return n, nil
}

// fakeSigner encodes "userID|sessionID" without a signature; "bad" tokens fail.
type fakeSigner struct{}

func (fakeSigner) Sign(userID, sessionID string, _ time.Time) (string, error) {
	return userID + "|" + sessionID, nil
}

func (fakeSigner) Verify(token string) (string, string, error) {
	for i := 0; i < len(token); i++ {
		if token[i] == '|' {
			return token[:i], token[i+1:], nil
		}
	}
	return "", "", errors.New("malformed")
}

func TestNewSessionUsecase_Defaults(t *testing.T) {
	t.Parallel()

	uc := NewSessionUsecase(newFakeSessionRepository(), fakeSigner{}, SessionConfig{})

	assert.Equal(t, 7*24*time.Hour, uc.TTL())
	assert.Equal(t, DefaultMaxSessionsPerUser, uc.max)
}

func TestSessionUsecase_StartAndAuthenticate(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepository()
	uc := NewSessionUsecase(repo, fakeSigner{}, SessionConfig{})

	before := time.Now()
	token, expiresAt, err := uc.Start(context.Background(), "user-1", "agent", "127.0.0.1")
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), expiresAt, time.Second)

	userID, err := uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionUsecase_Authenticate_Failures(t *testing.T) {
	t.Parallel()

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()
		uc := NewSessionUsecase(newFakeSessionRepository(), fakeSigner{}, SessionConfig{})

		_, err := uc.Authenticate(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		uc := NewSessionUsecase(newFakeSessionRepository(), fakeSigner{}, SessionConfig{})

		_, err := uc.Authenticate(context.Background(), "user-1|missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("revoked session", func(t *testing.T) {
		t.Parallel()
		uc := NewSessionUsecase(newFakeSessionRepository(), fakeSigner{}, SessionConfig{})

		token, _, err := uc.Start(context.Background(), "user-1", "", "")
		require.NoError(t, err)
		require.NoError(t, uc.End(context.Background(), token))

		_, err = uc.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, ErrSessionRevoked)
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()
		uc := NewSessionUsecase(newFakeSessionRepository(), fakeSigner{}, SessionConfig{TTL: time.Hour})

		token, _, err := uc.Start(context.Background(), "user-1", "", "")
		require.NoError(t, err)
		uc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err = uc.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("token user does not own the session", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepository()
		uc := NewSessionUsecase(repo, fakeSigner{}, SessionConfig{})

		token, _, err := uc.Start(context.Background(), "user-1", "", "")
		require.NoError(t, err)
		_, sessionID, _ := fakeSigner{}.Verify(token)

		_, err = uc.Authenticate(context.Background(), "user-2|"+sessionID)
		assert.ErrorIs(t, err, ErrInvalidSessionToken)
	})
}

func TestSessionUsecase_EvictsOldest(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepository()
	uc := NewSessionUsecase(repo, fakeSigner{}, SessionConfig{MaxPerUser: 2})

	base := time.Now()
	var tokens []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		uc.now = func() time.Time { return at }
		token, _, err := uc.Start(context.Background(), "user-1", "", "")
		require.NoError(t, err)
		tokens = append(tokens, token)
	}
	uc.now = time.Now

	assert.Equal(t, 2, repo.countActive("user-1"))

	_, err := uc.Authenticate(context.Background(), tokens[0])
	assert.ErrorIs(t, err, ErrSessionNotFound, "oldest session should be evicted")
	_, err = uc.Authenticate(context.Background(), tokens[2])
	assert.NoError(t, err)
}

func TestSessionUsecase_RevokeAll(t *testing.T) {
	t.Parallel()

	uc := NewSessionUsecase(newFakeSessionRepository(), fakeSigner{}, SessionConfig{})
	t1, _, err := uc.Start(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	t2, _, err := uc.Start(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	other, _, err := uc.Start(context.Background(), "user-2", "", "")
	require.NoError(t, err)

	require.NoError(t, uc.RevokeAll(context.Background(), "user-1"))

	_, err = uc.Authenticate(context.Background(), t1)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	_, err = uc.Authenticate(context.Background(), t2)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	_, err = uc.Authenticate(context.Background(), other)
	assert.NoError(t, err)
}

func TestSessionUsecase_Start_TrimsBeforeCreate(t *testing.T) {
	t.Parallel()

	t.Run("leaves room for the new session", func(t *testing.T) {
		t.Parallel()
		repo := newFakeSessionRepository()
		var gotKeep int
		repo.TrimToLimitFunc = func(_ context.Context, userID string, keep int) (int64, error) {
			gotKeep = keep
			return 0, nil
		}
		uc := NewSessionUsecase(repo, fakeSigner{}, SessionConfig{MaxPerUser: 3})

		_, _, err := uc.Start(context.Background(), "user-1", "", "")
		require.NoError(t, err)
		assert.Equal(t, 2, gotKeep)
	})

	t.Run("trim failure creates nothing", func(t *testing.T) {
		t.Parallel()
		trimErr := errors.New("redis down")
		repo := newFakeSessionRepository()
		repo.TrimToLimitFunc = func(context.Context, string, int) (int64, error) { return 0, trimErr }
		uc := NewSessionUsecase(repo, fakeSigner{}, SessionConfig{})

		_, _, err := uc.Start(context.Background(), "user-1", "", "")
		assert.ErrorIs(t, err, trimErr)
		assert.Zero(t, repo.countActive("user-1"))
	})
}

func TestSweeper_Sweep(t *testing.T) {
	t.Parallel()

	t.Run("returns the session count", func(t *testing.T) {
		t.Parallel()
		sessions := newFakeSessionRepository()
		sessions.DeleteExpiredFunc = func(context.Context) (int64, error) { return 3, nil }

		n, err := NewSweeper(sessions).Sweep(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		t.Parallel()
		sessErr := errors.New("redis down")
		sessions := newFakeSessionRepository()
		sessions.DeleteExpiredFunc = func(context.Context) (int64, error) { return 0, sessErr }

		_, err := NewSweeper(sessions).Sweep(context.Background())
		assert.ErrorIs(t, err, sessErr)
	})
}
