package trivia

import (
	"context"
	"sync"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// PackRepository loads trivia packs (from cache/backing store).
type PackRepository interface {
	GetPack(ctx context.Context, name string) (domain.Pack, error)
	ListPacks(ctx context.Context) ([]string, error)
}

// Manager is the process-wide registry of live sessions, at most one per
// channel key. Registry access is per-key via sync.Map so sessions in
// different channels never contend on a shared lock.
type Manager struct {
	packs    PackRepository
	cfg      Config
	sessions sync.Map // SessionKey -> *Session
}

func NewManager(packs PackRepository, cfg Config) *Manager {
	return &Manager{packs: packs, cfg: cfg.withDefaults()}
}

// CreateSession validates the pack and difficulty, registers a new session
// for the key, and starts its driver goroutine. Concurrent creation for the
// same key admits exactly one session; the rest fail with ErrSessionActive.
func (m *Manager) CreateSession(ctx context.Context, key SessionKey, packName, difficultyName string, listener Listener) (*Session, error) {
	difficulty, err := domain.ParseDifficulty(difficultyName)
	if err != nil {
		return nil, err
	}
	pack, err := m.packs.GetPack(ctx, packName)
	if err != nil {
		return nil, err
	}

	session, err := newSession(key, pack, difficulty, listener, m.cfg)
	if err != nil {
		return nil, err
	}
	// The cancel func must be in place before the session is visible in the
	// registry, or a racing CancelSession could observe it unset.
	runCtx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel
	if _, loaded := m.sessions.LoadOrStore(key, session); loaded {
		cancel()
		return nil, domain.ErrSessionActive
	}

	go func() {
		defer cancel()
		session.run(runCtx)
		// Unregister on natural completion; a no-op if CancelSession
		// already removed the entry.
		m.sessions.CompareAndDelete(key, session)
	}()
	return session, nil
}

// CancelSession aborts the channel's session, if any. Idempotent.
func (m *Manager) CancelSession(key SessionKey) {
	v, loaded := m.sessions.LoadAndDelete(key)
	if !loaded {
		return
	}
	v.(*Session).cancel()
}

// HandleMessage routes a channel message to the channel's live session.
// Messages for channels with no session, or outside an open question, are
// dropped.
func (m *Manager) HandleMessage(key SessionKey, sub domain.Submission) {
	if v, ok := m.sessions.Load(key); ok {
		v.(*Session).Submit(sub)
	}
}

// ListPacks names the packs available for CreateSession.
func (m *Manager) ListPacks(ctx context.Context) ([]string, error) {
	return m.packs.ListPacks(ctx)
}
