package usecase

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// SessionChecker restores a session by token. *Auth implements it.
type SessionChecker interface {
	Restore(ctx context.Context, token string) (*Session, error)
}

// Workspace keeps one LeadRepository per live session token.
type Workspace struct {
	gateway  LeadGateway
	sessions SessionChecker
	notifier Notifier
	log      *zap.Logger

	mu      sync.RWMutex
	repos   map[string]*LeadRepository
	onEvict []func(token string)
}

func NewWorkspace(gateway LeadGateway, sessions SessionChecker, notifier Notifier, log *zap.Logger) *Workspace {
	return &Workspace{
		gateway:  gateway,
		sessions: sessions,
		notifier: notifier,
		log:      log,
		repos:    make(map[string]*LeadRepository),
	}
}

// OnEvict registers fn to run for every token Prune drops.
func (w *Workspace) OnEvict(fn func(token string)) {
	w.mu.Lock()
	w.onEvict = append(w.onEvict, fn)
	w.mu.Unlock()
}

// Open returns the repository of the session, creating an empty one on first use.
func (w *Workspace) Open(sess *Session) *LeadRepository {
	w.mu.Lock()
	defer w.mu.Unlock()
	if repo, ok := w.repos[sess.Token]; ok {
		return repo
	}
	repo := NewLeadRepository(w.gateway, sess, w.notifier, w.log)
	w.repos[sess.Token] = repo
	return repo
}

func (w *Workspace) Get(token string) (*LeadRepository, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	repo, ok := w.repos[token]
	return repo, ok
}

func (w *Workspace) Close(token string) {
	w.mu.Lock()
	delete(w.repos, token)
	w.mu.Unlock()
}

func (w *Workspace) All() []*LeadRepository {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*LeadRepository, 0, len(w.repos))
	for _, repo := range w.repos {
		out = append(out, repo)
	}
	return out
}

// Prune closes the repositories whose session no longer restores, either
// expired in the store or removed, and returns their tokens. A store that
// cannot be read keeps the repository.
func (w *Workspace) Prune(ctx context.Context) []string {
	if w.sessions == nil {
		return nil
	}
	w.mu.RLock()
	tokens := make([]string, 0, len(w.repos))
	for token := range w.repos {
		tokens = append(tokens, token)
	}
	w.mu.RUnlock()

	var gone []string
	for _, token := range tokens {
		_, err := w.sessions.Restore(ctx, token)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrNoSession):
			gone = append(gone, token)
		default:
			w.log.Warn("session check failed", zap.Error(err))
		}
	}
	if len(gone) == 0 {
		return nil
	}

	w.mu.Lock()
	for _, token := range gone {
		delete(w.repos, token)
	}
	hooks := append([]func(string){}, w.onEvict...)
	w.mu.Unlock()

	for _, token := range gone {
		for _, fn := range hooks {
			fn(token)
		}
	}
	w.log.Info("expired sessions closed", zap.Int("count", len(gone)))
	return gone
}
