package app

import (
	"context"
	"log/slog"
	"sync"
)

// SessionController tracks the authenticated user. Absent, expired, and
// unreachable sessions are equivalent: the only side effect of "no session"
// is invoking the redirect hook, never a retry.
type SessionController struct {
	client    *Client
	redirect  func()
	logger    *slog.Logger
	mu        sync.RWMutex
	user      *SessionUser
	observers []func(*SessionUser)
}

func NewSessionController(client *Client, redirect func(), logger *slog.Logger) *SessionController {
	return &SessionController{
		client:   client,
		redirect: redirect,
		logger:   logger,
	}
}

// OnChange registers an observer called with the user on login and nil on
// logout or session loss.
func (s *SessionController) OnChange(fn func(*SessionUser)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Resume probes the stored token. Returns true when a session exists; false
// triggers the redirect hook.
func (s *SessionController) Resume(ctx context.Context) bool {
	if s.client.Token() == "" {
		s.clear()
		return false
	}
	user, err := s.client.Me(ctx)
	if err != nil {
		s.logger.Info("no active session", "error", err)
		s.clear()
		return false
	}
	s.set(user)
	return true
}

func (s *SessionController) Login(ctx context.Context, email, password string) error {
	session, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.set(&session.User)
	return nil
}

func (s *SessionController) Register(ctx context.Context, email, password, fullName string) error {
	session, err := s.client.Register(ctx, email, password, fullName)
	if err != nil {
		return err
	}
	s.set(&session.User)
	return nil
}

// Logout drops the token and redirects.
func (s *SessionController) Logout() {
	s.client.SetToken("")
	s.clear()
}

// User returns the current user, or nil when signed out.
func (s *SessionController) User() *SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *SessionController) set(user *SessionUser) {
	s.mu.Lock()
	s.user = user
	observers := append([]func(*SessionUser){}, s.observers...)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(user)
	}
}

func (s *SessionController) clear() {
	s.mu.Lock()
	s.user = nil
	observers := append([]func(*SessionUser){}, s.observers...)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(nil)
	}
	if s.redirect != nil {
		s.redirect()
	}
}
