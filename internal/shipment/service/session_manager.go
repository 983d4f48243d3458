package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "radagast/internal/errors"
)

type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// SessionManager holds the one process-wide carrier credential. The
// read-check-refresh sequence runs under a mutex so two near-simultaneous
// expiries cannot issue two refresh calls and race on which token wins.
// The credential is never persisted; a restart starts cold.
type SessionManager struct {
	mu        sync.Mutex
	auth      Authenticator
	token     string
	expiresAt time.Time
	now       func() time.Time
	logger    *zap.Logger
}

func NewSessionManager(auth Authenticator, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		auth:   auth,
		now:    time.Now,
		logger: logger,
	}
}

// GetToken returns the cached credential while it is still valid, and
// refreshes it otherwise. A refresh failure returns a CredentialError;
// callers must not proceed to shipment submission without a token.
func (s *SessionManager) GetToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	token, err := s.auth.Authenticate(ctx)
	if err != nil {
		s.token = ""
		s.logger.Error("carrier authentication failed", zap.Error(err))
		return "", apperrors.NewCredentialError("carrier authentication failed", err)
	}

	s.token = token
	s.expiresAt = sessionExpiry(s.now())
	s.logger.Info("carrier session refreshed", zap.Time("expiresAt", s.expiresAt))

	return s.token, nil
}

// sessionExpiry is now plus nine days, clipped to the end of that day.
// The carrier issues ten-day tokens; expiring a day early and at a day
// boundary keeps refreshes predictable.
func sessionExpiry(now time.Time) time.Time {
	d := now.AddDate(0, 0, 9)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}
