package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"othello/internal/game"
)

const (
	MaxGames           = 1000
	GameTTL            = 2 * time.Hour
	CleanupJobInterval = 10 * time.Minute
	SubscriberBuffer   = 4
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrResourceLimit = errors.New("game limit reached")
)

// Config tunes service limits, zero values take the package defaults
type Config struct {
	MaxGames    int
	GameTTL     time.Duration
	WaitTimeout time.Duration
}

// table is one hosted game plus its bookkeeping
type table struct {
	game       *game.Game
	lastActive time.Time
	subs       map[*subscription]struct{}
}

type subscription struct {
	ch          chan game.Snapshot
	unsubscribe func()
}

// Service coordinates hosted games, subscriptions and long-poll waiters
type Service struct {
	games    map[string]*table
	mu       sync.RWMutex
	waiter   *WaitRegistry
	maxGames int
	gameTTL  time.Duration
	now      func() time.Time
}

// New creates a service instance
func New(cfg Config) *Service {
	if cfg.MaxGames <= 0 {
		cfg.MaxGames = MaxGames
	}
	if cfg.GameTTL <= 0 {
		cfg.GameTTL = GameTTL
	}

	return &Service{
		games:    make(map[string]*table),
		waiter:   NewWaitRegistry(cfg.WaitTimeout),
		maxGames: cfg.MaxGames,
		gameTTL:  cfg.GameTTL,
		now:      time.Now,
	}
}

// GameCount returns the number of hosted games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// RegisterWait registers a client to wait for the game to move past version.
// A version that is already stale, or a game that no longer exists, signals at once.
func (s *Service) RegisterWait(ctx context.Context, gameID string, version uint64) <-chan struct{} {
	// Commits notify after releasing s.mu, so a waiter registered under the
	// read lock cannot miss a version newer than the one checked here
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.games[gameID]
	if !ok || t.game.Version() != version {
		ready := make(chan struct{}, WaitChannelBuffer)
		ready <- struct{}{}
		return ready
	}
	return s.waiter.RegisterWait(ctx, gameID, version)
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.games {
		s.closeSubscriptions(t)
		delete(s.games, id)
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically evicts games idle for longer than the TTL
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cleanupExpired(); n > 0 {
				log.Printf("cleanup: evicted %d idle games", n)
			}
		}
	}
}

func (s *Service) cleanupExpired() int {
	cutoff := s.now().Add(-s.gameTTL)

	s.mu.Lock()
	var expired []string
	for id, t := range s.games {
		if t.lastActive.Before(cutoff) {
			s.closeSubscriptions(t)
			delete(s.games, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.waiter.RemoveGame(id)
	}
	return len(expired)
}

// closeSubscriptions must be called with s.mu held
func (s *Service) closeSubscriptions(t *table) {
	for sub := range t.subs {
		sub.unsubscribe()
		close(sub.ch)
	}
	t.subs = nil
}
