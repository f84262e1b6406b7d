package service

import (
	"fmt"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/game"

	"github.com/google/uuid"
)

// CreateGame hosts a new game. An empty position starts from the standard opening.
func (s *Service) CreateGame(position string, toMove core.Color) (string, game.Snapshot, error) {
	g := game.New()
	if position != "" {
		b, err := board.Parse(position)
		if err != nil {
			return "", game.Snapshot{}, err
		}
		g = game.FromBoard(b, toMove)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) >= s.maxGames {
		return "", game.Snapshot{}, fmt.Errorf("%w: %d games hosted", ErrResourceLimit, len(s.games))
	}

	id := uuid.New().String()
	s.games[id] = &table{
		game:       g,
		lastActive: s.now(),
	}

	return id, g.Snapshot(), nil
}

// GetGame returns the current snapshot of a game
func (s *Service) GetGame(gameID string) (game.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.games[gameID]
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return t.game.Snapshot(), nil
}

// SelectCell forwards a cell selection to the game. Rejected moves return the
// unchanged snapshot together with game.ErrInvalidMove or game.ErrGameOver.
func (s *Service) SelectCell(gameID string, row, col int) (game.Snapshot, error) {
	s.mu.Lock()
	t, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	t.lastActive = s.now()
	snap, err := t.game.SelectCell(row, col)
	s.mu.Unlock()

	if err == nil {
		s.waiter.NotifyGame(gameID, snap.Version)
	}
	return snap, err
}

// Restart resets a game to the starting position
func (s *Service) Restart(gameID string) (game.Snapshot, error) {
	s.mu.Lock()
	t, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return game.Snapshot{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	t.lastActive = s.now()
	snap := t.game.Restart()
	s.mu.Unlock()

	s.waiter.NotifyGame(gameID, snap.Version)
	return snap, nil
}

// DeleteGame removes a game and releases its waiters and subscribers
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	t, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.closeSubscriptions(t)
	delete(s.games, gameID)
	s.mu.Unlock()

	s.waiter.RemoveGame(gameID)
	return nil
}

// Subscribe streams every committed snapshot of a game. When the consumer lags
// the oldest pending snapshot is dropped so the latest always gets through.
// The channel is closed on cancel or when the game is removed.
func (s *Service) Subscribe(gameID string, buffer int) (<-chan game.Snapshot, func(), error) {
	if buffer < 1 {
		buffer = SubscriberBuffer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.games[gameID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	sub := &subscription{ch: make(chan game.Snapshot, buffer)}
	sub.unsubscribe = t.game.Subscribe(func(snap game.Snapshot) {
		for {
			select {
			case sub.ch <- snap:
				return
			default:
			}
			// Full: drop the oldest and retry
			select {
			case <-sub.ch:
			default:
			}
		}
	})

	if t.subs == nil {
		t.subs = make(map[*subscription]struct{})
	}
	t.subs[sub] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := t.subs[sub]; !ok {
			return
		}
		delete(t.subs, sub)
		sub.unsubscribe()
		close(sub.ch)
	}

	return sub.ch, cancel, nil
}
