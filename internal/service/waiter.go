package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second

	// WaitChannelBuffer size for notification channels
	WaitChannelBuffer = 1
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	Version uint64        // Last version seen by the client
	Notify  chan struct{} // Buffered channel for notifications
	Timer   *time.Timer   // Timeout timer
	GameID  string        // Game being watched
	done    chan struct{}
	once    sync.Once
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = WaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client to wait until the game moves past version.
// The returned channel receives once on change, deletion or timeout.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, version uint64) <-chan struct{} {
	req := &WaitRequest{
		Version: version,
		Notify:  make(chan struct{}, WaitChannelBuffer),
		GameID:  gameID,
		done:    make(chan struct{}),
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		req.signal()
		return req.Notify
	}

	// Setup timeout timer
	req.Timer = time.AfterFunc(w.timeout, req.signal)

	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.wg.Add(1)
	w.mu.Unlock()

	// Cleanup on client disconnect, notification or shutdown
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
		case <-req.done:
		case <-w.shutdown:
			req.signal()
		}
		w.removeWaiter(gameID, req)
	}()

	return req.Notify
}

// NotifyGame wakes every waiter whose known version differs from version
func (w *WaitRegistry) NotifyGame(gameID string, version uint64) {
	w.mu.RLock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.RUnlock()

	for _, req := range waitList {
		if req.Version != version {
			req.signal()
		}
	}
}

// RemoveGame wakes all waiters for a game (called on game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.RLock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.RUnlock()

	for _, req := range waitList {
		req.signal()
	}
}

// Count returns the number of pending waiters
func (w *WaitRegistry) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	n := 0
	for _, list := range w.waiters {
		n += len(list)
	}
	return n
}

// Shutdown wakes all waiters and waits for their goroutines to exit
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

// removeWaiter removes a specific waiter from the registry
func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}

	if req.Timer != nil {
		req.Timer.Stop()
	}
}

// signal delivers at most one notification
func (r *WaitRequest) signal() {
	r.once.Do(func() {
		r.Notify <- struct{}{}
		close(r.done)
	})
}
