// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"sync"
)

// # Guard States

// GuardState is the tri-state outcome of the start-up session check.
type GuardState int

const (
	// GuardLoading means rehydration has not settled yet. Protected content
	// must not render and no redirect may be issued in this state.
	GuardLoading GuardState = iota
	GuardAuthenticated
	GuardUnauthenticated
)

// String returns the state name used in logs.
func (state GuardState) String() string {
	switch state {
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// # Guard

// Guard gates protected routes on a single rehydration of a [Manager].
//
// The state leaves [GuardLoading] exactly once and never goes back.
type Guard struct {
	manager *Manager

	once    sync.Once
	settled chan struct{}

	mu      sync.RWMutex
	state   GuardState
	session *Session
	err     error
}

// NewGuard constructs a guard in the loading state.
func NewGuard(manager *Manager) *Guard {
	return &Guard{
		manager: manager,
		settled: make(chan struct{}),
		state:   GuardLoading,
	}
}

/*
Resolve runs rehydration once and returns the settled state.

Description: Concurrent callers block until the first call settles.
Storage failures settle as unauthenticated and are exposed via [Guard.Err].

Parameters:
  - ctx: context.Context

Returns:
  - GuardState: Authenticated or Unauthenticated, or Loading if ctx ended first
*/
func (guard *Guard) Resolve(ctx context.Context) GuardState {
	go guard.once.Do(func() {
		guard.settle(guard.manager.Rehydrate(context.WithoutCancel(ctx)))
	})

	select {
	case <-guard.settled:
		return guard.State()
	case <-ctx.Done():
		return GuardLoading
	}
}

func (guard *Guard) settle(session *Session, err error) {
	guard.mu.Lock()
	switch {
	case err == nil && session != nil:
		guard.state = GuardAuthenticated
		guard.session = session
	default:
		guard.state = GuardUnauthenticated
		if !errors.Is(err, ErrNoSession) {
			guard.err = err
		}
	}
	guard.mu.Unlock()

	close(guard.settled)
}

// State returns the current state without blocking.
func (guard *Guard) State() GuardState {
	guard.mu.RLock()
	defer guard.mu.RUnlock()
	return guard.state
}

// Session returns the rehydrated session, or nil unless authenticated.
func (guard *Guard) Session() *Session {
	guard.mu.RLock()
	defer guard.mu.RUnlock()
	return guard.session.clone()
}

// Err returns the storage error that forced an unauthenticated outcome, if any.
func (guard *Guard) Err() error {
	guard.mu.RLock()
	defer guard.mu.RUnlock()
	return guard.err
}

// Settled is closed once the state has left [GuardLoading].
func (guard *Guard) Settled() <-chan struct{} {
	return guard.settled
}
