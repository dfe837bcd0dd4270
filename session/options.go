// SPDX-License-Identifier: MIT

package session

import (
	"github.com/katalvlaran/digitile/obvy"
	"github.com/katalvlaran/digitile/selection"
)

// Option configures a Session at construction.
type Option func(*Session)

// WithID fixes the session id instead of a random UUID.
func WithID(id string) Option {
	if id == "" {
		panic("session: WithID: empty id")
	}

	return func(s *Session) { s.id = id }
}

// WithStats records metrics into st.
func WithStats(st *obvy.Stats) Option {
	return func(s *Session) { s.stats = st }
}

// WithObserver forwards every emitted selection event to o, after the
// session has finished processing the input that produced it.
func WithObserver(o selection.Observer) Option {
	if o == nil {
		panic("session: WithObserver: nil observer")
	}

	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithFixture sets the block side and seed LoadFixture uses.
func WithFixture(block int, seed int64) Option {
	if block <= 0 {
		panic("session: WithFixture: block must be > 0")
	}

	return func(s *Session) {
		s.fixtureBlock = block
		s.fixtureSeed = seed
	}
}
