// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/selection"
	"github.com/katalvlaran/digitile/store"
)

// Snapshot captures the session state under a fresh id.
func (s *Session) Snapshot() (*store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, fmt.Errorf("Snapshot: %w", ErrNotReady)
	}
	snap := &store.Snapshot{
		ID:        uuid.NewString(),
		Created:   time.Now().UTC(),
		Config:    s.params.Config,
		Cursor:    s.machine.CursorMode().String(),
		Click:     s.machine.ClickMode().String(),
		Seed:      s.fixtureSeed,
		Block:     s.fixtureBlock,
		Factor:    s.factor,
		Selection: s.machine.Selection(),
		Edited:    s.machine.Edited(),
	}
	if s.last != nil {
		snap.Applied = true
		snap.AppliedFactor = s.last.factor
		snap.AppliedSelection = slices.Clone(s.last.selection)
	}

	return snap, nil
}

// Restore reloads the fixture the snapshot was taken from and replays its
// state: the last apply first, then the pending factor and selection. The
// whole replay holds the session lock, and the snapshot is checked before
// anything is rebuilt, so a failed restore leaves the session as it was.
func (s *Session) Restore(ctx context.Context, snap *store.Snapshot) (err error) {
	_, span := s.tracer.Start(ctx, "session.Restore")
	defer func() { endSpan(span, err) }()

	if snap == nil {
		return fmt.Errorf("Restore: %w", ErrNoStructure)
	}
	cursor, err := selection.ParseCursorMode(snap.Cursor)
	if err != nil {
		return err
	}
	click, err := selection.ParseClickMode(snap.Click)
	if err != nil {
		return err
	}
	p := Params{Config: snap.Config, Cursor: cursor, Click: click}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkFactor(snap.Factor); err != nil {
		return fmt.Errorf("Restore: %w", err)
	}
	shape := curvelet.NewShape(p.Config.Scales, p.Config.Angles)
	if err := checkKeys(shape, snap.Selection); err != nil {
		return err
	}
	if snap.Applied {
		if err := checkFactor(snap.AppliedFactor); err != nil {
			return fmt.Errorf("Restore: applied %w", err)
		}
		if err := checkKeys(shape, snap.AppliedSelection); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	block := snap.Block
	if block <= 0 {
		block = s.fixtureBlock
	}
	if err := s.loadFixtureLocked(p, block, snap.Seed); err != nil {
		return err
	}
	if snap.Applied {
		if err := s.replaySelectionLocked(snap.AppliedSelection); err != nil {
			return err
		}
		s.factor = snap.AppliedFactor
		if _, err := s.applyLocked(); err != nil {
			return err
		}
	}
	if err := s.replaySelectionLocked(snap.Selection); err != nil {
		return err
	}
	s.factor = snap.Factor

	return nil
}

func checkKeys(shape curvelet.Shape, keys []curvelet.Key) error {
	for _, k := range keys {
		if !shape.Contains(k) {
			return fmt.Errorf("Restore: selection %s: %w", k, curvelet.ErrOutOfRange)
		}
	}

	return nil
}

func (s *Session) replaySelectionLocked(keys []curvelet.Key) error {
	s.machine.ClearSelection()
	if err := s.machine.Select(keys); err != nil {
		return err
	}
	s.machine.Drain()
	if s.stats != nil {
		s.stats.SetSelected(s.machine.Len())
	}

	return nil
}
