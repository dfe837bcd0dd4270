// SPDX-License-Identifier: MIT

package session

import (
	"fmt"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/tile"
)

// WedgeView is a read-only copy of one wedge record.
type WedgeView struct {
	Key       curvelet.Key `json:"key"`
	Polygon   tile.Polygon `json:"polygon"`
	Status    tile.Status  `json:"status"`
	Available bool         `json:"available"`
	Hover     bool         `json:"hover"`
	Chosen    bool         `json:"chosen"`
	Edited    bool         `json:"edited"`
}

// TileView is a consistent copy of the whole tile for renderers.
type TileView struct {
	Params Params      `json:"params"`
	Extent tile.Extent `json:"extent"`
	Label  string      `json:"label"`
	Dirty  bool        `json:"dirty"`
	Factor float64     `json:"factor"`
	Wedges []WedgeView `json:"wedges"`
}

// View copies the tile under the session lock.
func (s *Session) View() (TileView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return TileView{}, fmt.Errorf("View: %w", ErrNotReady)
	}
	v := TileView{
		Params: s.params,
		Extent: s.index.Extent(),
		Label:  s.index.Label(),
		Dirty:  s.dirtyLocked(),
		Factor: s.factor,
		Wedges: make([]WedgeView, 0, s.index.Len()),
	}
	for w := range s.index.All() {
		v.Wedges = append(v.Wedges, WedgeView{
			Key:       w.Key(),
			Polygon:   w.Polygon(),
			Status:    w.Status(),
			Available: w.Available(),
			Hover:     w.Hovered(),
			Chosen:    w.Chosen(),
			Edited:    w.Edited(),
		})
	}

	return v, nil
}

// Locate maps a tile-local point to a wedge.
func (s *Session) Locate(p tile.Point) (curvelet.Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.index.Locate(p)
}

// BlockInfo describes one wedge block for a show request.
type BlockInfo struct {
	Key      curvelet.Key    `json:"key"`
	Original curvelet.Stats  `json:"original"`
	Output   *curvelet.Stats `json:"output,omitempty"`
}

// Block returns statistics of wedge k in the original and, after an
// Apply, in the output.
func (s *Session) Block(k curvelet.Key) (BlockInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return BlockInfo{}, fmt.Errorf("Block: %w", ErrNotReady)
	}
	b, err := s.original.Block(k)
	if err != nil {
		return BlockInfo{}, err
	}
	info := BlockInfo{Key: k, Original: curvelet.BlockStats(b)}
	if s.output != nil {
		ob, err := s.output.Block(k)
		if err != nil {
			return BlockInfo{}, err
		}
		st := curvelet.BlockStats(ob)
		info.Output = &st
	}

	return info, nil
}
