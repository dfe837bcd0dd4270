// SPDX-License-Identifier: MIT

package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/tile"
)

// Snapshot is everything needed to rebuild a session: the tile layout,
// the modes, the selection, the pending factor and the last applied pair.
type Snapshot struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`

	Config tile.Config `json:"config"`
	Cursor string      `json:"cursor"`
	Click  string      `json:"click"`

	// Seed and Block reproduce the fixture structure the session was
	// loaded with.
	Seed  int64 `json:"seed"`
	Block int   `json:"block"`

	Factor    float64        `json:"factor"`
	Selection []curvelet.Key `json:"selection"`
	Edited    []curvelet.Key `json:"edited"`

	Applied          bool           `json:"applied"`
	AppliedFactor    float64        `json:"applied_factor"`
	AppliedSelection []curvelet.Key `json:"applied_selection"`
}

// Encode serializes the snapshot for storage.
func Encode(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("snapshot encode: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode deserializes a stored snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}

	return &s, nil
}
