// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/obvy"
	"github.com/katalvlaran/digitile/selection"
	"github.com/katalvlaran/digitile/threshold"
	"github.com/katalvlaran/digitile/tile"
)

const tracerName = "github.com/katalvlaran/digitile/session"

// Params is what a Load needs besides the data.
type Params struct {
	Config tile.Config          `json:"config"`
	Cursor selection.CursorMode `json:"cursor"`
	Click  selection.ClickMode  `json:"click"`
}

// Validate checks the layout and both modes.
func (p Params) Validate() error {
	if err := p.Config.Validate(); err != nil {
		return err
	}
	if !p.Cursor.Valid() {
		return fmt.Errorf("cursor %d: %w", p.Cursor, selection.ErrBadMode)
	}
	if !p.Click.Valid() {
		return fmt.Errorf("click %d: %w", p.Click, selection.ErrBadMode)
	}

	return nil
}

// applied is the (factor, selection) pair of the last successful Apply.
type applied struct {
	factor    float64
	selection []curvelet.Key
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id      string
	index   *tile.Index
	machine *selection.Machine
	engine  threshold.Engine
	tracer  trace.Tracer
	stats   *obvy.Stats

	observers []selection.Observer

	fixtureBlock int
	fixtureSeed  int64

	loaded   bool
	params   Params
	original *curvelet.Structure
	energy   *curvelet.Energy
	output   *curvelet.Structure
	report   threshold.Report
	factor   float64
	last     *applied
}

// New returns an unloaded session.
func New(opts ...Option) *Session {
	s := &Session{
		id:           uuid.NewString(),
		index:        tile.NewIndex(),
		tracer:       otel.Tracer(tracerName),
		fixtureBlock: curvelet.DefaultFixtureBlock,
		fixtureSeed:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.machine = selection.New(s.index)

	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Loaded reports whether a structure is loaded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded
}

// Params returns the parameters of the current load.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.params
}

// checkShape accepts a structure whose shape is the canonical one for cfg.
// Without all-curvelets the finest level may also be one isotropic block.
func checkShape(cfg tile.Config, got curvelet.Shape) error {
	want := curvelet.NewShape(cfg.Scales, cfg.Angles)
	if !cfg.AllCurvelets && len(got) == len(want) && got[len(got)-1] == 1 {
		want[len(want)-1] = 1
	}

	return curvelet.CheckSameShape(want, got)
}

// Load rebuilds the tile for p and adopts original and energy. The
// selection, the edited flags and any previous output are dropped.
//
// Errors: tile.ErrBadConfig, selection.ErrBadMode, ErrNoStructure,
// curvelet.ErrShape when the data does not match the layout.
func (s *Session) Load(ctx context.Context, p Params, original *curvelet.Structure, energy *curvelet.Energy) (err error) {
	_, span := s.tracer.Start(ctx, "session.Load", trace.WithAttributes(
		attribute.Int("nbs", p.Config.Scales),
		attribute.Int("nba", p.Config.Angles),
		attribute.Bool("ac", p.Config.AllCurvelets),
	))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(p, original, energy)
}

// loadLocked checks everything before the index is rebuilt, so a failed
// load leaves the previous layout and data in place.
func (s *Session) loadLocked(p Params, original *curvelet.Structure, energy *curvelet.Energy) error {
	if original == nil || energy == nil {
		return ErrNoStructure
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkShape(p.Config, original.Shape()); err != nil {
		return fmt.Errorf("structure: %w", err)
	}
	if err := curvelet.CheckSameShape(original.Shape(), energy.Shape()); err != nil {
		return fmt.Errorf("energy: %w", err)
	}

	if err := s.index.Initialize(p.Config); err != nil {
		return err
	}
	// Both modes passed Validate.
	_ = s.machine.SetCursorMode(p.Cursor)
	_ = s.machine.SetClickMode(p.Click)
	s.machine.Drain()

	s.loaded = true
	s.params = p
	s.original = original
	s.energy = energy
	s.output = nil
	s.report = threshold.Report{}
	s.last = nil

	if s.stats != nil {
		s.stats.SetWedges(s.index.Len())
		s.stats.SetSelected(0)
	}
	slog.Info("Session loaded",
		slog.String("id", s.id),
		slog.String("config", p.Config.String()),
		slog.Int("wedges", s.index.Len()))

	return nil
}

// LoadFixture loads a deterministic pseudo-random structure of the
// canonical shape for p.Config, using the session fixture settings.
func (s *Session) LoadFixture(ctx context.Context, p Params) (err error) {
	_, span := s.tracer.Start(ctx, "session.LoadFixture", trace.WithAttributes(
		attribute.Int("nbs", p.Config.Scales),
		attribute.Int("nba", p.Config.Angles),
		attribute.Bool("ac", p.Config.AllCurvelets),
	))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadFixtureLocked(p, s.fixtureBlock, s.fixtureSeed)
}

func (s *Session) loadFixtureLocked(p Params, block int, seed int64) error {
	if err := p.Validate(); err != nil {
		return err
	}
	original, energy, err := curvelet.Fixture(
		curvelet.NewShape(p.Config.Scales, p.Config.Angles),
		curvelet.WithFixtureBlock(block),
		curvelet.WithFixtureSeed(seed),
	)
	if err != nil {
		return err
	}
	if err := s.loadLocked(p, original, energy); err != nil {
		return err
	}
	s.fixtureBlock, s.fixtureSeed = block, seed

	return nil
}

// NeedsReload reports whether cfg differs from the loaded transform
// parameters, i.e. whether the structure must be recomputed.
func (s *Session) NeedsReload(cfg tile.Config) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.loaded || !s.params.Config.SameTransform(cfg)
}

// Deliver processes one pointer input and returns the events it produced.
func (s *Session) Deliver(ctx context.Context, in selection.Input) (events []selection.Event, err error) {
	_, span := s.tracer.Start(ctx, "session.Deliver", trace.WithAttributes(
		attribute.String("kind", in.Kind.String()),
		attribute.Int("level", in.Level),
		attribute.Int("angle", in.Angle),
	))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, fmt.Errorf("Deliver: %w", ErrNotReady)
	}
	if err := s.machine.Deliver(in); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	events = s.machine.Drain()
	if s.stats != nil {
		s.stats.RecInput(in.Kind.String())
		s.stats.SetSelected(s.machine.Len())
	}
	s.mu.Unlock()

	s.publish(events)

	return events, nil
}

// ShowSelected emits a non-interactive ShowRequested per chosen wedge.
func (s *Session) ShowSelected(ctx context.Context) ([]selection.Event, error) {
	_, span := s.tracer.Start(ctx, "session.ShowSelected")
	defer span.End()

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, fmt.Errorf("ShowSelected: %w", ErrNotReady)
	}
	if err := s.machine.ShowSelected(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	events := s.machine.Drain()
	s.mu.Unlock()

	s.publish(events)

	return events, nil
}

// publish runs outside the lock so observers may call back into the session.
func (s *Session) publish(events []selection.Event) {
	for _, e := range events {
		if s.stats != nil {
			s.stats.RecEvent(e.Kind.String())
		}
		for _, o := range s.observers {
			o.Notify(e)
		}
	}
}

// SetModes switches cursor and click modes without rebuilding the tile.
// Nothing changes unless both modes are valid.
func (s *Session) SetModes(cursor selection.CursorMode, click selection.ClickMode) error {
	if !cursor.Valid() {
		return fmt.Errorf("SetModes: cursor %d: %w", cursor, selection.ErrBadMode)
	}
	if !click.Valid() {
		return fmt.Errorf("SetModes: click %d: %w", click, selection.ErrBadMode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.machine.SetCursorMode(cursor)
	_ = s.machine.SetClickMode(click)
	s.params.Cursor, s.params.Click = cursor, click

	return nil
}

// SetFactor sets the factor the next Apply uses.
func (s *Session) SetFactor(f float64) error {
	if err := checkFactor(f); err != nil {
		return fmt.Errorf("SetFactor: %w", err)
	}
	s.mu.Lock()
	s.factor = f
	s.mu.Unlock()

	return nil
}

func checkFactor(f float64) error {
	if math.IsNaN(f) || f < 0 {
		return fmt.Errorf("factor %v: %w", f, threshold.ErrBadFactor)
	}

	return nil
}

// Factor returns the pending factor.
func (s *Session) Factor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.factor
}

// Selection returns the chosen wedges in (level, angle) order.
func (s *Session) Selection() []curvelet.Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.machine.Selection()
}

// Dirty reports whether Apply would change anything: nothing was applied
// yet, or the factor or the selection differ from the last applied pair.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirtyLocked()
}

func (s *Session) dirtyLocked() bool {
	if !s.loaded {
		return false
	}
	if s.last == nil {
		return true
	}

	return s.last.factor != s.factor || !slices.Equal(s.last.selection, s.machine.Selection())
}

// Apply thresholds the original with the pending factor and the current
// selection (all wedges when empty). Processed wedges above level 0 are
// marked edited; flags from an earlier apply are cleared first since every
// run starts again from the original.
func (s *Session) Apply(ctx context.Context) (rep threshold.Report, err error) {
	_, span := s.tracer.Start(ctx, "session.Apply")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	rep, err = s.applyLocked()
	if err != nil {
		return threshold.Report{}, err
	}
	span.SetAttributes(
		attribute.Float64("factor", s.factor),
		attribute.Int("selected", len(s.last.selection)),
		attribute.Int("kept", rep.Kept),
		attribute.Int("total", rep.Total),
	)

	return rep, nil
}

func (s *Session) applyLocked() (threshold.Report, error) {
	if !s.loaded {
		return threshold.Report{}, fmt.Errorf("Apply: %w", ErrNotReady)
	}
	sel := s.machine.Selection()
	start := time.Now()
	out, rep, err := s.engine.Run(s.original, s.energy, s.factor, sel)
	if err != nil {
		slog.Error("Session apply failed", slog.Any("error", err), slog.String("id", s.id))
		return threshold.Report{}, err
	}
	elapsed := time.Since(start)

	s.machine.ClearEdited()
	if err := s.machine.MarkEdited(rep.Processed()); err != nil {
		return threshold.Report{}, err
	}
	s.output = out
	s.report = rep
	s.last = &applied{factor: s.factor, selection: sel}

	if s.stats != nil {
		s.stats.RecApply(elapsed, rep.Retained)
	}
	slog.Info("Threshold applied",
		slog.String("id", s.id),
		slog.Float64("factor", s.factor),
		slog.Int("selected", len(sel)),
		slog.Int("kept", rep.Kept),
		slog.Int("total", rep.Total),
		slog.Duration("elapsed", elapsed))

	return rep, nil
}

// Report returns the report of the last Apply.
func (s *Session) Report() threshold.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.report
}

// Output returns the structure produced by the last Apply, or nil.
func (s *Session) Output() *curvelet.Structure {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.output
}

// Original returns the loaded structure, or nil.
func (s *Session) Original() *curvelet.Structure {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.original
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
