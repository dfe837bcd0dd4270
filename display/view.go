// SPDX-License-Identifier: MIT

package display

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/selection"
	"github.com/katalvlaran/digitile/session"
	"github.com/katalvlaran/digitile/threshold"
	"github.com/katalvlaran/digitile/tile"
)

// statusRows are reserved below the tile for the status lines.
const statusRows = 2

// sliderStep is how far one +/- key moves the slider.
const sliderStep = 5

// View draws the tile of one session on a tcell screen.
type View struct {
	MU     sync.Mutex
	Screen tcell.Screen

	sess        *session.Session
	sliderScale float64
	slider      int

	hover    curvelet.Key
	hovering bool
	pressed  bool
	message  string
}

// NewView binds screen to sess. The screen must already be initialized.
func NewView(screen tcell.Screen, sess *session.Session, sliderScale float64) *View {
	if sliderScale <= 0 {
		sliderScale = threshold.DefaultSliderScale
	}
	v := &View{Screen: screen, sess: sess, sliderScale: sliderScale}
	v.slider = threshold.SliderFromFactor(sess.Factor(), sliderScale)

	return v
}

// NewScreen returns an initialized terminal screen with mouse reporting on.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("Could not get new screen", slog.Any("error", err))
		return nil, err
	}
	if err := screen.Init(); err != nil {
		slog.Error("Could not initialize screen", slog.Any("error", err))
		return nil, err
	}
	screen.SetStyle(baseStyle)
	screen.EnableMouse()
	screen.Clear()

	return screen, nil
}

// layout is the part of the screen the tile occupies: rows×rows tile
// units drawn as rows lines of 2·rows cells, since cells are twice as tall
// as they are wide.
type layout struct {
	ox, rows int
}

func (v *View) layout() (layout, bool) {
	w, h := v.Screen.Size()
	rows := min(h-statusRows, w/2)
	if rows <= 0 {
		return layout{}, false
	}

	return layout{ox: (w - 2*rows) / 2, rows: rows}, true
}

// CellPoint maps the centre of cell (x, y) to tile-local coordinates.
func (v *View) CellPoint(x, y int, span float64) (tile.Point, bool) {
	l, ok := v.layout()
	if !ok {
		return tile.Point{}, false
	}
	cols := 2 * l.rows
	cx, cy := x-l.ox, y
	if cx < 0 || cx >= cols || cy < 0 || cy >= l.rows {
		return tile.Point{}, false
	}

	return tile.Point{
		X: (float64(cx)+0.5)/float64(cols)*span - span/2,
		Y: span/2 - (float64(cy)+0.5)/float64(l.rows)*span,
	}, true
}

func (v *View) wedgeAt(x, y int) (curvelet.Key, bool) {
	if !v.sess.Loaded() {
		return curvelet.Key{}, false
	}
	tv, err := v.sess.View()
	if err != nil {
		return curvelet.Key{}, false
	}
	p, ok := v.CellPoint(x, y, tv.Extent.Span)
	if !ok {
		return curvelet.Key{}, false
	}

	return v.sess.Locate(p)
}

// Draw repaints the whole screen.
func (v *View) Draw() {
	v.MU.Lock()
	defer v.MU.Unlock()

	v.Screen.Clear()
	w, h := v.Screen.Size()
	tv, err := v.sess.View()
	if err != nil {
		v.drawText(0, 0, w, "No session loaded")
		v.Screen.Show()
		return
	}

	wedges := make(map[curvelet.Key]session.WedgeView, len(tv.Wedges))
	for _, wv := range tv.Wedges {
		wedges[wv.Key] = wv
	}
	if l, ok := v.layout(); ok {
		for y := range l.rows {
			for x := l.ox; x < l.ox+2*l.rows; x++ {
				p, _ := v.CellPoint(x, y, tv.Extent.Span)
				k, ok := v.sess.Locate(p)
				if !ok {
					continue
				}
				r, st := WedgeRune(wedges[k])
				v.Screen.SetContent(x, y, r, nil, st)
			}
		}
	}

	line := fmt.Sprintf("%s  cursor=%s click=%s  factor=%.2f (slider %d)",
		tv.Params.Config, tv.Params.Cursor, tv.Params.Click, tv.Factor, v.slider)
	if tv.Dirty {
		line += "  [apply pending]"
	}
	v.drawText(0, h-statusRows, w, line)
	v.drawText(0, h-1, w, v.message)
	v.Screen.Show()
}

func (v *View) drawText(x, y, width int, text string) {
	col := x
	for _, r := range text {
		if col >= width {
			break
		}
		v.Screen.SetContent(col, y, r, nil, labelStyle)
		col++
	}
}

// Message returns the last status message.
func (v *View) Message() string {
	v.MU.Lock()
	defer v.MU.Unlock()

	return v.message
}

func (v *View) deliver(ctx context.Context, k curvelet.Key, kind selection.InputKind) {
	events, err := v.sess.Deliver(ctx, selection.Input{Level: k.Level, Angle: k.Angle, Kind: kind})
	if err != nil {
		slog.Warn("Input rejected", slog.String("key", k.String()), slog.Any("error", err))
		v.setMessage(err.Error())
		return
	}
	for _, e := range events {
		if e.Kind == selection.Entered {
			continue
		}
		v.setMessage(e.String())
	}
}

func (v *View) setMessage(s string) {
	v.MU.Lock()
	v.message = s
	v.MU.Unlock()
}

// HandleMouse turns a mouse report at cell (x, y) into wedge inputs: Leave
// for the wedge the pointer left, Enter for the one it reached, Press when
// button 1 goes down.
func (v *View) HandleMouse(ctx context.Context, x, y int, buttons tcell.ButtonMask) {
	k, ok := v.wedgeAt(x, y)

	v.MU.Lock()
	prev, hovering := v.hover, v.hovering
	left := hovering && (!ok || k != prev)
	entered := ok && (!hovering || k != prev)
	down := buttons&tcell.Button1 != 0
	press := ok && down && !v.pressed
	v.pressed = down
	v.hover, v.hovering = k, ok
	v.MU.Unlock()

	if left {
		v.deliver(ctx, prev, selection.Leave)
	}
	if entered {
		v.deliver(ctx, k, selection.Enter)
	}
	if press {
		v.deliver(ctx, k, selection.Press)
	}
}

// HandleKey applies one key press and reports whether the view should quit.
func (v *View) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return false
	}

	p := v.sess.Params()
	switch ev.Rune() {
	case 'q':
		return true
	case 'c':
		cursor := selection.CursorLevel
		if p.Cursor == selection.CursorLevel {
			cursor = selection.CursorCell
		}
		v.report(v.sess.SetModes(cursor, p.Click), "cursor "+cursor.String())
	case 'f':
		click := selection.ClickSelect
		if p.Click == selection.ClickSelect {
			click = selection.ClickShow
		}
		v.report(v.sess.SetModes(p.Cursor, click), "click "+click.String())
	case 's':
		events, err := v.sess.ShowSelected(ctx)
		v.report(err, fmt.Sprintf("showing %d wedges", len(events)))
	case 'a':
		rep, err := v.sess.Apply(ctx)
		v.report(err, fmt.Sprintf("applied factor %.2f: kept %d/%d, retained %.1f%%",
			rep.Factor, rep.Kept, rep.Total, 100*rep.Retained))
	case '+', '-':
		v.MU.Lock()
		step := sliderStep
		if ev.Rune() == '-' {
			step = -sliderStep
		}
		v.slider = min(max(v.slider+step, threshold.SliderMin), threshold.SliderMax)
		factor := threshold.FactorFromSlider(v.slider, v.sliderScale)
		v.MU.Unlock()
		v.report(v.sess.SetFactor(factor), fmt.Sprintf("factor %.2f (%.1f dB)", factor, threshold.GainToDB(factor)))
	}

	return false
}

func (v *View) report(err error, ok string) {
	if err != nil {
		v.setMessage(err.Error())
		return
	}
	v.setMessage(ok)
}

// Run polls screen events until a quit key or ctx is done. The caller
// finalizes the screen.
func (v *View) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.Screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	v.Draw()
	for {
		ev := v.Screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
		case *tcell.EventResize:
			v.Screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ctx, ev) {
				return nil
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			v.HandleMouse(ctx, x, y, ev.Buttons())
		}
		v.Draw()
	}
}
