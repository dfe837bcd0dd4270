// SPDX-License-Identifier: MIT

package display

import (
	"github.com/gdamore/tcell/v2"

	"github.com/katalvlaran/digitile/session"
)

var (
	baseStyle  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorLightSteelBlue)
	labelStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorPink)
)

// WedgeRune returns the fill rune and style of one wedge. Hover combines
// with chosen and edited; unavailable wedges are hatched.
func WedgeRune(w session.WedgeView) (rune, tcell.Style) {
	switch {
	case !w.Available:
		return '╱', tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorLightGray)
	case w.Hover && w.Chosen:
		return ' ', tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	case w.Hover && w.Edited:
		return ' ', tcell.StyleDefault.Background(tcell.ColorDarkRed)
	case w.Hover:
		return ' ', tcell.StyleDefault.Background(tcell.ColorLightGray)
	case w.Chosen:
		return ' ', tcell.StyleDefault.Background(tcell.ColorGreen)
	case w.Edited:
		return ' ', tcell.StyleDefault.Background(tcell.ColorRed)
	default:
		return ' ', tcell.StyleDefault.Background(tcell.ColorWhite)
	}
}
