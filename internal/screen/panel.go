package screen

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/tilearena/internal/game"
)

const (
	panelWidth     = 300
	panelLineH     = 14
	panelRecentHot = 3
	panelCharW     = 6
)

// labelColour picks the marker dot for an event's actor.
func labelColour(label string) color.RGBA {
	switch {
	case label == "P1":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case label == "P2":
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	case strings.HasPrefix(label, "M"):
		return color.RGBA{R: 200, G: 60, B: 160, A: 255}
	case strings.HasPrefix(label, "B"):
		return color.RGBA{R: 230, G: 200, B: 60, A: 255}
	default:
		return color.RGBA{R: 140, G: 140, B: 140, A: 255}
	}
}

// drawEventPanel renders the newest events at the bottom of a side panel.
func drawEventPanel(dst *ebiten.Image, el *game.EventLog, panelX, panelH int) {
	vector.FillRect(dst, float32(panelX), 0, panelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(dst, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(dst, float32(panelX), 0, panelWidth, 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(dst, "EVENTS", panelX+8, 2)
	vector.StrokeLine(dst, float32(panelX), 16, float32(panelX+panelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := el.Recent()
	maxVisible := (panelH - 24) / panelLineH
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for i, e := range entries {
		if i >= len(entries)-panelRecentHot {
			vector.FillRect(dst, float32(panelX+2), float32(y), panelWidth-4, panelLineH, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(dst, float32(panelX+5), float32(y+3), 3, 5, labelColour(e.Label), false)
		line := clip(fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message), (panelWidth-16)/panelCharW)
		ebitenutil.DebugPrintAt(dst, line, panelX+12, y)
		y += panelLineH
	}
}

// clip shortens s to at most n runes, marking the cut with "~".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "~"
}
