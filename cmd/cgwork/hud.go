package main

import (
	"fmt"
	"time"

	"github.com/taigrr/cgwork/pkg/scene"
)

// HUD renders an overlay with scene info and toggles
type HUD struct {
	title     string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(title string, polyCount int) *HUD {
	return &HUD{
		title:     title,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, visible bool, vs scene.ViewState, mode scene.Mode, pan bool) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if mode != scene.ModeIdle {
		msg := fmt.Sprintf("%s%s%s ◉ %s drag (Esc cancels) %s", bgBlack, bold, fgYellow, mode, reset)
		fmt.Print(moveTo(height, max((width-30)/2, 1)) + msg)
		return
	}
	if !visible {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.title, reset))

	polyStr := fmt.Sprintf("%s%s%s %d polys %s", bgBlack, fgCyan, bold, h.polyCount, reset)
	fmt.Print(moveTo(1, max(width-14, 1)) + polyStr)

	modeStr := fmt.Sprintf("%s%s %s Persp  %s Normals  %s Faces  %s Box  %s Pan  axis:%s %s",
		bgBlack, fgWhite,
		check(vs.Perspective), check(vs.ShowVertexNormals), check(vs.ShowPolygonNormals),
		check(vs.ShowBoundingBox), check(pan), vs.AxisLock, reset)
	fmt.Print(moveTo(height, 1) + modeStr)

	hint := fmt.Sprintf("%s%s%s s: snapshot %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-14, 1)) + hint)
}
