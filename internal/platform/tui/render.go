package tui

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-parkour/internal/core"
	"github.com/vovakirdan/tui-parkour/internal/entity"
	"github.com/vovakirdan/tui-parkour/internal/level"
	"github.com/vovakirdan/tui-parkour/internal/race"
)

var (
	stylesMu    sync.Mutex
	colorStyles = map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
	}
)

// styleFor returns the cached lipgloss style for a cell color.
func styleFor(c core.Color) lipgloss.Style {
	stylesMu.Lock()
	defer stylesMu.Unlock()

	if s, ok := colorStyles[c]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(string(c)))
	colorStyles[c] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// obstacleGlyphs is how each obstacle type is drawn.
var obstacleGlyphs = map[level.ObstacleType]struct {
	r rune
	c core.Color
}{
	level.Platform:        {'█', core.ColorGround},
	level.MovingPlatform:  {'▬', core.ColorGround},
	level.FallingPlatform: {'▒', core.ColorGround},
	level.Wall:            {'#', core.ColorWall},
	level.LowBarrier:      {'=', core.ColorBarrier},
	level.Vent:            {'▀', core.ColorVent},
	level.Spring:          {'^', core.ColorSpring},
	level.DashPad:         {'»', core.ColorDashPad},
	level.Spike:           {'▲', core.ColorSpike},
}

// RaceView draws a race into a cell buffer. It implements race.Renderer.
// World pixels map to cells through CellW and CellH; rows are laid out so
// the camera's vertical center sits in the middle of the course area.
type RaceView struct {
	Screen *core.Screen
	CellW  float64
	CellH  float64
	Level  string // label shown in the HUD
}

// NewRaceView creates a view writing to screen.
func NewRaceView(screen *core.Screen, cellW, cellH float64) *RaceView {
	if cellW <= 0 {
		cellW = 10
	}
	if cellH <= 0 {
		cellH = 20
	}
	return &RaceView{Screen: screen, CellW: cellW, CellH: cellH}
}

// Render implements race.Renderer.
func (v *RaceView) Render(e *race.Engine) {
	s := v.Screen
	s.Clear()
	if s.Width() == 0 || s.Height() < 4 {
		return
	}

	cam := e.Camera()
	lvl := e.Level()
	for _, o := range lvl.Obstacles {
		if cam.IsVisible(o.Rect) {
			v.drawObstacle(e, o)
		}
	}
	v.drawFinish(e)

	for _, b := range e.Bots() {
		v.drawRacer(e, &b.Entity, rune(b.Name[0]), b.Look.Primary)
	}
	p := e.Player()
	look := p.Look.Primary
	if look == core.ColorDefault {
		look = core.ColorHUD
	}
	v.drawRacer(e, &p.Entity, playerGlyph(p.State), look)

	v.drawHUD(e)
	v.drawOverlay(e)
}

// toCell maps a world point to a screen cell.
func (v *RaceView) toCell(e *race.Engine, p core.Vec2) (int, int) {
	cam := e.Camera()
	centerY := cam.Position.Y + cam.Viewport.Y/2
	rows := v.Screen.Height() - 2 // HUD line and footer
	col := (p.X - cam.Position.X) / v.CellW
	row := (p.Y-centerY)/v.CellH + float64(rows)/2 + 1
	return int(math.Floor(col)), int(math.Floor(row))
}

func (v *RaceView) fillWorld(e *race.Engine, r core.Rect, ch rune, c core.Color) {
	x0, y0 := v.toCell(e, core.V(r.X, r.Y))
	x1, y1 := v.toCell(e, core.V(r.Right(), r.Bottom()))
	x0, x1 = max(x0, 0), min(max(x1, x0+1), v.Screen.Width())
	y0, y1 = max(y0, 1), min(max(y1, y0+1), v.Screen.Height()-1)
	v.Screen.FillRect(x0, y0, x1-x0, y1-y0, ch, c)
}

func (v *RaceView) drawObstacle(e *race.Engine, o *level.Obstacle) {
	if o.Type == level.Gap {
		// Gaps are drawn as a hole in the platform surface.
		top := o.Rect
		top.H = v.CellH
		v.fillWorld(e, top, ' ', core.ColorGap)
		return
	}
	g, ok := obstacleGlyphs[o.Type]
	if !ok {
		return
	}
	v.fillWorld(e, o.Rect, g.r, g.c)
}

func (v *RaceView) drawFinish(e *race.Engine) {
	f := e.Level().FinishLine
	col, _ := v.toCell(e, f)
	for row := 1; row < v.Screen.Height()-1; row++ {
		ch := '░'
		if row%2 == 0 {
			ch = '▓'
		}
		v.Screen.Set(col, row, ch, core.ColorFinish)
	}
}

func (v *RaceView) drawRacer(e *race.Engine, ent *entity.Entity, glyph rune, c core.Color) {
	v.fillWorld(e, ent.Bounds(), glyph, c)
}

func playerGlyph(s entity.State) rune {
	switch s {
	case entity.Jumping:
		return '^'
	case entity.Falling:
		return 'v'
	case entity.Sliding:
		return '_'
	case entity.Climbing:
		return 'H'
	default:
		return '@'
	}
}

func (v *RaceView) drawHUD(e *race.Engine) {
	s := v.Screen
	pos := e.Positions()
	rank := 1
	for i, p := range pos {
		if p.IsPlayer {
			rank = i + 1
			break
		}
	}
	progress := e.Player().Progress(e.Level().Length)

	left := fmt.Sprintf(" Level %d  %s  %.1fs", e.Level().Number, ordinal(rank), e.RaceTime())
	s.DrawText(0, 0, left, core.ColorHUD)

	bar := progressBar(progress, 20)
	s.DrawText(s.Width()-len([]rune(bar))-1, 0, bar, core.ColorHUD)

	var standings []string
	for i, p := range pos {
		standings = append(standings, fmt.Sprintf("%d.%s", i+1, p.Name))
	}
	s.DrawText(1, s.Height()-1, strings.Join(standings, " "), core.ColorMuted)
}

func (v *RaceView) drawOverlay(e *race.Engine) {
	s := v.Screen
	mid := s.Height() / 2

	switch e.Phase() {
	case race.Countdown:
		s.DrawTextCentered(mid, fmt.Sprintf("%d", int(math.Ceil(e.CountdownRemaining()))), core.ColorHUD)
	case race.Paused:
		s.DrawTextCentered(mid, "PAUSED", core.ColorHUD)
		s.DrawTextCentered(mid+1, "p to resume, b for levels, q to quit", core.ColorMuted)
	case race.Finished:
		res, _ := e.Result()
		w := 34
		x := (s.Width() - w) / 2
		s.FillRect(x, mid-3, w, 7, ' ', core.ColorDefault)
		s.DrawBox(x, mid-3, w, 7, core.ColorHUD)
		s.DrawTextCentered(mid-2, "RACE COMPLETE", core.ColorHUD)
		s.DrawTextCentered(mid-1, fmt.Sprintf("Position: %s", ordinal(res.Position)), core.ColorFinish)
		s.DrawTextCentered(mid, fmt.Sprintf("Time: %.2fs", res.CompletionTime), core.ColorFinish)
		s.DrawTextCentered(mid+1, fmt.Sprintf("Coins: +%d", res.CoinsEarned), core.ColorDashPad)
		s.DrawTextCentered(mid+2, "r race again  b levels  q quit", core.ColorMuted)
	default:
		if e.Banner() > 0 {
			s.DrawTextCentered(mid, "GO!", core.ColorHUD)
		}
	}
}

func progressBar(percent float64, width int) string {
	filled := int(math.Round(core.Clamp(percent, 0, 100) / 100 * float64(width)))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
