// Package tui provides the Bubble Tea integration for the parkour race.
// It drives the race engine from terminal frames, maps keys to racer
// controls and draws the course into a colored cell buffer.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent to request one race frame at the given wall time.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends the next frame message
// at the specified rate.
func frameCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
