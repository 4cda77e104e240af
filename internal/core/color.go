package core

// Color is a foreground color for a screen cell, expressed as a hex string
// ("#RRGGBB") or an ANSI 256-color code. The empty string is the terminal
// default.
type Color string

// Palette used when drawing the course.
const (
	ColorDefault    Color = ""
	ColorSky        Color = "#1B1F3B"
	ColorGround     Color = "#7A5C3E"
	ColorGap        Color = "#000000"
	ColorWall       Color = "#8D99AE"
	ColorBarrier    Color = "#F4A261"
	ColorVent       Color = "#6C757D"
	ColorSpring     Color = "#2A9D8F"
	ColorDashPad    Color = "#E9C46A"
	ColorSpike      Color = "#E63946"
	ColorFinish     Color = "#FFFFFF"
	ColorHUD        Color = "#FFD700"
	ColorMuted      Color = "245"
	ColorBotDefault Color = "#4A90E2"
)

// Appearance is a racer's outfit colors. The simulation treats it as opaque
// styling data.
type Appearance struct {
	Primary   Color `json:"primary"`
	Secondary Color `json:"secondary"`
	Accent    Color `json:"accent"`
}
