package registry

import "github.com/vovakirdan/tui-parkour/internal/core"

func init() {
	for _, o := range []Outfit{
		{ID: DefaultOutfit, Name: "Default Runner", Cost: 0, Colors: look("#FF6B6B", "#4ECDC4", "#FFE66D")},
		{ID: "ninja", Name: "Shadow Ninja", Cost: 250, Colors: look("#2C2C2C", "#FF0000", "#FFFFFF")},
		{ID: "cyber", Name: "Cyber Runner", Cost: 500, Colors: look("#00FFFF", "#FF00FF", "#FFFF00")},
		{ID: "ocean", Name: "Ocean Wave", Cost: 600, Colors: look("#0077BE", "#00CED1", "#B0E0E6")},
		{ID: "forest", Name: "Forest Ranger", Cost: 750, Colors: look("#228B22", "#8B4513", "#90EE90")},
		{ID: "fire", Name: "Fire Storm", Cost: 800, Colors: look("#FF4500", "#FF8C00", "#FFD700")},
		{ID: "gold", Name: "Golden Champion", Cost: 1000, Colors: look("#FFD700", "#FFA500", "#FFFFE0")},
	} {
		Register(o)
	}
}

func look(primary, secondary, accent string) core.Appearance {
	return core.Appearance{
		Primary:   core.Color(primary),
		Secondary: core.Color(secondary),
		Accent:    core.Color(accent),
	}
}
