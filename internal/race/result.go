package race

import (
	"math"
	"sort"

	"github.com/vovakirdan/tui-parkour/internal/entity"
)

// Result is the outcome of a race, produced once when it finishes.
type Result struct {
	Position       int     `json:"position"` // 1 = winner
	LevelNumber    int     `json:"levelNumber"`
	CompletionTime float64 `json:"completionTime"` // seconds of race clock
	CoinsEarned    int     `json:"coinsEarned"`
}

// RacePosition is one row of the live standings.
type RacePosition struct {
	Name     string  `json:"name"`
	Progress float64 `json:"progress"` // percent of the course, capped at 100
	X        float64 `json:"x"`
	IsPlayer bool    `json:"isPlayer"`
}

// Rank returns the player's finishing position: one plus the number of
// racers strictly ahead. Ties do not demote the player.
func Rank(playerX float64, others []float64) int {
	rank := 1
	for _, x := range others {
		if x > playerX {
			rank++
		}
	}
	return rank
}

// Reward returns floor(base * multipliers[rank-1]), or 0 when the rank is
// outside the table.
func Reward(rank, base int, multipliers []float64) int {
	if rank < 1 || rank > len(multipliers) {
		return 0
	}
	return int(math.Floor(float64(base) * multipliers[rank-1]))
}

// Standings builds race positions sorted by descending progress. The
// player comes first among equals.
func Standings(player *entity.Player, bots []*entity.Bot, levelLength float64) []RacePosition {
	out := make([]RacePosition, 0, len(bots)+1)
	out = append(out, RacePosition{
		Name:     entity.PlayerName,
		Progress: player.Progress(levelLength),
		X:        player.Position.X,
		IsPlayer: true,
	})
	for _, b := range bots {
		out = append(out, RacePosition{
			Name:     b.Name,
			Progress: b.Progress(levelLength),
			X:        b.Position.X,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Progress > out[j].Progress
	})
	return out
}
