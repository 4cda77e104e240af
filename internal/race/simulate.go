package race

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-parkour/internal/random"
)

// DefaultRaceTimeLimit caps headless races that never reach the finish.
const DefaultRaceTimeLimit = 300.0

// Simulate runs one autopilot race on level n without rendering. seed
// drives the bots and the autopilot; 0 picks a time based seed. It reports
// whether the race finished within limit seconds of race clock.
func Simulate(n int, s Settings, seed int64, limit float64, logger *log.Logger) (Result, bool, error) {
	e, err := New(Options{
		Renderer:  Discard,
		Level:     n,
		Autopilot: true,
		Settings:  &s,
		Rand:      random.NewSource(seed),
		Logger:    logger,
	})
	if err != nil {
		return Result{}, false, err
	}
	if limit <= 0 {
		limit = DefaultRaceTimeLimit
	}
	res, ok := e.RunHeadless(limit)
	return res, ok, nil
}

// Summary aggregates simulated races.
type Summary struct {
	Runs         int     `json:"runs"`
	Finished     int     `json:"finished"`
	Wins         int     `json:"wins"`
	AvgPosition  float64 `json:"avgPosition"`
	AvgTime      float64 `json:"avgTime"`
	BestTime     float64 `json:"bestTime"`
	TotalCoins   int     `json:"totalCoins"`
	BestPosition int     `json:"bestPosition"`
}

// Summarize folds finished race results into a Summary. runs is the number
// of races attempted, including any that did not finish.
func Summarize(runs int, results []Result) Summary {
	sum := Summary{Runs: runs, Finished: len(results)}
	if len(results) == 0 {
		return sum
	}

	sum.BestTime = math.Inf(1)
	sum.BestPosition = math.MaxInt
	var pos, t float64
	for _, r := range results {
		if r.Position == 1 {
			sum.Wins++
		}
		pos += float64(r.Position)
		t += r.CompletionTime
		sum.TotalCoins += r.CoinsEarned
		sum.BestTime = math.Min(sum.BestTime, r.CompletionTime)
		sum.BestPosition = min(sum.BestPosition, r.Position)
	}
	sum.AvgPosition = pos / float64(len(results))
	sum.AvgTime = t / float64(len(results))
	return sum
}
