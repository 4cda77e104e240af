package ai

import (
	"math"

	"github.com/vovakirdan/tui-parkour/internal/random"
)

// PersonalityType flavors how a bot commits to actions.
type PersonalityType string

const (
	Aggressive PersonalityType = "aggressive"
	Cautious   PersonalityType = "cautious"
	Balanced   PersonalityType = "balanced"
)

var personalityTypes = []PersonalityType{Aggressive, Cautious, Balanced}

// Personality is fixed for a bot's lifetime. All values are in [0, 1].
type Personality struct {
	Type          PersonalityType
	RiskTolerance float64
	ReactionSpeed float64
	MistakeChance float64
}

// NewPersonality rolls a personality for the given course difficulty.
// Harder courses get bolder, faster and more reliable bots.
func NewPersonality(difficulty float64, rng random.Source) Personality {
	idx := int(rng.Float64() * float64(len(personalityTypes)))
	idx = min(max(idx, 0), len(personalityTypes)-1)

	return Personality{
		Type:          personalityTypes[idx],
		RiskTolerance: 0.5 + difficulty*0.3,
		ReactionSpeed: 0.6 + difficulty*0.3,
		MistakeChance: MistakeChance(difficulty),
	}
}

// MistakeChance returns the per-decision error probability for difficulty.
func MistakeChance(difficulty float64) float64 {
	return math.Max(0.05, 0.2-difficulty*0.15)
}

// ReactionDelay returns the probability threshold a bot must beat to act
// on its decision in a given tick.
func ReactionDelay(difficulty float64) float64 {
	return math.Max(0.05, 0.2-difficulty*0.15)
}
