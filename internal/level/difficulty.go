package level

import "math"

// Seed derives the generation seed for a level number.
func Seed(levelNumber int) int64 {
	return int64(levelNumber)*12345 + 67890
}

// Difficulty returns the course difficulty in [0, 1]. It grows linearly to
// level 1000 and jumps by 0.05 at every hundredth level.
func Difficulty(levelNumber int) float64 {
	n := float64(Normalize(levelNumber))
	d := math.Min(n/1000, 1) + math.Floor(n/100)*0.05
	return math.Min(d, 1)
}

// Length returns the course length in pixels for the given parameters.
func (p Params) Length(levelNumber int) float64 {
	return p.BaseLength + math.Floor(float64(Normalize(levelNumber))/10)*p.LengthStep
}

// Normalize clamps level numbers below 1 to 1.
func Normalize(levelNumber int) int {
	return max(levelNumber, 1)
}
