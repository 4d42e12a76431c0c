package sim

import "math"

// foodIndex answers radius queries over live food
type foodIndex interface {
	Nearby(pos Vec, radius float64) []*Food
}

// chooseTarget runs the bot decision policy for self and returns the new steering point.
//
// Priority: forage (best value/(d+1) food inside ForageRadius), then social scoring over
// living actors inside SocialRadius (hunt lower levels, negative score for higher levels,
// zero for peers; the maximum is taken even when negative), then a random wander point.
func chooseTarget(self *Actor, food foodIndex, actors []*Actor, p Params, rng randSource) Vec {
	pos := self.Pos()

	var best Vec
	found := false
	bestScore := math.Inf(-1)

	for _, f := range food.Nearby(pos, p.ForageRadius) {
		if f.eaten {
			continue
		}
		d := Distance(f.Pos(), pos)
		if d >= p.ForageRadius {
			continue
		}
		score := float64(f.Value) / (d + 1)
		if score > bestScore {
			bestScore = score
			best = f.Pos()
			found = true
		}
	}
	if found {
		return best
	}

	for _, other := range actors {
		if other == self || !other.Alive() {
			continue
		}
		d := Distance(other.Pos(), pos)
		if d >= p.SocialRadius {
			continue
		}
		score := 0.0
		switch {
		case self.Level > other.Level:
			score = (float64(other.Score) + p.HuntScoreOffset) / (d + 1)
		case self.Level < other.Level:
			score = -p.AvoidWeight / (d + 1)
		}
		if score > bestScore {
			bestScore = score
			best = other.Pos()
			found = true
		}
	}
	if found {
		return best
	}

	return Vec{
		X: pos.X + (rng.Float64()-0.5)*2*p.WanderRange,
		Y: pos.Y + (rng.Float64()-0.5)*2*p.WanderRange,
	}
}
