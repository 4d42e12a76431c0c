package sim

import "fmt"

// Tier is one rung of the evolution ladder
type Tier struct {
	Level          int     `yaml:"level"`
	Radius         float64 `yaml:"radius"`
	Color          string  `yaml:"color"`
	Name           string  `yaml:"name"`
	ScoreThreshold int     `yaml:"threshold"`
}

// DefaultTiers is the stock eight-stage ladder
var DefaultTiers = []Tier{
	{Level: 1, Radius: 15, Color: "#4CAF50", Name: "🟢 Blob", ScoreThreshold: 0},
	{Level: 2, Radius: 20, Color: "#2196F3", Name: "🔵 Crawler", ScoreThreshold: 50},
	{Level: 3, Radius: 25, Color: "#FF9800", Name: "🟠 Hunter", ScoreThreshold: 150},
	{Level: 4, Radius: 30, Color: "#E91E63", Name: "🔴 Predator", ScoreThreshold: 300},
	{Level: 5, Radius: 35, Color: "#9C27B0", Name: "🟣 Beast", ScoreThreshold: 500},
	{Level: 6, Radius: 40, Color: "#F44336", Name: "🔥 Monster", ScoreThreshold: 800},
	{Level: 7, Radius: 45, Color: "#FF5722", Name: "👹 Demon", ScoreThreshold: 1200},
	{Level: 8, Radius: 50, Color: "#795548", Name: "🐉 Dragon", ScoreThreshold: 1800},
}

// TierTable is a read-only, validated ladder shared by every actor
type TierTable struct {
	tiers []Tier
}

// NewTierTable validates tiers and returns a table that owns a copy of them.
// Levels must run 1..n in order and thresholds must strictly increase.
func NewTierTable(tiers []Tier) (*TierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTiers)
	}
	for i, t := range tiers {
		if t.Level != i+1 {
			return nil, fmt.Errorf("%w: entry %d has level %d, want %d", ErrInvalidTiers, i, t.Level, i+1)
		}
		if t.Radius <= 0 {
			return nil, fmt.Errorf("%w: level %d radius %.1f", ErrInvalidTiers, t.Level, t.Radius)
		}
		if i > 0 && t.ScoreThreshold <= tiers[i-1].ScoreThreshold {
			return nil, fmt.Errorf("%w: level %d threshold %d not above %d",
				ErrInvalidTiers, t.Level, t.ScoreThreshold, tiers[i-1].ScoreThreshold)
		}
	}
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return &TierTable{tiers: cp}, nil
}

// MustTierTable is like NewTierTable but panics on error.
func MustTierTable(tiers []Tier) *TierTable {
	tt, err := NewTierTable(tiers)
	if err != nil {
		panic(err)
	}
	return tt
}

// MaxLevel is the highest reachable level
func (tt *TierTable) MaxLevel() int {
	return len(tt.tiers)
}

// At returns the tier for level, clamped into the table
func (tt *TierTable) At(level int) Tier {
	if level < 1 {
		level = 1
	}
	if level > len(tt.tiers) {
		level = len(tt.tiers)
	}
	return tt.tiers[level-1]
}

// Next returns the tier above level and false when level is already the top
func (tt *TierTable) Next(level int) (Tier, bool) {
	if level < 1 || level >= len(tt.tiers) {
		return Tier{}, false
	}
	return tt.tiers[level], true
}

// All returns a copy of the ladder for display
func (tt *TierTable) All() []Tier {
	cp := make([]Tier, len(tt.tiers))
	copy(cp, tt.tiers)
	return cp
}
