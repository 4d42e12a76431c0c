package sim

import (
	"fmt"
	"math"
)

// Food is a passive collectible that grants score when consumed
type Food struct {
	ID     string
	Body   Body
	Radius float64
	Value  int
	Hue    float64
	Color  string
	Pulse  float64 // cosmetic phase, radians

	eaten bool
}

// newFood creates a food item at pos with a random size, hue and pulse phase.
// Value is ceil(radius/2).
func newFood(id string, pos Vec, p Params, rng randSource) *Food {
	radius := p.FoodMinRadius + rng.Float64()*(p.FoodMaxRadius-p.FoodMinRadius)
	hue := rng.Float64() * 360
	return &Food{
		ID:     id,
		Body:   Body{Pos: pos},
		Radius: radius,
		Value:  int(math.Ceil(radius / 2)),
		Hue:    hue,
		Color:  fmt.Sprintf("hsl(%.0f, 70%%, 60%%)", hue),
		Pulse:  rng.Float64() * 2 * math.Pi,
	}
}

// Update advances the cosmetic pulse. Food never moves.
func (f *Food) Update(step float64) {
	f.Pulse += step
}

// Pos returns the food centre
func (f *Food) Pos() Vec {
	return f.Body.Pos
}
