package sim

// Body is the movable capability shared by actors and resources
type Body struct {
	Pos Vec
	Vel Vec
}

// Integrate advances the position by one tick of velocity
func (b *Body) Integrate() {
	b.Pos = b.Pos.Add(b.Vel)
}

// Damp multiplies velocity by k
func (b *Body) Damp(k float64) {
	b.Vel = b.Vel.Scale(k)
}

// SteerToward sets velocity toward target at speed. Returns false (and leaves velocity
// untouched) when the target is within minDist.
func (b *Body) SteerToward(target Vec, speed, minDist float64) bool {
	d := target.Sub(b.Pos)
	dist := d.Len()
	if dist <= minDist {
		return false
	}
	b.Vel = d.Scale(speed / dist)
	return true
}

// Move integrates and then clamps into bounds using margin
func (b *Body) Move(bounds Bounds, margin float64) {
	b.Integrate()
	b.Pos = bounds.Clamp(b.Pos, margin)
}
