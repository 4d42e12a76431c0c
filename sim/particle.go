package sim

// Particle is a short-lived cosmetic effect. It never interacts with anything.
type Particle struct {
	Body  Body
	Life  float64 // 1 at spawn, removed at <= 0
	Decay float64
	Color string
	Size  float64
}

// burst appends n particles scattered around centre
func burst(dst []Particle, n int, centre Vec, spread, speed, decay float64, color string, size func() float64, rng randSource) []Particle {
	for i := 0; i < n; i++ {
		dst = append(dst, Particle{
			Body: Body{
				Pos: Vec{
					X: centre.X + (rng.Float64()-0.5)*spread,
					Y: centre.Y + (rng.Float64()-0.5)*spread,
				},
				Vel: Vec{
					X: (rng.Float64() - 0.5) * speed,
					Y: (rng.Float64() - 0.5) * speed,
				},
			},
			Life:  1,
			Decay: decay,
			Color: color,
			Size:  size(),
		})
	}
	return dst
}

// updateParticles advances every particle and drops the expired ones in place
func updateParticles(ps []Particle, drag float64) []Particle {
	kept := ps[:0]
	for _, pt := range ps {
		pt.Body.Integrate()
		pt.Life -= pt.Decay
		pt.Body.Damp(drag)
		if pt.Life > 0 {
			kept = append(kept, pt)
		}
	}
	return kept
}
