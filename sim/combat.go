package sim

import "time"

// collide runs the per-tick interaction passes in order: consumption, combat,
// replenishment. A player death ends the pass immediately.
func (w *World) collide(now time.Time) {
	if !w.running {
		return
	}
	if w.human.Alive() {
		w.consume(w.human, true)
	}
	for _, bot := range w.bots {
		if bot.Alive() {
			w.consume(bot, false)
		}
	}
	w.compactFood()

	if w.fight(now) {
		return
	}
	w.replenishFood()
}

// consume removes every food item overlapping a and credits its value.
// Eaten items are skipped by later consumers in the same tick.
func (w *World) consume(a *Actor, effects bool) {
	p := w.params
	for _, f := range w.grid.Nearby(a.Pos(), a.Radius+p.FoodMaxRadius) {
		if f.eaten {
			continue
		}
		if Distance(f.Pos(), a.Pos()) >= a.Radius+f.Radius {
			continue
		}
		f.eaten = true
		a.Score += f.Value
		if effects {
			w.particles = burst(w.particles, p.EatParticles, f.Pos(), 0, 8, 0.03, f.Color,
				func() float64 { return 3 }, w.rng)
		}
	}
}

func (w *World) compactFood() {
	kept := w.food[:0]
	for _, f := range w.food {
		if !f.eaten {
			kept = append(kept, f)
		}
	}
	for i := len(kept); i < len(w.food); i++ {
		w.food[i] = nil
	}
	w.food = kept
}

// fight resolves damage for every overlapping pair of living actors.
// Returns true when the player died and the game is over.
func (w *World) fight(now time.Time) bool {
	p := w.params
	live := make([]*Actor, 0, len(w.roster))
	for _, a := range w.roster {
		if a.Alive() {
			live = append(live, a)
		}
	}

	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			a, b := live[i], live[j]
			// a pair member may have died earlier in this pass
			if !a.Alive() || !b.Alive() {
				continue
			}
			if Distance(a.Pos(), b.Pos()) >= a.Radius+b.Radius-p.Clinch {
				continue
			}
			diff := a.Level - b.Level
			if diff == 0 {
				continue
			}
			stronger, weaker := a, b
			if diff < 0 {
				stronger, weaker = b, a
			}
			gap := diff
			if gap < 0 {
				gap = -gap
			}

			var damage float64
			if gap >= p.MajorGap {
				damage = p.MajorBase + p.MajorPerLevel*float64(gap)
			} else {
				if w.rng.Float64() >= p.MinorChance {
					continue
				}
				damage = p.MinorDamage
			}

			if w.strike(weaker, stronger, damage, now) {
				return true
			}
		}
	}
	return false
}

// strike applies one hit and handles its consequences. Returns true on game over.
func (w *World) strike(victim, attacker *Actor, damage float64, now time.Time) bool {
	p := w.params
	h := victim.takeDamage(damage, attacker, now, p)
	if !h.applied {
		return false
	}
	w.emit(Event{Kind: EventDamage, ActorID: victim.ID, Amount: damage,
		Pos: victim.Pos().Sub(Vec{Y: victim.Radius})}, p.DamageEventTTL)
	if !h.died {
		return false
	}
	w.emit(Event{Kind: EventBonus, ActorID: attacker.ID, Amount: float64(h.bonus),
		Pos: attacker.Pos().Sub(Vec{Y: attacker.Radius + 20})}, p.BonusEventTTL)

	if victim == w.human {
		w.gameOver(now)
		return true
	}
	w.respawns.schedule(victim, now.Add(p.RespawnDelay))
	return false
}

// replenishFood tops the field up by one batch when it runs low
func (w *World) replenishFood() {
	p := w.params
	if float64(len(w.food)) < float64(p.FoodCount)*p.FoodRefillRatio {
		w.spawnFood(p.FoodRefillBatch)
	}
}
