package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Control selects how an actor's intent is produced each tick.
// It is either *HumanControl or *BotControl.
type Control interface {
	control()
}

// HumanControl steers from an externally supplied aim vector
// (pointer position minus viewport centre)
type HumanControl struct {
	Aim Vec
}

// BotControl holds the autonomous decision state
type BotControl struct {
	Target       Vec
	LastDecision time.Time     // zero forces a decision on the next update
	Interval     time.Duration // wait before the next decision
}

func (*HumanControl) control() {}
func (*BotControl) control()   {}

// Actor is any entity that scores, evolves and fights: the human player or a bot
type Actor struct {
	ID       string
	Name     string
	Body     Body
	Level    int
	Score    int
	Radius   float64
	Color    string
	TierName string

	Health       float64
	MaxHealth    float64
	Invulnerable bool
	LastDamage   time.Time
	KillCount    int

	Control Control
}

// Alive reports whether the actor takes part in the simulation
func (a *Actor) Alive() bool {
	return a.Health > 0
}

// Autonomous reports whether the actor is bot-controlled
func (a *Actor) Autonomous() bool {
	_, ok := a.Control.(*BotControl)
	return ok
}

// Pos returns the actor centre
func (a *Actor) Pos() Vec {
	return a.Body.Pos
}

// newHuman builds the player actor at pos with full level-1 stats
func newHuman(name string, pos Vec, p Params, tt *TierTable) *Actor {
	a := &Actor{
		ID:      uuid.New().String(),
		Name:    name,
		Body:    Body{Pos: pos},
		Level:   1,
		Health:  p.BaseHealth,
		Control: &HumanControl{},
	}
	a.deriveTier(p, tt)
	return a
}

// newBot builds a fully-formed bot record at pos. A fraction of bots start at a
// higher tier with a score inside that tier's band.
func newBot(pos Vec, p Params, tt *TierTable, rng randSource) *Actor {
	a := &Actor{
		ID:      uuid.New().String(),
		Name:    botName(rng),
		Body:    Body{Pos: pos},
		Level:   1,
		Health:  p.BaseHealth,
		Control: &BotControl{Target: pos},
	}
	if rng.Float64() < p.SeedChance {
		span := p.SeedMaxLevel - p.SeedMinLevel + 1
		if span < 1 {
			span = 1
		}
		level := p.SeedMinLevel + rng.Intn(span)
		if level > tt.MaxLevel() {
			level = tt.MaxLevel()
		}
		a.Level = level
		a.Score = tt.At(level).ScoreThreshold + int(rng.Float64()*p.SeedScoreJitter)
	}
	a.deriveTier(p, tt)
	return a
}

var (
	botPrefixes = []string{"Alpha", "Beta", "Gamma", "Delta", "Omega", "Zeta", "Sigma", "Theta", "Prime", "Neo"}
	botSuffixes = []string{"Beast", "Hunter", "Killer", "Master", "Lord", "King", "Slayer", "Warrior"}
)

func botName(rng randSource) string {
	return fmt.Sprintf("%s%s%d",
		botPrefixes[rng.Intn(len(botPrefixes))],
		botSuffixes[rng.Intn(len(botSuffixes))],
		rng.Intn(99)+1)
}

// deriveTier recomputes radius, color, name and max health from the level and
// clamps health into [0, MaxHealth]. It never changes the level.
func (a *Actor) deriveTier(p Params, tt *TierTable) {
	if a.Level > tt.MaxLevel() {
		a.Level = tt.MaxLevel()
	}
	if a.Level < 1 {
		a.Level = 1
	}
	t := tt.At(a.Level)
	a.Radius = t.Radius
	a.Color = t.Color
	a.TierName = t.Name
	a.MaxHealth = p.MaxHealthAt(a.Level)
	if math.IsNaN(a.Health) || a.Health < 0 {
		a.Health = 0
	}
	if a.Health > a.MaxHealth {
		a.Health = a.MaxHealth
	}
	if a.Score < 0 {
		a.Score = 0
	}
}

// updateStats promotes the actor through every tier whose threshold its score
// meets, healing fully on each step, then re-derives visible attributes.
// Returns the number of levels gained.
func (a *Actor) updateStats(p Params, tt *TierTable) int {
	gained := 0
	for {
		next, ok := tt.Next(a.Level)
		if !ok || a.Score < next.ScoreThreshold {
			break
		}
		a.Level++
		a.MaxHealth = p.MaxHealthAt(a.Level)
		a.Health = a.MaxHealth
		gained++
	}
	a.deriveTier(p, tt)
	return gained
}

// invulnerableAt reports whether a hit at now falls inside the post-hit window
func (a *Actor) invulnerableAt(now time.Time, window time.Duration) bool {
	return a.Invulnerable && now.Sub(a.LastDamage) <= window
}

// refreshInvulnerability clears the flag once the window has elapsed
func (a *Actor) refreshInvulnerability(now time.Time, window time.Duration) {
	if a.Invulnerable && now.Sub(a.LastDamage) > window {
		a.Invulnerable = false
	}
}

// hit is the outcome of a damage attempt
type hit struct {
	applied bool
	died    bool
	bonus   int
}

// takeDamage applies damage from attacker unless the actor is invulnerable.
// On death the attacker is credited with a kill and a share of the victim's score.
func (a *Actor) takeDamage(damage float64, attacker *Actor, now time.Time, p Params) hit {
	if a.invulnerableAt(now, p.Invulnerability) {
		return hit{}
	}
	a.Health -= damage
	a.LastDamage = now
	a.Invulnerable = true
	h := hit{applied: true}
	if a.Health <= 0 {
		a.Health = 0
		h.died = true
		if attacker != nil {
			attacker.KillCount++
			h.bonus = int(math.Floor(float64(a.Score) * p.KillBonusRatio))
			attacker.Score += h.bonus
		}
	}
	return h
}

// resetForRespawn returns a dead bot to level 1 at pos, keeping a fraction of its score
func (a *Actor) resetForRespawn(pos Vec, p Params, tt *TierTable) {
	a.Body = Body{Pos: pos}
	a.Level = 1
	a.Score = int(math.Floor(float64(a.Score) * p.RespawnScoreKeep))
	a.Health = p.BaseHealth
	a.Invulnerable = false
	a.LastDamage = time.Time{}
	a.KillCount = 0
	if bc, ok := a.Control.(*BotControl); ok {
		bc.Target = pos
		bc.LastDecision = time.Time{}
		bc.Interval = 0
	}
	a.deriveTier(p, tt)
}
