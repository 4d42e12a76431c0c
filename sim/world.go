package sim

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// randSource is the subset of *rand.Rand the simulation draws from
type randSource interface {
	Float64() float64
	Intn(n int) int
}

// Options configures a World. Zero Now and Rand fall back to the wall clock
// and a time-seeded source.
type Options struct {
	Params Params
	Now    func() time.Time
	Rand   *rand.Rand
}

// FinalStats summarises a finished run
type FinalStats struct {
	Name     string
	Score    int
	Level    int
	Kills    int
	Survived time.Duration
}

// World owns the whole simulation state. It is not safe for concurrent use:
// callers drive it from a single goroutine or guard it with their own lock.
type World struct {
	params Params
	tiers  *TierTable
	now    func() time.Time
	rng    randSource

	human     *Actor
	bots      []*Actor
	roster    []*Actor // human first, then bots
	food      []*Food
	particles []Particle
	events    []Event
	respawns  respawnQueue
	grid      *foodGrid

	started   bool
	running   bool
	startTime time.Time
	final     *FinalStats
	tick      uint64
	foodSeq   uint64
}

// NewWorld validates opts and returns an idle world waiting for Start
func NewWorld(opts Options) (*World, error) {
	tt, err := NewTierTable(opts.Params.Tiers)
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var rng randSource = opts.Rand
	if opts.Rand == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cell := 2 * opts.Params.ForageRadius
	if cell <= 0 {
		cell = 200
	}
	return &World{
		params: opts.Params,
		tiers:  tt,
		now:    now,
		rng:    rng,
		grid:   newFoodGrid(cell),
	}, nil
}

// Params returns the tuning the world runs with
func (w *World) Params() Params {
	return w.params
}

// Tiers returns the evolution ladder
func (w *World) Tiers() *TierTable {
	return w.tiers
}

// Running reports whether ticks currently advance the simulation
func (w *World) Running() bool {
	return w.running
}

// Started reports whether Start has been called
func (w *World) Started() bool {
	return w.started
}

// TickCount returns the number of ticks simulated
func (w *World) TickCount() uint64 {
	return w.tick
}

// Human returns the player actor (nil before Start)
func (w *World) Human() *Actor {
	return w.human
}

// Bots returns the bot roster
func (w *World) Bots() []*Actor {
	return w.bots
}

// Food returns the live food items
func (w *World) Food() []*Food {
	return w.food
}

// Start creates the player at the world centre, the bot roster and the food field.
// A blank name becomes DefaultPlayerName.
func (w *World) Start(name string) error {
	if w.started {
		return ErrAlreadyStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayerName
	}
	p := w.params

	w.human = newHuman(name, p.World.Center(), p, w.tiers)
	w.bots = make([]*Actor, 0, p.BotCount)
	for i := 0; i < p.BotCount; i++ {
		w.bots = append(w.bots, newBot(p.World.RandomPoint(w.rng), p, w.tiers, w.rng))
	}
	w.rebuildRoster()

	w.food = w.food[:0]
	w.spawnFood(p.FoodCount)

	w.particles = nil
	w.events = nil
	w.respawns = nil
	w.final = nil
	w.started = true
	w.running = true
	w.startTime = w.now()
	return nil
}

// Respawn reinstates the player at the world centre under the previous name.
// It is only valid after a game over.
func (w *World) Respawn() error {
	if !w.started {
		return ErrNotStarted
	}
	if w.running {
		return ErrStillAlive
	}
	now := w.now()
	// timers that fired while stopped are void
	w.respawns.due(now)

	w.human = newHuman(w.human.Name, w.params.World.Center(), w.params, w.tiers)
	w.rebuildRoster()
	w.particles = nil
	w.events = nil
	w.final = nil
	w.running = true
	w.startTime = now
	return nil
}

// SetAim records the latest aim vector (pointer minus viewport centre).
// Non-finite vectors are ignored.
func (w *World) SetAim(v Vec) {
	if w.human == nil || !v.Finite() {
		return
	}
	if hc, ok := w.human.Control.(*HumanControl); ok {
		hc.Aim = v
	}
}

func (w *World) rebuildRoster() {
	w.roster = make([]*Actor, 0, len(w.bots)+1)
	w.roster = append(w.roster, w.human)
	w.roster = append(w.roster, w.bots...)
}

func (w *World) nextFoodID() string {
	w.foodSeq++
	return fmt.Sprintf("f%d", w.foodSeq)
}

func (w *World) spawnFood(n int) {
	for i := 0; i < n; i++ {
		w.food = append(w.food, newFood(w.nextFoodID(), w.params.World.RandomPoint(w.rng), w.params, w.rng))
	}
}

// Tick advances the simulation by one step. It returns false without doing
// anything when the world is not running.
func (w *World) Tick() bool {
	if !w.running {
		return false
	}
	now := w.now()
	w.tick++
	w.grid.Rebuild(w.food)

	// 1. intent + movement + evolution
	for _, a := range w.roster {
		if a.Alive() {
			w.updateActor(a, now)
		}
	}

	// 2. cosmetic state
	for _, f := range w.food {
		f.Update(w.params.FoodPulseStep)
	}
	w.particles = updateParticles(w.particles, w.params.ParticleDrag)

	// 3. consumption, combat, replenishment
	w.collide(now)

	// 4. deferred bot revivals
	for _, bot := range w.respawns.due(now) {
		if !w.running {
			continue
		}
		bot.resetForRespawn(w.params.World.RandomPoint(w.rng), w.params, w.tiers)
	}

	w.pruneEvents(now)
	return true
}

func (w *World) updateActor(a *Actor, now time.Time) {
	p := w.params
	switch c := a.Control.(type) {
	case *HumanControl:
		if mag := c.Aim.Len(); mag > p.DeadZone {
			a.Body.Vel = c.Aim.Scale(p.PlayerSpeed / mag)
		} else {
			a.Body.Damp(p.PlayerCoast)
		}
	case *BotControl:
		if c.LastDecision.IsZero() || now.Sub(c.LastDecision) > c.Interval {
			c.Target = chooseTarget(a, w.grid, w.roster, p, w.rng)
			c.LastDecision = now
			c.Interval = p.DecideMin + time.Duration(w.rng.Float64()*float64(p.DecideJitter))
		}
		if !a.Body.SteerToward(c.Target, p.BotSpeed, p.BotArriveDist) {
			a.Body.Damp(p.BotArriveDamp)
		}
	}

	a.refreshInvulnerability(now, p.Invulnerability)
	a.Body.Move(p.World, a.Radius)

	// the burst is drawn in the tier being left
	prevRadius, prevColor := a.Radius, a.Color
	if gained := a.updateStats(p, w.tiers); gained > 0 && !a.Autonomous() {
		w.emit(Event{Kind: EventEvolved, ActorID: a.ID, Tier: a.TierName, Pos: a.Pos()}, p.EvolveEventTTL)
		w.particles = burst(w.particles, p.EvolveParticles, a.Pos(), prevRadius*2, 10, 0.02, prevColor,
			func() float64 { return w.rng.Float64()*5 + 2 }, w.rng)
	}
}

func (w *World) gameOver(now time.Time) {
	w.running = false
	h := w.human
	w.final = &FinalStats{
		Name:     h.Name,
		Score:    h.Score,
		Level:    h.Level,
		Kills:    h.KillCount,
		Survived: now.Sub(w.startTime).Truncate(time.Second),
	}
	w.emit(Event{Kind: EventGameOver, ActorID: h.ID, Amount: float64(h.Score), Pos: h.Pos()}, 0)
}

// Final returns the stats of the last finished run, or nil while playing
func (w *World) Final() *FinalStats {
	return w.final
}
