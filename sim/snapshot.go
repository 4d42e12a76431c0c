package sim

import (
	"sort"
	"time"
)

// ActorView is the render/leaderboard view of a living actor
type ActorView struct {
	ID           string
	Name         string
	Human        bool
	Pos          Vec
	Radius       float64
	Color        string
	Level        int
	TierName     string
	Score        int
	Health       float64
	MaxHealth    float64
	Invulnerable bool
	Kills        int
}

// FoodView is the render view of a food item
type FoodView struct {
	ID     string
	Pos    Vec
	Radius float64
	Color  string
	Pulse  float64
}

// ParticleView is the render view of a particle
type ParticleView struct {
	Pos   Vec
	Color string
	Size  float64
	Life  float64
}

// LeaderEntry is one leaderboard row
type LeaderEntry struct {
	Rank     int
	ID       string
	Name     string
	TierName string
	Score    int
	Human    bool
}

// Summary is the scalar HUD state of the player
type Summary struct {
	Name           string
	Score          int
	Level          int
	TierName       string
	Health         float64
	MaxHealth      float64
	Progress       int // score gained inside the current tier
	ProgressNeeded int // width of the current tier band
	MaxLevel       bool
	Elapsed        time.Duration
	Running        bool
	GameOver       bool
	Final          *FinalStats
}

// Snapshot is a read-only copy of the world for one tick
type Snapshot struct {
	Tick        uint64
	World       Bounds
	Actors      []ActorView
	Food        []FoodView
	Particles   []ParticleView
	Events      []Event
	Leaderboard []LeaderEntry
	Summary     Summary
}

// MinimapDot is a coarse actor marker
type MinimapDot struct {
	Pos    Vec
	Human  bool
	Threat bool // bot outranks the player
}

// Snapshot copies the current state. Dead actors are omitted.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tick:      w.tick,
		World:     w.params.World,
		Actors:    make([]ActorView, 0, len(w.roster)),
		Food:      make([]FoodView, 0, len(w.food)),
		Particles: make([]ParticleView, 0, len(w.particles)),
		Events:    append([]Event(nil), w.events...),
	}
	for _, a := range w.roster {
		if !a.Alive() {
			continue
		}
		s.Actors = append(s.Actors, ActorView{
			ID:           a.ID,
			Name:         a.Name,
			Human:        a == w.human,
			Pos:          a.Pos(),
			Radius:       a.Radius,
			Color:        a.Color,
			Level:        a.Level,
			TierName:     a.TierName,
			Score:        a.Score,
			Health:       a.Health,
			MaxHealth:    a.MaxHealth,
			Invulnerable: a.Invulnerable,
			Kills:        a.KillCount,
		})
	}
	for _, f := range w.food {
		s.Food = append(s.Food, FoodView{ID: f.ID, Pos: f.Pos(), Radius: f.Radius, Color: f.Color, Pulse: f.Pulse})
	}
	for _, pt := range w.particles {
		s.Particles = append(s.Particles, ParticleView{Pos: pt.Body.Pos, Color: pt.Color, Size: pt.Size, Life: pt.Life})
	}
	s.Leaderboard = w.Leaderboard(w.params.LeaderboardSize)
	s.Summary = w.Summary()
	return s
}

// Leaderboard ranks the player and the living bots by score, highest first,
// returning at most n rows (all rows when n <= 0). The player keeps a row after
// dying so the board freezes with them on it.
func (w *World) Leaderboard(n int) []LeaderEntry {
	live := make([]*Actor, 0, len(w.roster))
	for _, a := range w.roster {
		if a == w.human || a.Alive() {
			live = append(live, a)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		return live[i].Score > live[j].Score
	})
	if n > 0 && len(live) > n {
		live = live[:n]
	}
	entries := make([]LeaderEntry, len(live))
	for i, a := range live {
		entries[i] = LeaderEntry{
			Rank:     i + 1,
			ID:       a.ID,
			Name:     a.Name,
			TierName: a.TierName,
			Score:    a.Score,
			Human:    a == w.human,
		}
	}
	return entries
}

// Summary reports the player's HUD values
func (w *World) Summary() Summary {
	h := w.human
	if h == nil {
		return Summary{}
	}
	s := Summary{
		Name:      h.Name,
		Score:     h.Score,
		Level:     h.Level,
		TierName:  h.TierName,
		Health:    h.Health,
		MaxHealth: h.MaxHealth,
		Running:   w.running,
		GameOver:  w.started && !w.running,
		Final:     w.final,
	}
	cur := w.tiers.At(h.Level)
	if next, ok := w.tiers.Next(h.Level); ok {
		s.Progress = h.Score - cur.ScoreThreshold
		s.ProgressNeeded = next.ScoreThreshold - cur.ScoreThreshold
	} else {
		s.MaxLevel = true
	}
	switch {
	case w.final != nil:
		s.Elapsed = w.final.Survived
	case w.running:
		s.Elapsed = w.now().Sub(w.startTime)
	}
	return s
}

// Visible keeps only actors and food within the viewport centred on centre,
// extended by margin on every side
func (s Snapshot) Visible(centre Vec, width, height, margin float64) Snapshot {
	minX, maxX := centre.X-width/2-margin, centre.X+width/2+margin
	minY, maxY := centre.Y-height/2-margin, centre.Y+height/2+margin
	in := func(p Vec) bool {
		return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
	}

	out := s
	out.Actors = make([]ActorView, 0, len(s.Actors))
	for _, a := range s.Actors {
		if a.Human || in(a.Pos) {
			out.Actors = append(out.Actors, a)
		}
	}
	out.Food = make([]FoodView, 0)
	for _, f := range s.Food {
		if in(f.Pos) {
			out.Food = append(out.Food, f)
		}
	}
	out.Particles = make([]ParticleView, 0, len(s.Particles))
	for _, pt := range s.Particles {
		if in(pt.Pos) {
			out.Particles = append(out.Particles, pt)
		}
	}
	return out
}

// Minimap marks every living actor; bots above the player's level are threats
func (s Snapshot) Minimap() []MinimapDot {
	dots := make([]MinimapDot, 0, len(s.Actors))
	for _, a := range s.Actors {
		dots = append(dots, MinimapDot{
			Pos:    a.Pos,
			Human:  a.Human,
			Threat: !a.Human && a.Level > s.Summary.Level,
		})
	}
	return dots
}
