package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// quietParams is the stock tuning without any bots or food, so tests place
// every entity themselves
func quietParams() Params {
	p := DefaultParams()
	p.BotCount = 0
	p.FoodCount = 0
	return p
}

func newTestWorld(t *testing.T, p Params) (*World, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	w, err := NewWorld(Options{Params: p, Now: clock.Now, Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w, clock
}

func startedWorld(t *testing.T) (*World, *fakeClock) {
	t.Helper()
	w, clock := newTestWorld(t, quietParams())
	if err := w.Start("tester"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return w, clock
}

// addBot places a bot with the given level and score at pos
func addBot(w *World, level, score int, pos Vec) *Actor {
	b := newBot(pos, w.params, w.tiers, w.rng)
	b.Level = level
	b.Score = score
	b.Health = w.params.MaxHealthAt(level)
	b.deriveTier(w.params, w.tiers)
	w.bots = append(w.bots, b)
	w.rebuildRoster()
	return b
}

// addFood places a food item with a fixed radius at pos
func addFood(w *World, pos Vec, radius float64) *Food {
	f := newFood(w.nextFoodID(), pos, w.params, w.rng)
	f.Radius = radius
	f.Value = int(math.Ceil(radius / 2))
	w.food = append(w.food, f)
	return f
}

// sliceIndex is a brute-force foodIndex
type sliceIndex []*Food

func (s sliceIndex) Nearby(pos Vec, radius float64) []*Food {
	var out []*Food
	for _, f := range s {
		if Distance(f.Pos(), pos) <= radius {
			out = append(out, f)
		}
	}
	return out
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
