package main

import (
	"math/rand"
	"sync"
	"time"

	"arena-server/sim"
)

// Session is one player's private arena: a single human, its bots and food.
type Session struct {
	mu       sync.Mutex // protects world and reported
	world    *sim.World
	reported bool // final stats of the current run already handed out
}

// NewSession creates an idle world. A zero seed draws one from the clock.
func NewSession(p sim.Params, seed int64) (*Session, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, err := sim.NewWorld(sim.Options{
		Params: p,
		Rand:   rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return nil, err
	}
	return &Session{world: w}, nil
}

// Welcome describes this session's world to the client identified by id.
func (s *Session) Welcome(id string) WelcomeMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewWelcomeMsg(id, s.world.Params().World, s.world.Tiers().All())
}

// Start begins the first run under name.
func (s *Session) Start(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Start(name)
}

// Respawn begins a new run after a game over.
func (s *Session) Respawn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.world.Respawn(); err != nil {
		return err
	}
	s.reported = false
	return nil
}

// SetAim stores the latest pointer offset from the viewport centre.
func (s *Session) SetAim(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.SetAim(sim.Vec{X: x, Y: y})
}

// StepResult is what one tick of a session produced.
type StepResult struct {
	Snapshot sim.Snapshot
	Camera   sim.Vec         // player position, the viewport centre
	Final    *sim.FinalStats // set only on the tick the run ended
}

// Step advances the world one tick. ok is false until the session is started.
func (s *Session) Step() (res StepResult, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.Started() {
		return res, false
	}
	s.world.Tick()
	res.Snapshot = s.world.Snapshot()
	if h := s.world.Human(); h != nil {
		res.Camera = h.Pos()
	}
	if f := s.world.Final(); f != nil && !s.reported {
		s.reported = true
		final := *f
		res.Final = &final
	}
	return res, true
}
