package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"arena-server/config"
	"arena-server/sim"
	"arena-server/telemetry"
)

// GameLoop drives every connected session at a fixed tick rate
type GameLoop struct {
	cfg    *config.Config
	params sim.Params
	conns  *ConnManager
	out    *telemetry.OutputManager

	seeds     atomic.Int64 // sessions created so far, offsets a fixed seed
	tickCount uint64
	lastStats time.Time
}

// NewGameLoop creates a game loop bound to the conn manager. out may be nil.
func NewGameLoop(cfg *config.Config, conns *ConnManager, out *telemetry.OutputManager) *GameLoop {
	return &GameLoop{
		cfg:    cfg,
		params: cfg.SimParams(),
		conns:  conns,
		out:    out,
	}
}

// NewSession creates the arena for a new connection. With a fixed world seed
// each session gets seed+n so runs stay reproducible but distinct.
func (gl *GameLoop) NewSession() (*Session, error) {
	n := gl.seeds.Add(1)
	var seed int64
	if base := gl.cfg.World.Seed; base != 0 {
		seed = base + n - 1
	}
	return NewSession(gl.params, seed)
}

// Run starts the fixed-timestep loop. Blocks until ctx is cancelled.
func (gl *GameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(gl.cfg.TickInterval())
	defer ticker.Stop()
	slog.Info("game loop started", "tick_rate", gl.cfg.Server.TickRate)

	gl.lastStats = time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("game loop stopped", "ticks", gl.tickCount)
			return
		case now := <-ticker.C:
			gl.tick(now)
		}
	}
}

// tick executes a single update of every session and broadcasts the results
func (gl *GameLoop) tick(now time.Time) {
	gl.tickCount++
	sc := gl.cfg.Server

	var population []sim.ActorView
	for _, c := range gl.conns.Snapshot() {
		res, ok := c.Session().Step()
		if !ok {
			continue
		}
		population = append(population, res.Snapshot.Actors...)

		view := res.Snapshot.Visible(res.Camera, sc.ViewportWidth, sc.ViewportHeight, sc.ViewportMargin)
		if err := c.Send(NewStateMsg(view, res.Snapshot)); err != nil {
			slog.Warn("send error", "conn", c.ID, "error", err)
		}

		if res.Final != nil {
			gl.finish(c, *res.Final, now)
		}
	}

	if every := gl.cfg.StatsInterval(); every > 0 && now.Sub(gl.lastStats) >= every {
		gl.lastStats = now
		gl.reportStats(population)
	}
}

// finish reports a finished run to its client, the log and the session CSV
func (gl *GameLoop) finish(c *Conn, f sim.FinalStats, now time.Time) {
	if err := c.Send(NewGameOverMsg(f)); err != nil {
		slog.Warn("send error", "conn", c.ID, "error", err)
	}
	rec := telemetry.NewSessionRecord(f, now)
	slog.Info("game over", "conn", c.ID, "session", rec)
	if err := gl.out.WriteSession(rec); err != nil {
		slog.Error("failed to write session", "error", err)
	}
}

// reportStats logs and records aggregate population statistics
func (gl *GameLoop) reportStats(population []sim.ActorView) {
	stats := telemetry.Summarize(sim.Snapshot{Tick: gl.tickCount, Actors: population})
	slog.Info("population", "sessions", gl.conns.Count(), "stats", stats)
	if err := gl.out.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
}
