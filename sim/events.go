package sim

import "time"

// EventKind names a UI overlay event
type EventKind string

const (
	EventEvolved  EventKind = "evolved"
	EventDamage   EventKind = "damage"
	EventBonus    EventKind = "bonus"
	EventGameOver EventKind = "game_over"
)

// Event is a discrete notification with a bounded on-screen lifetime
type Event struct {
	Kind    EventKind
	ActorID string
	Tier    string  // evolved: tier display name
	Amount  float64 // damage dealt or bonus score
	Pos     Vec
	At      time.Time
	Expires time.Time
}

// Live reports whether the event is still on screen at now
func (e Event) Live(now time.Time) bool {
	return now.Before(e.Expires)
}

func (w *World) emit(e Event, ttl time.Duration) {
	e.At = w.now()
	e.Expires = e.At.Add(ttl)
	w.events = append(w.events, e)
}

// pruneEvents drops expired events in place. Game-over events persist until respawn.
func (w *World) pruneEvents(now time.Time) {
	kept := w.events[:0]
	for _, e := range w.events {
		if e.Kind == EventGameOver || e.Live(now) {
			kept = append(kept, e)
		}
	}
	w.events = kept
}
