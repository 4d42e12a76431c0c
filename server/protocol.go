package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"arena-server/sim"
)

// Protocol uses single-character keys to minimize wire size.
// All x,y coordinates are rounded to 1 decimal place.
//
// Message type constants (value of "t" field):
//   Client → Server:
//     "j" = start   {"t":"j","n":"PlayerName"}
//     "i" = aim     {"t":"i","x":-120.5,"y":40}   (pointer minus viewport centre)
//     "r" = respawn {"t":"r"}
//   Server → Client:
//     "w" = welcome {"t":"w","i":"id","x":4000,"y":4000,"v":[tiers]}
//     "s" = state   {"t":"s","a":[actors],"f":[food],"p":[particles],"e":[events],"l":[board],"m":[dots],"h":{hud}}
//     "o" = over    {"t":"o","n":"name","p":score,"l":level,"k":kills,"s":seconds}
//     "e" = error   {"t":"e","m":"message"}
//
// With the msgpack codec the same keys travel in binary frames.

// Message type identifiers
const (
	MsgJoin     = "j"
	MsgInput    = "i"
	MsgRespawn  = "r"
	MsgWelcome  = "w"
	MsgState    = "s"
	MsgGameOver = "o"
	MsgError    = "e"
)

// ClientMessage is the base incoming message from the browser.
type ClientMessage struct {
	Type string  `json:"t"`
	Name string  `json:"n,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// TierDTO describes one evolution stage for the client legend.
type TierDTO struct {
	Level     int     `json:"l"`
	Radius    float64 `json:"r"`
	Color     string  `json:"c"`
	Name      string  `json:"n"`
	Threshold int     `json:"p"`
}

// WelcomeMsg is sent immediately on WebSocket connect.
type WelcomeMsg struct {
	Type   string    `json:"t"`
	ID     string    `json:"i"`
	Width  float64   `json:"x"`
	Height float64   `json:"y"`
	Tiers  []TierDTO `json:"v"`
}

// ActorDTO is the compact actor for per-tick state updates.
// u = controlled by this client, v = invulnerable (0 or 1)
type ActorDTO struct {
	ID        string  `json:"i"`
	Name      string  `json:"n"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"r"`
	Color     string  `json:"c"`
	Level     int     `json:"l"`
	Tier      string  `json:"g"`
	Score     int     `json:"p"`
	Health    float64 `json:"h"`
	MaxHealth float64 `json:"k"`
	Invuln    int     `json:"v,omitempty"`
	Human     int     `json:"u,omitempty"`
}

// FoodDTO is the compact food item. z = pulse phase
type FoodDTO struct {
	ID     string  `json:"i"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Color  string  `json:"c"`
	Pulse  float64 `json:"z"`
}

// ParticleDTO is one cosmetic particle. a = remaining life used as alpha
type ParticleDTO struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"c"`
	Size  float64 `json:"s"`
	Alpha float64 `json:"a"`
}

// EventDTO is an overlay notification (evolved, damage, bonus, game_over).
type EventDTO struct {
	Kind   string  `json:"k"`
	Actor  string  `json:"i"`
	Tier   string  `json:"n,omitempty"`
	Amount float64 `json:"v,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// LeaderboardEntry is a single leaderboard row.
type LeaderboardEntry struct {
	Rank  int    `json:"r"`
	ID    string `json:"i"`
	Name  string `json:"n"`
	Tier  string `json:"g"`
	Score int    `json:"p"`
	Human int    `json:"u,omitempty"`
}

// MinimapDot is a lightweight actor position for the minimap. d = outranks the player
type MinimapDot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Human  int     `json:"u,omitempty"`
	Threat int     `json:"d,omitempty"`
}

// HudDTO carries the player's scalar HUD values.
type HudDTO struct {
	Name      string  `json:"n"`
	Score     int     `json:"p"`
	Level     int     `json:"l"`
	Tier      string  `json:"g"`
	Health    float64 `json:"h"`
	MaxHealth float64 `json:"k"`
	Progress  int     `json:"q"`
	Needed    int     `json:"z"`
	MaxLevel  int     `json:"m,omitempty"`
	Elapsed   int     `json:"e"` // whole seconds
	GameOver  int     `json:"o,omitempty"`
}

// StateMsg is the per-tick state update sent to each client.
type StateMsg struct {
	Type        string             `json:"t"`
	Tick        uint64             `json:"n"`
	Actors      []ActorDTO         `json:"a"`
	Food        []FoodDTO          `json:"f"`
	Particles   []ParticleDTO      `json:"p"`
	Events      []EventDTO         `json:"e"`
	Leaderboard []LeaderboardEntry `json:"l"`
	Minimap     []MinimapDot       `json:"m,omitempty"`
	Hud         HudDTO             `json:"h"`
}

// GameOverMsg is sent once when the player's run ends.
type GameOverMsg struct {
	Type     string `json:"t"`
	Name     string `json:"n"`
	Score    int    `json:"p"`
	Level    int    `json:"l"`
	Kills    int    `json:"k"`
	Survived int    `json:"s"`
}

// ErrorMsg reports a rejected request or connection.
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

// Codec selects the wire format of server messages.
type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

// Encode serializes msg and returns the websocket frame type to send it in.
func (c Codec) Encode(msg interface{}) (int, []byte, error) {
	switch c {
	case CodecMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(msg); err != nil {
			return 0, nil, err
		}
		return websocket.BinaryMessage, buf.Bytes(), nil
	case CodecJSON, "":
		data, err := json.Marshal(msg)
		if err != nil {
			return 0, nil, err
		}
		return websocket.TextMessage, data, nil
	default:
		return 0, nil, fmt.Errorf("unknown codec %q", string(c))
	}
}

// DecodeClient parses an incoming frame. Binary frames are msgpack, text frames JSON,
// whatever codec the server sends with.
func DecodeClient(frame int, raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	if len(raw) == 0 {
		return msg, fmt.Errorf("empty frame")
	}
	if frame == websocket.BinaryMessage {
		dec := msgpack.NewDecoder(bytes.NewReader(raw))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&msg); err != nil {
			return ClientMessage{}, err
		}
	} else if err := json.Unmarshal(raw, &msg); err != nil {
		return ClientMessage{}, err
	}
	if !finite(msg.X) || !finite(msg.Y) {
		return ClientMessage{}, fmt.Errorf("non-finite aim (%v, %v)", msg.X, msg.Y)
	}
	return msg, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func flag01(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NewWelcomeMsg describes the world a fresh connection will play in.
func NewWelcomeMsg(id string, world sim.Bounds, ladder []sim.Tier) WelcomeMsg {
	tiers := make([]TierDTO, len(ladder))
	for i, t := range ladder {
		tiers[i] = TierDTO{Level: t.Level, Radius: t.Radius, Color: t.Color, Name: t.Name, Threshold: t.ScoreThreshold}
	}
	return WelcomeMsg{Type: MsgWelcome, ID: id, Width: world.Width, Height: world.Height, Tiers: tiers}
}

// NewStateMsg converts a (viewport-culled) snapshot into its wire form.
// The minimap is built from full, the unculled snapshot.
func NewStateMsg(view, full sim.Snapshot) StateMsg {
	msg := StateMsg{
		Type:        MsgState,
		Tick:        view.Tick,
		Actors:      make([]ActorDTO, len(view.Actors)),
		Food:        make([]FoodDTO, len(view.Food)),
		Particles:   make([]ParticleDTO, len(view.Particles)),
		Events:      make([]EventDTO, len(view.Events)),
		Leaderboard: make([]LeaderboardEntry, len(view.Leaderboard)),
	}
	for i, a := range view.Actors {
		msg.Actors[i] = ActorDTO{
			ID:        a.ID,
			Name:      a.Name,
			X:         round1(a.Pos.X),
			Y:         round1(a.Pos.Y),
			Radius:    a.Radius,
			Color:     a.Color,
			Level:     a.Level,
			Tier:      a.TierName,
			Score:     a.Score,
			Health:    math.Ceil(a.Health),
			MaxHealth: a.MaxHealth,
			Invuln:    flag01(a.Invulnerable),
			Human:     flag01(a.Human),
		}
	}
	for i, f := range view.Food {
		msg.Food[i] = FoodDTO{ID: f.ID, X: round1(f.Pos.X), Y: round1(f.Pos.Y), Radius: f.Radius, Color: f.Color, Pulse: round1(f.Pulse)}
	}
	for i, p := range view.Particles {
		msg.Particles[i] = ParticleDTO{X: round1(p.Pos.X), Y: round1(p.Pos.Y), Color: p.Color, Size: round1(p.Size), Alpha: math.Round(p.Life*100) / 100}
	}
	for i, e := range view.Events {
		msg.Events[i] = EventDTO{Kind: string(e.Kind), Actor: e.ActorID, Tier: e.Tier, Amount: e.Amount, X: round1(e.Pos.X), Y: round1(e.Pos.Y)}
	}
	for i, l := range view.Leaderboard {
		msg.Leaderboard[i] = LeaderboardEntry{Rank: l.Rank, ID: l.ID, Name: l.Name, Tier: l.TierName, Score: l.Score, Human: flag01(l.Human)}
	}
	for _, d := range full.Minimap() {
		msg.Minimap = append(msg.Minimap, MinimapDot{X: round1(d.Pos.X), Y: round1(d.Pos.Y), Human: flag01(d.Human), Threat: flag01(d.Threat)})
	}

	s := view.Summary
	msg.Hud = HudDTO{
		Name:      s.Name,
		Score:     s.Score,
		Level:     s.Level,
		Tier:      s.TierName,
		Health:    math.Ceil(s.Health),
		MaxHealth: s.MaxHealth,
		Progress:  s.Progress,
		Needed:    s.ProgressNeeded,
		MaxLevel:  flag01(s.MaxLevel),
		Elapsed:   int(s.Elapsed.Seconds()),
		GameOver:  flag01(s.GameOver),
	}
	return msg
}

// NewGameOverMsg reports the final stats of a run.
func NewGameOverMsg(f sim.FinalStats) GameOverMsg {
	return GameOverMsg{
		Type:     MsgGameOver,
		Name:     f.Name,
		Score:    f.Score,
		Level:    f.Level,
		Kills:    f.Kills,
		Survived: int(f.Survived.Seconds()),
	}
}
