package main

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"arena-server/sim"
)

func TestCodecEncode(t *testing.T) {
	msg := ErrorMsg{Type: MsgError, Message: "full"}

	frame, data, err := CodecJSON.Encode(msg)
	if err != nil {
		t.Fatal(err)
	}
	if frame != websocket.TextMessage || string(data) != `{"t":"e","m":"full"}` {
		t.Fatalf("json frame %d %s", frame, data)
	}

	frame, data, err = CodecMsgpack.Encode(msg)
	if err != nil {
		t.Fatal(err)
	}
	if frame != websocket.BinaryMessage {
		t.Fatalf("msgpack frame type = %d", frame)
	}
	var back map[string]interface{}
	if err := msgpack.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back["t"] != "e" || back["m"] != "full" {
		t.Fatalf("msgpack keys = %v", back)
	}

	if _, _, err := Codec("xml").Encode(msg); err == nil {
		t.Fatalf("unknown codec encoded without error")
	}
}

// packClient encodes msg the way a binary client would
func packClient(t *testing.T, msg ClientMessage) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(msg); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeClient(t *testing.T) {

	tests := []struct {
		name    string
		frame   int
		raw     []byte
		want    ClientMessage
		wantErr bool
	}{
		{"json start", websocket.TextMessage, []byte(`{"t":"j","n":"ada"}`), ClientMessage{Type: MsgJoin, Name: "ada"}, false},
		{"json aim", websocket.TextMessage, []byte(`{"t":"i","x":-5,"y":7.5}`), ClientMessage{Type: MsgInput, X: -5, Y: 7.5}, false},
		{"msgpack aim", websocket.BinaryMessage, packClient(t, ClientMessage{Type: MsgInput, X: 12.5, Y: -3}), ClientMessage{Type: MsgInput, X: 12.5, Y: -3}, false},
		{"msgpack infinite aim", websocket.BinaryMessage, packClient(t, ClientMessage{Type: MsgInput, X: math.Inf(1)}), ClientMessage{}, true},
		{"msgpack NaN aim", websocket.BinaryMessage, packClient(t, ClientMessage{Type: MsgInput, Y: math.NaN()}), ClientMessage{}, true},
		{"empty", websocket.TextMessage, nil, ClientMessage{}, true},
		{"garbage", websocket.TextMessage, []byte("{"), ClientMessage{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClient(tt.frame, tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewStateMsg(t *testing.T) {
	full := sim.Snapshot{
		Tick: 9,
		Actors: []sim.ActorView{
			{ID: "p", Name: "ada", Human: true, Pos: sim.Vec{X: 100.04, Y: 200.06}, Level: 2, Health: 99.2, MaxHealth: 125, Invulnerable: true},
			{ID: "b", Name: "bot", Pos: sim.Vec{X: 3000, Y: 3000}, Level: 5},
		},
		Food:      []sim.FoodView{{ID: "f1", Pos: sim.Vec{X: 1.26, Y: 2}, Radius: 6, Pulse: 0.33}},
		Particles: []sim.ParticleView{{Pos: sim.Vec{X: 1, Y: 1}, Size: 3.14, Life: 0.456}},
		Events:    []sim.Event{{Kind: sim.EventDamage, ActorID: "p", Amount: 5}},
		Summary: sim.Summary{
			Name: "ada", Level: 2, Health: 99.2, MaxHealth: 125,
			Progress: 40, ProgressNeeded: 100, Elapsed: 42500 * time.Millisecond,
		},
	}
	view := full.Visible(sim.Vec{X: 100, Y: 200}, 800, 600, 50)

	msg := NewStateMsg(view, full)
	if msg.Type != MsgState || msg.Tick != 9 {
		t.Fatalf("header = %s %d", msg.Type, msg.Tick)
	}
	if len(msg.Actors) != 1 {
		t.Fatalf("culled actors = %d, want 1", len(msg.Actors))
	}
	a := msg.Actors[0]
	if a.X != 100 || a.Y != 200.1 || a.Human != 1 || a.Invuln != 1 || a.Health != 100 {
		t.Errorf("actor = %+v", a)
	}
	if len(msg.Minimap) != 2 || msg.Minimap[1].Threat != 1 {
		t.Errorf("minimap = %+v", msg.Minimap)
	}
	if msg.Food[0].X != 1.3 || msg.Food[0].Pulse != 0.3 {
		t.Errorf("food = %+v", msg.Food[0])
	}
	if msg.Particles[0].Alpha != 0.46 {
		t.Errorf("particle alpha = %v", msg.Particles[0].Alpha)
	}
	if msg.Events[0].Kind != "damage" || msg.Events[0].Amount != 5 {
		t.Errorf("event = %+v", msg.Events[0])
	}
	if msg.Hud.Elapsed != 42 || msg.Hud.Progress != 40 || msg.Hud.Needed != 100 || msg.Hud.Health != 100 {
		t.Errorf("hud = %+v", msg.Hud)
	}

	// empty slices must encode as arrays, not null
	data, err := json.Marshal(NewStateMsg(sim.Snapshot{}, sim.Snapshot{}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"a":[]`)) || !bytes.Contains(data, []byte(`"f":[]`)) {
		t.Errorf("empty state = %s", data)
	}
}

func TestSessionWelcome(t *testing.T) {
	s, err := NewSession(sim.DefaultParams(), 1)
	if err != nil {
		t.Fatal(err)
	}
	w := s.Welcome("id-1")
	if w.Type != MsgWelcome || w.ID != "id-1" || w.Width != 4000 || w.Height != 4000 {
		t.Fatalf("welcome = %+v", w)
	}
	if len(w.Tiers) != 8 || w.Tiers[7].Threshold != 1800 {
		t.Fatalf("tiers = %+v", w.Tiers)
	}
}
