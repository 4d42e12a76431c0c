package main

import (
	"encoding/json"
	"testing"

	"arena-server/sim"
)

func TestReadLoopTriggers(t *testing.T) {
	gl := NewGameLoop(testConfig(t), NewConnManager(), nil)
	ws := newFakeWS(
		`{"t":"j","n":"  tester  "}`,
		`not json`,
		`{"t":"j","n":"again"}`,
		`{"t":"r"}`,
		`{"t":"i","x":30,"y":-40}`,
	)
	c := newTestConn(t, gl, ws)

	disconnected := false
	c.ReadLoop(func(*Conn) { disconnected = true })

	if !disconnected || !ws.closed {
		t.Fatalf("disconnect=%v closed=%v, want both", disconnected, ws.closed)
	}

	w := c.Session().world
	if !w.Running() || w.Human().Name != "tester" {
		t.Fatalf("running=%v name=%q", w.Running(), w.Human().Name)
	}
	hc := w.Human().Control.(*sim.HumanControl)
	if hc.Aim != (sim.Vec{X: 30, Y: -40}) {
		t.Errorf("aim = %+v", hc.Aim)
	}

	errs := ws.messagesOfType(t, MsgError)
	if len(errs) != 2 {
		t.Fatalf("got %d error messages, want 2", len(errs))
	}
	want := []string{"game already started", "player is still alive"}
	for i, raw := range errs {
		var m ErrorMsg
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatal(err)
		}
		if m.Message != want[i] {
			t.Errorf("error %d = %q, want %q", i, m.Message, want[i])
		}
	}
}

func TestRespawnBeforeStartIsRejected(t *testing.T) {
	gl := NewGameLoop(testConfig(t), NewConnManager(), nil)
	ws := newFakeWS(`{"t":"r"}`)
	c := newTestConn(t, gl, ws)
	c.ReadLoop(func(*Conn) {})

	errs := ws.messagesOfType(t, MsgError)
	if len(errs) != 1 {
		t.Fatalf("got %d error messages, want 1", len(errs))
	}
	var m ErrorMsg
	_ = json.Unmarshal(errs[0], &m)
	if m.Message != "game not started" {
		t.Errorf("message = %q", m.Message)
	}
}

func TestSendAfterCloseIsDropped(t *testing.T) {
	gl := NewGameLoop(testConfig(t), NewConnManager(), nil)
	ws := newFakeWS()
	c := newTestConn(t, gl, ws)
	c.Close()
	c.Close()
	if err := c.Send(ErrorMsg{Type: MsgError}); err != nil {
		t.Fatalf("Send after close: %v", err)
	}
	if len(ws.frames) != 0 {
		t.Fatalf("wrote %d frames after close", len(ws.frames))
	}
}

func TestConnManager(t *testing.T) {
	m := NewConnManager()
	gl := NewGameLoop(testConfig(t), m, nil)
	a := newTestConn(t, gl, newFakeWS())
	b := newTestConn(t, gl, newFakeWS())
	m.Add(a)
	m.Add(b)
	if m.Count() != 2 || len(m.Snapshot()) != 2 {
		t.Fatalf("count = %d", m.Count())
	}
	m.Remove(a.ID)
	if list := m.Snapshot(); m.Count() != 1 || len(list) != 1 || list[0] != b {
		t.Fatalf("remove failed")
	}
}
