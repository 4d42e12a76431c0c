package main

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"arena-server/config"
)

// fakeWS feeds queued text frames to ReadLoop and records everything written
type fakeWS struct {
	in chan []byte

	mu     sync.Mutex
	frames [][]byte
	kinds  []int
	closed bool
}

func newFakeWS(msgs ...string) *fakeWS {
	f := &fakeWS{in: make(chan []byte, len(msgs))}
	for _, m := range msgs {
		f.in <- []byte(m)
	}
	close(f.in)
	return f
}

func (f *fakeWS) ReadMessage() (int, []byte, error) {
	b, ok := <-f.in
	if !ok {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
	return websocket.TextMessage, b, nil
}

func (f *fakeWS) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	f.frames = append(f.frames, cp)
	f.kinds = append(f.kinds, kind)
	return nil
}

func (f *fakeWS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// messagesOfType decodes every written JSON frame whose "t" matches typ
func (f *fakeWS) messagesOfType(t *testing.T, typ string) []json.RawMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []json.RawMessage
	for _, b := range f.frames {
		var head struct {
			Type string `json:"t"`
		}
		if err := json.Unmarshal(b, &head); err != nil {
			t.Fatalf("frame is not JSON: %v", err)
		}
		if head.Type == typ {
			out = append(out, b)
		}
	}
	return out
}

// testConfig is the default config with a small, quiet arena
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.World.BotCount = 3
	cfg.World.FoodCount = 40
	cfg.World.Seed = 42
	cfg.Telemetry.StatsIntervalSec = 0
	return cfg
}

func newTestConn(t *testing.T, gl *GameLoop, ws *fakeWS) *Conn {
	t.Helper()
	s, err := gl.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return NewConn(ws, CodecJSON, s)
}
