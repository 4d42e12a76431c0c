package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arena-server/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// nil receiver discards writes
	if err := om.WriteStats(PopulationStats{}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteSession(SessionRecord{}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteSession(SessionRecord{Name: "p", Score: i}); err != nil {
			t.Fatalf("WriteSession: %v", err)
		}
	}
	if err := om.WriteStats(PopulationStats{Tick: 1, Alive: 4}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sessions.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("sessions.csv has %d lines, want 4:\n%s", len(lines), data)
	}
	if lines[0] != "name,score,level,kills,survived_sec,ended_at" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "name,score") != 1 {
		t.Errorf("header repeated:\n%s", data)
	}

	data, err = os.ReadFile(filepath.Join(dir, "population.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "tick,alive,bots,") {
		t.Errorf("population header = %q", data)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("written config does not reload: %v", err)
	}
}
