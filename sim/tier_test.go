package sim

import (
	"errors"
	"testing"
)

func TestNewTierTableValidation(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Tier
	}{
		{name: "empty", tiers: nil},
		{name: "starts above one", tiers: []Tier{{Level: 2, Radius: 10}}},
		{name: "level gap", tiers: []Tier{{Level: 1, Radius: 10}, {Level: 3, Radius: 12, ScoreThreshold: 10}}},
		{name: "flat threshold", tiers: []Tier{{Level: 1, Radius: 10}, {Level: 2, Radius: 12}}},
		{name: "zero radius", tiers: []Tier{{Level: 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTierTable(tc.tiers); !errors.Is(err, ErrInvalidTiers) {
				t.Fatalf("err = %v, want ErrInvalidTiers", err)
			}
		})
	}
}

func TestTierTableLookups(t *testing.T) {
	tt := MustTierTable(DefaultTiers)
	if tt.MaxLevel() != 8 {
		t.Fatalf("max level = %d, want 8", tt.MaxLevel())
	}
	if got := tt.At(99).Level; got != 8 {
		t.Fatalf("At(99) = level %d, want clamp to 8", got)
	}
	if next, ok := tt.Next(1); !ok || next.ScoreThreshold != 50 {
		t.Fatalf("Next(1) = %+v %v", next, ok)
	}
	if _, ok := tt.Next(8); ok {
		t.Fatalf("Next(8) should report the top of the ladder")
	}
}

func TestUpdateStatsClimbsSeveralTiers(t *testing.T) {
	p := DefaultParams()
	tt := MustTierTable(DefaultTiers)
	a := &Actor{Level: 1, Score: 520, Health: 10}
	if gained := a.updateStats(p, tt); gained != 4 {
		t.Fatalf("gained = %d, want 4", gained)
	}
	if a.Level != 5 || a.Health != 200 || a.MaxHealth != 200 {
		t.Fatalf("level %d health %.0f/%.0f, want 5 200/200", a.Level, a.Health, a.MaxHealth)
	}
}

func TestUpdateStatsStopsAtTopTier(t *testing.T) {
	p := DefaultParams()
	tt := MustTierTable(DefaultTiers)
	a := &Actor{Level: 8, Score: 1 << 30, Health: 50}
	if gained := a.updateStats(p, tt); gained != 0 {
		t.Fatalf("gained = %d at top tier", gained)
	}
	if a.Level != 8 || a.Radius != 50 {
		t.Fatalf("level %d radius %.0f", a.Level, a.Radius)
	}
}

func TestUpdateStatsIsIdempotent(t *testing.T) {
	p := DefaultParams()
	tt := MustTierTable(DefaultTiers)
	a := &Actor{Level: 1, Score: 160, Health: 100}
	a.updateStats(p, tt)
	before := *a
	a.updateStats(p, tt)
	if a.Level != before.Level || a.Radius != before.Radius || a.Color != before.Color ||
		a.TierName != before.TierName || a.Health != before.Health || a.MaxHealth != before.MaxHealth {
		t.Fatalf("second update changed state: %+v -> %+v", before, *a)
	}
}

func TestDeriveTierClampsHealth(t *testing.T) {
	p := DefaultParams()
	tt := MustTierTable(DefaultTiers)
	a := &Actor{Level: 2, Health: 500, Score: -4}
	a.deriveTier(p, tt)
	if a.Health != 125 {
		t.Fatalf("health = %.0f, want clamp to 125", a.Health)
	}
	if a.Score != 0 {
		t.Fatalf("score = %d, want 0", a.Score)
	}
	a.Health = -3
	a.deriveTier(p, tt)
	if a.Health != 0 {
		t.Fatalf("health = %.0f, want clamp to 0", a.Health)
	}
}
