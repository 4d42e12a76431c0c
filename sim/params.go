package sim

import (
	"errors"
	"time"
)

var (
	ErrAlreadyStarted = errors.New("sim: game already started")
	ErrNotStarted     = errors.New("sim: game not started")
	ErrStillAlive     = errors.New("sim: player is still alive")
	ErrInvalidTiers   = errors.New("sim: invalid tier table")
)

// DefaultPlayerName is used when the start trigger carries a blank name
const DefaultPlayerName = "Anonymous"

// Params holds every tunable of the simulation. Speeds are per-tick displacements.
type Params struct {
	World Bounds

	FoodCount       int
	FoodRefillRatio float64 // refill when live food < FoodCount*ratio
	FoodRefillBatch int
	FoodMinRadius   float64
	FoodMaxRadius   float64
	FoodPulseStep   float64
	BotCount        int

	PlayerSpeed   float64
	BotSpeed      float64
	DeadZone      float64 // aim magnitude below which the player coasts
	PlayerCoast   float64
	BotArriveDist float64
	BotArriveDamp float64

	BaseHealth       float64
	HealthPerLevel   float64
	Invulnerability  time.Duration
	RespawnDelay     time.Duration
	RespawnScoreKeep float64
	SeedChance       float64 // chance a fresh bot starts at a higher tier
	SeedMinLevel     int
	SeedMaxLevel     int
	SeedScoreJitter  float64

	ForageRadius    float64
	SocialRadius    float64
	WanderRange     float64
	DecideMin       time.Duration
	DecideJitter    time.Duration
	AvoidWeight     float64
	HuntScoreOffset float64

	Clinch         float64 // overlap required before combat triggers
	MajorGap       int
	MajorBase      float64
	MajorPerLevel  float64
	MinorDamage    float64
	MinorChance    float64
	KillBonusRatio float64

	ParticleDrag    float64
	EvolveParticles int
	EatParticles    int

	EvolveEventTTL time.Duration
	DamageEventTTL time.Duration
	BonusEventTTL  time.Duration

	LeaderboardSize int

	Tiers []Tier
}

// DefaultParams returns the stock arena tuning
func DefaultParams() Params {
	return Params{
		World: Bounds{Width: 4000, Height: 4000},

		FoodCount:       800,
		FoodRefillRatio: 0.6,
		FoodRefillBatch: 100,
		FoodMinRadius:   4,
		FoodMaxRadius:   10,
		FoodPulseStep:   0.1,
		BotCount:        25,

		PlayerSpeed:   3.5,
		BotSpeed:      2.8,
		DeadZone:      10,
		PlayerCoast:   0.9,
		BotArriveDist: 5,
		BotArriveDamp: 0.8,

		BaseHealth:       100,
		HealthPerLevel:   25,
		Invulnerability:  time.Second,
		RespawnDelay:     3 * time.Second,
		RespawnScoreKeep: 0.3,
		SeedChance:       0.3,
		SeedMinLevel:     2,
		SeedMaxLevel:     4,
		SeedScoreJitter:  100,

		ForageRadius:    150,
		SocialRadius:    200,
		WanderRange:     150,
		DecideMin:       1500 * time.Millisecond,
		DecideJitter:    1000 * time.Millisecond,
		AvoidWeight:     1000,
		HuntScoreOffset: 100,

		Clinch:         10,
		MajorGap:       2,
		MajorBase:      15,
		MajorPerLevel:  5,
		MinorDamage:    5,
		MinorChance:    0.1,
		KillBonusRatio: 0.3,

		ParticleDrag:    0.98,
		EvolveParticles: 20,
		EatParticles:    5,

		EvolveEventTTL: 2500 * time.Millisecond,
		DamageEventTTL: time.Second,
		BonusEventTTL:  1500 * time.Millisecond,

		LeaderboardSize: 10,

		Tiers: DefaultTiers,
	}
}

// MaxHealthAt returns the health cap for level
func (p Params) MaxHealthAt(level int) float64 {
	return p.BaseHealth + p.HealthPerLevel*float64(level-1)
}
