package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"arena-server/sim"
)

// PopulationStats is a point-in-time aggregate over the living actors.
type PopulationStats struct {
	Tick      uint64  `csv:"tick"`
	Alive     int     `csv:"alive"`
	Bots      int     `csv:"bots"`
	MeanLevel float64 `csv:"level_mean"`
	StdLevel  float64 `csv:"level_std"`
	MeanScore float64 `csv:"score_mean"`
	StdScore  float64 `csv:"score_std"`
	MaxLevel  int     `csv:"level_max"`
}

// Summarize aggregates the actors of a snapshot.
func Summarize(s sim.Snapshot) PopulationStats {
	ps := PopulationStats{Tick: s.Tick, Alive: len(s.Actors)}
	if len(s.Actors) == 0 {
		return ps
	}

	levels := make([]float64, len(s.Actors))
	scores := make([]float64, len(s.Actors))
	for i, a := range s.Actors {
		levels[i] = float64(a.Level)
		scores[i] = float64(a.Score)
		if !a.Human {
			ps.Bots++
		}
		if a.Level > ps.MaxLevel {
			ps.MaxLevel = a.Level
		}
	}

	ps.MeanLevel, ps.StdLevel = meanStd(levels)
	ps.MeanScore, ps.StdScore = meanStd(scores)
	return ps
}

// meanStd is stat.MeanStdDev with a zero deviation for single samples
func meanStd(x []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PopulationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Int("alive", s.Alive),
		slog.Int("bots", s.Bots),
		slog.Float64("level_mean", s.MeanLevel),
		slog.Float64("level_std", s.StdLevel),
		slog.Float64("score_mean", s.MeanScore),
		slog.Float64("score_std", s.StdScore),
		slog.Int("level_max", s.MaxLevel),
	)
}
