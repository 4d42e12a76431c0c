package telemetry

import (
	"log/slog"
	"time"

	"arena-server/sim"
)

// SessionRecord is one finished player run.
type SessionRecord struct {
	Name        string  `csv:"name"`
	Score       int     `csv:"score"`
	Level       int     `csv:"level"`
	Kills       int     `csv:"kills"`
	SurvivedSec float64 `csv:"survived_sec"`
	EndedAt     string  `csv:"ended_at"`
}

// NewSessionRecord converts final stats into a record stamped with end.
func NewSessionRecord(f sim.FinalStats, end time.Time) SessionRecord {
	return SessionRecord{
		Name:        f.Name,
		Score:       f.Score,
		Level:       f.Level,
		Kills:       f.Kills,
		SurvivedSec: f.Survived.Seconds(),
		EndedAt:     end.UTC().Format(time.RFC3339),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (r SessionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", r.Name),
		slog.Int("score", r.Score),
		slog.Int("level", r.Level),
		slog.Int("kills", r.Kills),
		slog.Float64("survived_sec", r.SurvivedSec),
	)
}
