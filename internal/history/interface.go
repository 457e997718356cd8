package history

import (
	"context"
	"strconv"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/model"
)

// Collector records status samples.
type Collector interface {
	Record(ctx context.Context, sample *Sample) error
	Close() error
}

// Repository is the storage behind a Collector.
type Repository interface {
	Record(sample *Sample) error
	Recent(ctx context.Context, limit int) ([]*Sample, error)
	Close() error
}

// Sample is the persisted subset of a status snapshot.
type Sample struct {
	Timestamp        time.Time
	QPS              float64
	BufferHit        float64
	Questions        int64
	Uptime           int64
	ThreadsConnected int64
	ThreadsRunning   int64
}

// NewSample extracts a Sample from a status snapshot. Counters that are
// missing or not numeric are recorded as zero.
func NewSample(s *model.StatusSnapshot, qps, bufferHit float64) *Sample {
	if s == nil {
		return nil
	}

	return &Sample{
		Timestamp:        s.TakenAt,
		QPS:              qps,
		BufferHit:        bufferHit,
		Questions:        parseCounter(s.Get(model.KeyQuestions)),
		Uptime:           parseCounter(s.Get(model.KeyUptime)),
		ThreadsConnected: parseCounter(s.Get("Threads_connected")),
		ThreadsRunning:   parseCounter(s.Get("Threads_running")),
	}
}

func parseCounter(v string) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}

	return n
}
