package jobtrace

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
)

// Stage represents one step of the flattening pipeline for counter tracking.
type Stage string

const (
	StageObjectsListed Stage = "objects_listed"
	StageObjectsRead   Stage = "objects_read"
	StageItemsMapped   Stage = "items_mapped"
	StageRowsEncoded   Stage = "rows_encoded"
	StageOutputWritten Stage = "output_written"
)

// JobTrace captures stage counters for one (channel, video) invocation.
type JobTrace struct {
	ChannelID string
	VideoID   string
	TraceID   string

	mu       sync.Mutex
	counters map[Stage]int64
}

// New constructs a trace for one trigger. The trace ID is a stable digest of
// the pair, so repeated runs for the same trigger log under the same ID.
func New(channelID, videoID string) *JobTrace {
	return &JobTrace{
		ChannelID: channelID,
		VideoID:   videoID,
		TraceID:   computeTraceID(channelID, videoID),
		counters:  make(map[Stage]int64),
	}
}

// Add increases the counter for the given stage and returns the new value.
func (t *JobTrace) Add(stage Stage, n int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counters[stage] += n
	return t.counters[stage]
}

// Count returns the current counter for a stage.
func (t *JobTrace) Count(stage Stage) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[stage]
}

// LogTrace logs the trace metadata and counters using structured logging.
func (t *JobTrace) LogTrace(logger *slog.Logger, msg string) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info(msg,
		"trace_id", t.TraceID,
		"channel_id", t.ChannelID,
		"video_id", t.VideoID,
		"counters", t.snapshotCounters(),
	)
}

func (t *JobTrace) snapshotCounters() map[Stage]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	copy := make(map[Stage]int64, len(t.counters))
	for stage, count := range t.counters {
		copy[stage] = count
	}

	return copy
}

func computeTraceID(channelID, videoID string) string {
	digest := sha256.Sum256([]byte(channelID + "\x1f" + videoID))
	return hex.EncodeToString(digest[:])
}
