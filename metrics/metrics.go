// Package metrics holds counters for gateway operations.
package metrics

import "sync/atomic"

var (
	chunksReceived       int64
	utterancesRecognized int64
	tasksDispatched      int64
	tasksDropped         int64
	repliesPublished     int64
	synthesisFailures    int64
)

// IncrementChunksReceived atomically increments the audio chunk counter.
func IncrementChunksReceived() {
	atomic.AddInt64(&chunksReceived, 1)
}

// IncrementUtterancesRecognized atomically increments the finalized utterance counter.
func IncrementUtterancesRecognized() {
	atomic.AddInt64(&utterancesRecognized, 1)
}

// IncrementTasksDispatched atomically increments the dispatched task counter.
func IncrementTasksDispatched() {
	atomic.AddInt64(&tasksDispatched, 1)
}

// IncrementTasksDropped atomically increments the dropped task counter.
func IncrementTasksDropped() {
	atomic.AddInt64(&tasksDropped, 1)
}

// IncrementRepliesPublished atomically increments the published reply counter.
func IncrementRepliesPublished() {
	atomic.AddInt64(&repliesPublished, 1)
}

// IncrementSynthesisFailures atomically increments the synthesis failure counter.
func IncrementSynthesisFailures() {
	atomic.AddInt64(&synthesisFailures, 1)
}

// Get returns the current metrics as a map.
func Get() map[string]interface{} {
	return map[string]interface{}{
		"chunks_received":       atomic.LoadInt64(&chunksReceived),
		"utterances_recognized": atomic.LoadInt64(&utterancesRecognized),
		"tasks_dispatched":      atomic.LoadInt64(&tasksDispatched),
		"tasks_dropped":         atomic.LoadInt64(&tasksDropped),
		"replies_published":     atomic.LoadInt64(&repliesPublished),
		"synthesis_failures":    atomic.LoadInt64(&synthesisFailures),
	}
}
