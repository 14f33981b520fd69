// Package synth schedules speech synthesis and publishes the resulting
// reply audio back to the originating client.
package synth

import (
	"context"
	"sync"
	"time"

	"github.com/corvidlabs/voicegate/audio"
	"github.com/corvidlabs/voicegate/interfaces"
	"github.com/corvidlabs/voicegate/log"
	"github.com/corvidlabs/voicegate/metrics"
)

// synthesisDeadline bounds a single synthesis-and-publish cycle so a
// stalled provider call cannot pin a goroutine forever.
const synthesisDeadline = 30 * time.Second

// Request is one reply to synthesize and deliver.
type Request struct {
	ClientID string
	Text     string
}

// Scheduler runs synthesis requests concurrently. Each request gets its
// own goroutine so a slow synthesis for one client never delays another.
type Scheduler struct {
	synthesizer interfaces.Synthesizer
	publisher   interfaces.AudioPublisher
	requests    chan Request

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// New creates a scheduler with the given queue capacity.
func New(synthesizer interfaces.Synthesizer, publisher interfaces.AudioPublisher, queueSize int) *Scheduler {
	return &Scheduler{
		synthesizer: synthesizer,
		publisher:   publisher,
		requests:    make(chan Request, queueSize),
	}
}

// Start launches the scheduling loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

// Schedule queues a synthesis request without blocking. A request that
// cannot be queued is dropped and logged; the client simply gets no reply
// for that turn.
func (s *Scheduler) Schedule(req Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		log.Info("synthesis request for client %s dropped: scheduler stopped", req.ClientID)
		return false
	}
	select {
	case s.requests <- req:
		return true
	default:
		log.Info("synthesis request for client %s dropped: queue full", req.ClientID)
		metrics.IncrementSynthesisFailures()
		return false
	}
}

// Stop drains the queue and waits for in-flight synthesis to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.requests)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	for req := range s.requests {
		s.wg.Add(1)
		go func(req Request) {
			defer s.wg.Done()
			s.process(req)
		}(req)
	}
}

// process synthesizes one reply and publishes it as WAV audio. Failures
// are logged and counted; nothing is published for a failed turn.
func (s *Scheduler) process(req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), synthesisDeadline)
	defer cancel()

	samples, err := s.synthesizer.Synthesize(ctx, req.Text)
	if err != nil {
		log.Error("synthesis failed for client "+req.ClientID, err)
		metrics.IncrementSynthesisFailures()
		return
	}

	wav := audio.WrapPCM(samples)
	if err := s.publisher.PublishAudio(req.ClientID, wav); err != nil {
		log.Error("failed to publish reply audio for client "+req.ClientID, err)
		metrics.IncrementSynthesisFailures()
		return
	}
	metrics.IncrementRepliesPublished()
	log.Info("published reply audio for client %s (%d bytes)", req.ClientID, len(wav))
}
