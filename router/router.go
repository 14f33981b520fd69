// Package router forwards inbound audio chunks into client sessions.
package router

import (
	"bytes"
	"context"
	"fmt"

	"github.com/corvidlabs/voicegate/log"
	"github.com/corvidlabs/voicegate/metrics"
	"github.com/corvidlabs/voicegate/session"
)

// EndOfStream is the literal payload a client publishes to terminate
// its audio stream.
var EndOfStream = []byte("END_OF_STREAM")

// Router routes audio-chunk messages to sessions by client identifier.
// It performs no buffering; each accepted chunk goes to the recognizer
// synchronously.
type Router struct {
	registry *session.Registry
}

// New creates a router backed by the given registry.
func New(registry *session.Registry) *Router {
	return &Router{registry: registry}
}

// OnAudioChunk handles one inbound message for clientID. A termination
// sentinel ends the session (a no-op when none exists). Any other payload
// implicitly starts a session and is written to its recognition stream;
// a failed write tears the session down so none is left half-broken.
func (r *Router) OnAudioChunk(ctx context.Context, clientID string, payload []byte) {
	metrics.IncrementChunksReceived()

	if bytes.Equal(payload, EndOfStream) {
		r.registry.End(clientID)
		return
	}

	s, err := r.registry.Start(ctx, clientID)
	if err != nil {
		log.Error(fmt.Sprintf("starting session for client %s", clientID), err)
		return
	}

	if err := s.Write(payload); err != nil {
		log.Error(fmt.Sprintf("writing audio for client %s", clientID), err)
		r.registry.End(clientID)
	}
}
