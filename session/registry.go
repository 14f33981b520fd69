// Package session owns the lifecycle of per-client recognition sessions.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/corvidlabs/voicegate/interfaces"
	"github.com/corvidlabs/voicegate/log"
)

// ClientSession binds one client identifier to its recognition stream.
type ClientSession struct {
	ID     string
	stream interfaces.SpeechStream
}

// Write forwards audio bytes into the session's recognition stream.
func (s *ClientSession) Write(audio []byte) error {
	return s.stream.Write(audio)
}

// Registry maps client identifiers to active sessions. It is the only
// structure mutated from multiple goroutines (ingestion and recognizer
// error teardown), so every access goes through the mutex.
type Registry struct {
	mu         sync.Mutex
	sessions   map[string]*ClientSession
	recognizer interfaces.Recognizer
}

// NewRegistry creates an empty registry backed by the given recognizer.
func NewRegistry(recognizer interfaces.Recognizer) *Registry {
	return &Registry{
		sessions:   make(map[string]*ClientSession),
		recognizer: recognizer,
	}
}

// Start creates and registers a session for clientID. If one already
// exists it is returned unchanged; starting is idempotent.
func (r *Registry) Start(ctx context.Context, clientID string) (*ClientSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[clientID]; ok {
		return existing, nil
	}

	stream, err := r.recognizer.OpenStream(ctx, clientID, func(err error) {
		log.Error(fmt.Sprintf("recognizer fault for client %s", clientID), err)
		r.End(clientID)
	})
	if err != nil {
		return nil, fmt.Errorf("could not start recognition for client %s: %w", clientID, err)
	}

	s := &ClientSession{ID: clientID, stream: stream}
	r.sessions[clientID] = s
	log.Info("Started recognition session for client %s", clientID)
	return s, nil
}

// End tears down the session for clientID. It is a no-op when no session
// exists. The stream is released before the registry entry is removed;
// close errors are logged, never propagated.
func (r *Registry) End(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[clientID]
	if !ok {
		return
	}
	if err := s.stream.Close(); err != nil {
		log.Error(fmt.Sprintf("closing recognition stream for client %s", clientID), err)
	}
	delete(r.sessions, clientID)
	log.Info("Ended recognition session for client %s", clientID)
}

// Lookup returns the session for clientID. Absence is a normal state.
func (r *Registry) Lookup(clientID string) (*ClientSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[clientID]
	return s, ok
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EndAll tears down every active session. Used at shutdown.
func (r *Registry) EndAll() {
	r.mu.Lock()
	clientIDs := make([]string, 0, len(r.sessions))
	for clientID := range r.sessions {
		clientIDs = append(clientIDs, clientID)
	}
	r.mu.Unlock()

	for _, clientID := range clientIDs {
		r.End(clientID)
	}
}
