package router

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/voicegate/interfaces"
	"github.com/corvidlabs/voicegate/session"
)

type fakeStream struct {
	mu       sync.Mutex
	writes   [][]byte
	writeErr error
}

func (f *fakeStream) Write(audio []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, audio)
	return nil
}

func (f *fakeStream) Close() error { return nil }

type fakeRecognizer struct {
	mu      sync.Mutex
	streams map[string]*fakeStream
	nextErr error
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{streams: make(map[string]*fakeStream)}
}

func (f *fakeRecognizer) OpenStream(ctx context.Context, clientID string, onError func(error)) (interfaces.SpeechStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeStream{writeErr: f.nextErr}
	f.streams[clientID] = s
	return s, nil
}

func TestRouter_FirstChunkStartsSession(t *testing.T) {
	rec := newFakeRecognizer()
	registry := session.NewRegistry(rec)
	r := New(registry)

	r.OnAudioChunk(context.Background(), "c1", []byte{0xAA, 0xBB})

	require.Equal(t, 1, registry.Count())
	require.Len(t, rec.streams["c1"].writes, 1)
	assert.Equal(t, []byte{0xAA, 0xBB}, rec.streams["c1"].writes[0])
}

func TestRouter_SentinelEndsSession(t *testing.T) {
	rec := newFakeRecognizer()
	registry := session.NewRegistry(rec)
	r := New(registry)

	r.OnAudioChunk(context.Background(), "c1", []byte{0x01})
	require.Equal(t, 1, registry.Count())

	r.OnAudioChunk(context.Background(), "c1", EndOfStream)

	assert.Equal(t, 0, registry.Count())
}

func TestRouter_SentinelWithoutSessionIsNoOp(t *testing.T) {
	rec := newFakeRecognizer()
	registry := session.NewRegistry(rec)
	r := New(registry)

	r.OnAudioChunk(context.Background(), "ghost", EndOfStream)

	assert.Equal(t, 0, registry.Count())
	assert.Empty(t, rec.streams, "a sentinel must never create a session")
}

func TestRouter_WriteFailureTearsSessionDown(t *testing.T) {
	rec := newFakeRecognizer()
	rec.nextErr = errors.New("stream closed")
	registry := session.NewRegistry(rec)
	r := New(registry)

	r.OnAudioChunk(context.Background(), "c1", []byte{0x01})

	assert.Equal(t, 0, registry.Count(), "no half-broken session may remain")
}

func TestRouter_ChunksForDistinctClientsAreIsolated(t *testing.T) {
	rec := newFakeRecognizer()
	registry := session.NewRegistry(rec)
	r := New(registry)

	r.OnAudioChunk(context.Background(), "c1", []byte{0x01})
	r.OnAudioChunk(context.Background(), "c2", []byte{0x02})
	r.OnAudioChunk(context.Background(), "c1", []byte{0x03})

	assert.Equal(t, 2, registry.Count())
	assert.Len(t, rec.streams["c1"].writes, 2)
	assert.Len(t, rec.streams["c2"].writes, 1)
}
