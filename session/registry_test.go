package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/voicegate/interfaces"
)

type fakeStream struct {
	mu       sync.Mutex
	writes   [][]byte
	closed   int
	closeErr error
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

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return f.closeErr
}

type fakeRecognizer struct {
	mu      sync.Mutex
	streams map[string]*fakeStream
	opened  int
	openErr error
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{streams: make(map[string]*fakeStream)}
}

func (f *fakeRecognizer) OpenStream(ctx context.Context, clientID string, onError func(error)) (interfaces.SpeechStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	s := &fakeStream{}
	f.streams[clientID] = s
	return s, nil
}

func TestRegistry_StartIsIdempotent(t *testing.T) {
	rec := newFakeRecognizer()
	registry := NewRegistry(rec)

	first, err := registry.Start(context.Background(), "c1")
	require.NoError(t, err)
	second, err := registry.Start(context.Background(), "c1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, rec.opened)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_ConcurrentStartsCreateOneSession(t *testing.T) {
	rec := newFakeRecognizer()
	registry := NewRegistry(rec)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := registry.Start(context.Background(), "c1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, rec.opened)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_EndUnknownClientIsNoOp(t *testing.T) {
	registry := NewRegistry(newFakeRecognizer())

	registry.End("never-seen")

	assert.Equal(t, 0, registry.Count())
}

func TestRegistry_EndReleasesStreamBeforeRemoval(t *testing.T) {
	rec := newFakeRecognizer()
	registry := NewRegistry(rec)

	_, err := registry.Start(context.Background(), "c1")
	require.NoError(t, err)

	registry.End("c1")

	assert.Equal(t, 1, rec.streams["c1"].closed)
	_, ok := registry.Lookup("c1")
	assert.False(t, ok)
}

func TestRegistry_EndRemovesEntryEvenWhenCloseFails(t *testing.T) {
	rec := newFakeRecognizer()
	registry := NewRegistry(rec)

	_, err := registry.Start(context.Background(), "c1")
	require.NoError(t, err)
	rec.streams["c1"].closeErr = errors.New("engine fault")

	registry.End("c1")

	_, ok := registry.Lookup("c1")
	assert.False(t, ok, "cleanup is best-effort; the entry must go away")
}

func TestRegistry_EndAll(t *testing.T) {
	rec := newFakeRecognizer()
	registry := NewRegistry(rec)

	for _, id := range []string{"c1", "c2", "c3"} {
		_, err := registry.Start(context.Background(), id)
		require.NoError(t, err)
	}

	registry.EndAll()

	assert.Equal(t, 0, registry.Count())
	for _, s := range rec.streams {
		assert.Equal(t, 1, s.closed)
	}
}
