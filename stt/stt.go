// Package stt adapts Google Cloud streaming speech recognition to
// per-client push streams.
package stt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/corvidlabs/voicegate/config"
	"github.com/corvidlabs/voicegate/dispatch"
	"github.com/corvidlabs/voicegate/interfaces"
	"github.com/corvidlabs/voicegate/metrics"
)

const sampleRateHertz = 16000

// Recognizer opens streaming recognition sessions against Google Cloud
// Speech. All sessions feed finalized utterances into one shared queue.
type Recognizer struct {
	speechClient *speech.Client
	language     string
	queue        *dispatch.Queue
}

// New creates a recognizer. It relies on Application Default Credentials
// for authentication.
func New(ctx context.Context, cfg config.STTConfig, queue *dispatch.Queue) (*Recognizer, error) {
	speechClient, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Recognizer{
		speechClient: speechClient,
		language:     cfg.Language,
		queue:        queue,
	}, nil
}

// Close cleans up the speech client connection.
func (r *Recognizer) Close() {
	if r.speechClient != nil {
		r.speechClient.Close()
	}
}

// OpenStream starts one client's streaming recognition session and returns
// its write side. Finalized transcripts flow into the shared queue from a
// receive goroutine; recognizer faults go to onError from that goroutine.
func (r *Recognizer) OpenStream(ctx context.Context, clientID string, onError func(error)) (interfaces.SpeechStream, error) {
	rpc, err := r.speechClient.StreamingRecognize(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not start streaming recognize: %w", err)
	}

	// Send initial configuration
	if err := rpc.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: sampleRateHertz,
					LanguageCode:    r.language,
				},
			},
		},
	}); err != nil {
		return nil, fmt.Errorf("could not send streaming config: %w", err)
	}

	s := &Stream{
		clientID: clientID,
		rpc:      rpc,
		queue:    r.queue,
	}
	go s.receive(onError)
	return s, nil
}

// Stream is the write side of one client's recognition session.
type Stream struct {
	clientID string
	rpc      speechpb.Speech_StreamingRecognizeClient
	queue    *dispatch.Queue

	mu     sync.Mutex // serializes Send against CloseSend
	closed bool
}

// Write pushes raw audio bytes to the recognizer.
func (s *Stream) Write(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("recognition stream for client %s is closed", s.clientID)
	}
	if err := s.rpc.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	}); err != nil {
		return fmt.Errorf("could not send audio content: %w", err)
	}
	return nil
}

// Close half-closes the stream so the recognizer can finalize any pending
// utterance. Safe to call more than once.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rpc.CloseSend()
}

// receive drains recognition responses until the stream ends. Faults are
// reported through onError; they never reach the audio ingestion path.
func (s *Stream) receive(onError func(error)) {
	for {
		resp, err := s.rpc.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed && onError != nil {
				onError(fmt.Errorf("cannot stream results: %w", err))
			}
			return
		}
		s.processResponse(resp)
	}
}

// processResponse enqueues one event per finalized, non-empty transcript.
func (s *Stream) processResponse(resp *speechpb.StreamingRecognizeResponse) {
	for _, result := range resp.Results {
		if !result.IsFinal || len(result.Alternatives) == 0 {
			continue
		}
		text := strings.TrimSpace(result.Alternatives[0].Transcript)
		if text == "" {
			continue
		}
		metrics.IncrementUtterancesRecognized()
		s.queue.Enqueue(dispatch.Event{
			ClientID: s.clientID,
			Text:     text,
			At:       time.Now(),
		})
	}
}
