package interfaces

import "context"

// SpeechStream is the write side of one client's recognition stream.
// Write pushes raw audio bytes to the recognizer; Close half-closes the
// stream so the recognizer can finalize any pending utterance.
type SpeechStream interface {
	Write(audio []byte) error
	Close() error
}

// Recognizer opens per-client streaming recognition sessions. The onError
// callback fires when the recognizer faults after the stream is open; it is
// invoked from the stream's receive goroutine.
type Recognizer interface {
	OpenStream(ctx context.Context, clientID string, onError func(error)) (SpeechStream, error)
}
