// Package interfaces defines the seams between the gateway core and its
// external collaborators.
package interfaces

// AudioPublisher delivers a reply audio payload to a client's response
// channel.
type AudioPublisher interface {
	PublishAudio(clientID string, data []byte) error
}
