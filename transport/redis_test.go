package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientFromChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		want    string
	}{
		{"simple id", "voice/stream/client-42", "client-42"},
		{"uuid id", "voice/stream/0b1f9a2c-7e1d-4f7e-9b52-1d2f3a4b5c6d", "0b1f9a2c-7e1d-4f7e-9b52-1d2f3a4b5c6d"},
		{"nested segments take the last", "voice/stream/room/7", "7"},
		{"trailing slash", "voice/stream/", ""},
		{"no separator", "voicestream", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientFromChannel(tt.channel))
		})
	}
}
