// Package audio builds the reply audio container published to clients.
package audio

import (
	"bytes"
	"encoding/binary"
)

const (
	channels      int = 1     // mono
	frameRate     int = 16000 // 16kHz
	bitsPerSample int = 16
)

// WrapPCM wraps raw 16-bit mono 16kHz PCM sample bytes in a WAV container.
func WrapPCM(samples []byte) []byte {
	var buf bytes.Buffer
	writeWAVHeaderToBuffer(&buf, len(samples))
	buf.Write(samples)
	return buf.Bytes()
}

// writeWAVHeaderToBuffer writes a WAV file header to a bytes buffer.
func writeWAVHeaderToBuffer(buf *bytes.Buffer, dataSize int) {
	fileSize := 36 + dataSize

	header := make([]byte, 44)

	// RIFF header
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(fileSize))
	copy(header[8:12], "WAVE")

	// fmt chunk
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)                           // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)                            // PCM format
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))             // channels
	binary.LittleEndian.PutUint32(header[24:28], uint32(frameRate))            // sample rate
	binary.LittleEndian.PutUint32(header[28:32], uint32(frameRate*channels*2)) // byte rate
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*2))           // block align
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))        // bits per sample

	// data chunk
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	buf.Write(header)
}
