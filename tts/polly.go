// Package tts synthesizes reply text into raw PCM audio with Amazon Polly.
package tts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/smithy-go"

	"github.com/corvidlabs/voicegate/config"
)

// sampleRate matches the gateway's reply audio container: 16 kHz mono PCM.
const sampleRate = "16000"

// synthClient is the slice of the Polly API the synthesizer uses.
type synthClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// Client turns reply text into 16-bit little-endian PCM samples.
type Client struct {
	client  synthClient
	voiceID string
}

// New creates a synthesizer backed by the real Polly service. Credentials
// come from the default AWS chain (environment, shared config, role).
func New(ctx context.Context, cfg config.TTSConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewWithClient(polly.NewFromConfig(awsCfg), cfg.VoiceID), nil
}

// NewWithClient creates a synthesizer with an injected Polly client.
func NewWithClient(client synthClient, voiceID string) *Client {
	return &Client{client: client, voiceID: voiceID}
}

// Synthesize renders text to raw PCM samples. The returned bytes carry no
// container header; the caller wraps them before publishing.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	output, err := c.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       pollytypes.EngineNeural,
		OutputFormat: pollytypes.OutputFormatPcm,
		SampleRate:   aws.String(sampleRate),
		Text:         aws.String(text),
		TextType:     pollytypes.TextTypeText,
		VoiceId:      pollytypes.VoiceId(c.voiceID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("speech synthesis rejected (%s): %w", apiErr.ErrorCode(), err)
		}
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	if output.AudioStream == nil {
		return nil, fmt.Errorf("speech synthesis returned no audio stream")
	}
	defer func() { _ = output.AudioStream.Close() }()

	samples, err := io.ReadAll(output.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("speech synthesis returned empty audio")
	}
	return samples, nil
}
