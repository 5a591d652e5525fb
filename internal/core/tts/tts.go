/*
Text-to-speech proxy client for ElevenLabs.

The synthesis key never reaches the browser: the frontend calls our
/api/tts endpoint and this client performs the upstream request with
the key read from the environment. Upstream failures are reported as
UpstreamError so the transport layer can answer 502 instead of 500.
*/
package tts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	baseURL      = "https://api.elevenlabs.io/v1/text-to-speech/"
	modelID      = "eleven_multilingual_v2"
	DefaultVoice = "JBFqnCBsd6RMkjVDRZzb"
)

// UpstreamError marks failures originating at the synthesis provider
// rather than in our own handling.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("elevenlabs upstream error (status %d): %s", e.StatusCode, e.Detail)
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Client synthesizes speech through the ElevenLabs REST API.
type Client struct {
	apiKey  string
	timeout time.Duration
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{apiKey: apiKey, timeout: timeout}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Synthesize converts text to speech and returns the MP3 audio bytes.
func (c *Client) Synthesize(text, voiceID string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("elevenlabs api key not configured")
	}
	if voiceID == "" {
		voiceID = DefaultVoice
	}

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(baseURL + voiceID)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)
	req.SetBody(body)

	if err := fasthttp.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, &UpstreamError{StatusCode: 0, Detail: err.Error()}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode(),
			Detail:     string(resp.Body()),
		}
	}

	// Response body is reused after release, copy it out
	audio := make([]byte, len(resp.Body()))
	copy(audio, resp.Body())
	return audio, nil
}
