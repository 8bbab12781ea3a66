package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"castpipe/internal/config"
	"castpipe/internal/language"
)

// VoiceConfig selects the synthesis voice for one request.
type VoiceConfig struct {
	Language     language.Code
	Name         string
	SpeakingRate float64
}

// Synthesizer converts one text chunk into a raw WAV buffer.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice VoiceConfig) ([]byte, error)
}

// HTTPDoer describes the HTTP client used by the synthesis adapter.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the synthesis service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	voices  map[string]config.Voice
	client  HTTPDoer
}

// NewClient constructs a synthesis client from application config.
func NewClient(cfg *config.Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.TTS.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tts.base_url must be configured")
	}
	timeout := time.Duration(cfg.TTS.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.TTS.APIKey),
		voices:  cfg.TTS.Voices,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// NewClientWithDoer injects a custom HTTP client (primarily for tests).
func NewClientWithDoer(baseURL, apiKey string, voices map[string]config.Voice, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		voices:  voices,
		client:  doer,
	}
}

// VoiceFor resolves the configured voice for a language.
func (c *Client) VoiceFor(lang language.Code) (VoiceConfig, error) {
	voice, ok := c.voices[string(lang)]
	if !ok {
		return VoiceConfig{}, fmt.Errorf("no voice configured for language %s", lang)
	}
	rate := voice.SpeakingRate
	if rate <= 0 {
		rate = 1.0
	}
	return VoiceConfig{Language: lang, Name: voice.Name, SpeakingRate: rate}, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize performs one synthesis request and returns the decoded WAV
// buffer. The caller guarantees the text fits the service's request-size
// limit; this adapter does not chunk.
func (c *Client) Synthesize(ctx context.Context, text string, voice VoiceConfig) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty synthesis input")
	}

	var payload synthesizeRequest
	payload.Input.Text = text
	payload.Voice.LanguageCode = string(voice.Language)
	payload.Voice.Name = voice.Name
	payload.AudioConfig.AudioEncoding = "LINEAR16"
	payload.AudioConfig.SpeakingRate = voice.SpeakingRate

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/text:synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("synthesis service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode synthesis response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("synthesis service returned no audio")
	}
	return audio, nil
}
