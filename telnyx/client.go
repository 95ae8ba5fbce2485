// Package telnyx issues Call Control commands against the provider's REST
// API. Each command is one POST to
// /calls/{call_control_id}/actions/{action} with a bearer credential and a
// command-specific JSON body.
package telnyx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/sprucehealth/callflow/clientstate"
	"github.com/sprucehealth/callflow/model"
)

// DefaultBaseURL is the production Call Control API endpoint.
const DefaultBaseURL = "https://api.telnyx.com"

// TTS rendering options, applied process-wide to every speak and
// gather_using_speak command.
const (
	Voice    = "female"
	Language = "en-GB"
)

// CommandClient defines the interface for issuing call-control commands.
// Implementations must be safe for concurrent use: commands for different
// calls, or overlapping events for the same call, may be issued at once.
type CommandClient interface {
	// Answer answers a call. When nextState is not StateNone it is encoded
	// and attached as client state, so the next event for this call carries
	// it back; an inbound call is answered with no state at all.
	Answer(ctx context.Context, id model.CallControlID, nextState model.MenuState) error

	// Speak plays text to the caller using the fixed voice configuration.
	Speak(ctx context.Context, id model.CallControlID, text string) error

	// GatherUsingSpeak plays text and collects up to maxDigits DTMF digits
	// from the validDigits set. State attachment follows the Answer rule.
	GatherUsingSpeak(ctx context.Context, id model.CallControlID, text, validDigits string, maxDigits int, nextState model.MenuState) error

	// Transfer bridges the call to dest, presenting orig as the caller.
	Transfer(ctx context.Context, id model.CallControlID, dest, orig string) error

	// Hangup terminates the call.
	Hangup(ctx context.Context, id model.CallControlID) error
}

// Client is the HTTP implementation of CommandClient.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint (tests, mock
// provider environments).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a command client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx reply from the call-control API. The provider's
// response body is preserved for the command-failure log.
type APIError struct {
	Command    model.CommandType
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telnyx: %s failed with status %d: %s", e.Command, e.StatusCode, e.Body)
}

type answerRequest struct {
	ClientState *string `json:"client_state"`
}

type speakRequest struct {
	Payload  string `json:"payload"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

type gatherUsingSpeakRequest struct {
	Payload     string  `json:"payload"`
	Voice       string  `json:"voice"`
	Language    string  `json:"language"`
	ValidDigits string  `json:"valid_digits"`
	Max         string  `json:"max"`
	ClientState *string `json:"client_state"`
}

type transferRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
}

// Answer answers the call, attaching nextState when present.
func (c *Client) Answer(ctx context.Context, id model.CallControlID, nextState model.MenuState) error {
	return c.do(ctx, id, model.CommandAnswer, answerRequest{
		ClientState: encodeState(nextState),
	})
}

// Speak plays text to the caller.
func (c *Client) Speak(ctx context.Context, id model.CallControlID, text string) error {
	return c.do(ctx, id, model.CommandSpeak, speakRequest{
		Payload:  text,
		Voice:    Voice,
		Language: Language,
	})
}

// GatherUsingSpeak plays text and gathers DTMF input.
func (c *Client) GatherUsingSpeak(ctx context.Context, id model.CallControlID, text, validDigits string, maxDigits int, nextState model.MenuState) error {
	return c.do(ctx, id, model.CommandGatherUsingSpeak, gatherUsingSpeakRequest{
		Payload:     text,
		Voice:       Voice,
		Language:    Language,
		ValidDigits: validDigits,
		Max:         strconv.Itoa(maxDigits),
		ClientState: encodeState(nextState),
	})
}

// Transfer bridges the call to dest.
func (c *Client) Transfer(ctx context.Context, id model.CallControlID, dest, orig string) error {
	if dest == "" || orig == "" {
		return fmt.Errorf("telnyx: transfer requires both destination and origin numbers")
	}
	return c.do(ctx, id, model.CommandTransfer, transferRequest{
		To:   dest,
		From: orig,
	})
}

// Hangup terminates the call.
func (c *Client) Hangup(ctx context.Context, id model.CallControlID) error {
	return c.do(ctx, id, model.CommandHangup, struct{}{})
}

func (c *Client) do(ctx context.Context, id model.CallControlID, command model.CommandType, body any) error {
	if id == "" {
		return fmt.Errorf("telnyx: %s requires a call control id", command)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("telnyx: failed to encode %s body: %w", command, err)
	}

	url := fmt.Sprintf("%s/calls/%s/actions/%s", c.baseURL, id, command)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telnyx: failed to create %s request: %w", command, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telnyx: %s request failed: %w", command, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telnyx: failed to read %s response: %w", command, err)
	}

	if resp.StatusCode >= 300 {
		return &APIError{
			Command:    command,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}
	return nil
}

// encodeState returns the client_state body field for nextState: nil (JSON
// null) when no state is attached, the base64 token otherwise.
func encodeState(nextState model.MenuState) *string {
	if nextState.None() {
		return nil
	}
	token := clientstate.Encode(nextState)
	return &token
}
