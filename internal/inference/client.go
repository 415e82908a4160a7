// Package inference talks to a local Ollama server. It is a stateless
// pass-through: history goes in, one assistant reply comes out. There is
// no retry and no timeout beyond the caller's context.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/agentchat/internal/logging"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/ollama/ollama/api"
)

// Message is one entry of the history sent to the model.
type Message struct {
	Role    models.Role
	Content string
}

// Client wraps the Ollama API client.
type Client struct {
	api          *api.Client
	base         *url.URL
	defaultModel string
	logger       logging.Logger
}

// ParseHost accepts either a full URL or the host:port form used by the
// OLLAMA_HOST variable and returns the base URL.
func ParseHost(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("empty ollama host")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q", host)
	}
	return u, nil
}

// NewClient builds a client for the Ollama server at host. A nil
// httpClient selects http.DefaultClient.
func NewClient(host, defaultModel string, httpClient *http.Client, logger logging.Logger) (*Client, error) {
	base, err := ParseHost(host)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		api:          api.NewClient(base, httpClient),
		base:         base,
		defaultModel: defaultModel,
		logger:       logger.With("module", "inference"),
	}, nil
}

// DefaultModel is used when Chat is called without a model.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}

// Host is the Ollama base URL.
func (c *Client) Host() string {
	return c.base.String()
}

// Chat sends history to the model and returns the assistant reply. An empty
// model selects the default model.
func (c *Client) Chat(ctx context.Context, model string, history []Message) (Message, error) {
	if model == "" {
		model = c.defaultModel
	}

	msgs := make([]api.Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, api.Message{Role: string(m.Role), Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
	}

	var (
		reply    strings.Builder
		received bool
	)
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		received = true
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		ierr := classify(err, model)
		c.logger.Warn(ctx, "chat failed", "model", model, "type", ierr.Type.String(), "error", ierr.Error())
		return Message{}, ierr
	}

	if !received {
		return Message{}, newError(ErrTypeInvalidResponse, nil, "empty response from model %s", model)
	}

	c.logger.Debug(ctx, "chat completed", "model", model, "history", len(history), "reply_len", reply.Len())

	return Message{Role: models.RoleAssistant, Content: reply.String()}, nil
}

// Models lists the names of locally installed models.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, classify(err, "")
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Ping checks that the Ollama server answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.api.Heartbeat(ctx); err != nil {
		return classify(err, "")
	}
	return nil
}

func classify(err error, model string) *Error {
	var se api.StatusError
	if errors.As(err, &se) {
		msg := se.ErrorMessage
		if msg == "" {
			msg = se.Status
		}
		if se.StatusCode == http.StatusNotFound {
			if model == "" {
				return newError(ErrTypeModelNotFound, nil, "%s", msg)
			}
			return newError(ErrTypeModelNotFound, nil, "model %s: %s", model, msg)
		}
		return newError(ErrTypeUnknown, nil, "ollama error (%d): %s", se.StatusCode, msg)
	}

	// Streaming endpoints report {"error": ...} bodies as plain errors
	// without the status code.
	if model != "" && isModelMissingText(err.Error()) {
		return newError(ErrTypeModelNotFound, nil, "model %s: %s", model, err.Error())
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return newError(ErrTypeNotRunning, err, "Ollama is not running")
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(ErrTypeUnknown, err, "request aborted")
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return newError(ErrTypeInvalidResponse, err, "invalid response from ollama")
	}

	return newError(ErrTypeUnknown, err, "ollama request failed")
}

func isModelMissingText(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "model") && strings.Contains(msg, "not found")
}
