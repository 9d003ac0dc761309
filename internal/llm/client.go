// Package llm talks to a local Ollama daemon through its OpenAI-compatible API.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultURL     = "http://localhost:11434"
	DefaultTimeout = 120 * time.Second
)

var ErrNoChoices = errors.New("no choices in response")

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is a single non-streaming chat call. Images are attached to the
// last user message.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	Images      [][]byte
}

// Temperature is a helper for filling Request.Temperature.
func Temperature(t float64) *float64 { return &t }

type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
}

type Client struct {
	api     openai.Client
	timeout time.Duration
}

func New(cfg Config, httpClient *http.Client) *Client {
	url := strings.TrimRight(cfg.URL, "/")
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithBaseURL(url + "/v1/"),
		// Ollama ignores the key but the SDK insists on one.
		option.WithAPIKey("ollama"),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	log.Debug("init ollama client", "url", url, "timeout", timeout)

	return &Client{
		api:     openai.NewClient(opts...),
		timeout: timeout,
	}
}

func (c *Client) Chat(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		return "", errors.New("empty model")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: toParams(req.Messages, req.Images),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := resp.Choices[0].Message.Content
	log.Debug("Chat done", "model", req.Model, "took", time.Since(start).Round(time.Millisecond), "chars", len(content))

	return content, nil
}

// Models lists the models pulled into the local daemon.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	page, err := c.api.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

// Missing reports which of want have not been pulled yet.
func (c *Client) Missing(ctx context.Context, want ...string) ([]string, error) {
	have, err := c.Models(ctx)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, w := range want {
		if w == "" || slices.Contains(missing, w) {
			continue
		}
		if !hasModel(have, w) {
			missing = append(missing, w)
		}
	}
	return missing, nil
}

// hasModel treats a bare name as ":latest", the way `ollama pull` does.
func hasModel(have []string, want string) bool {
	if !strings.Contains(want, ":") {
		want += ":latest"
	}
	for _, h := range have {
		if !strings.Contains(h, ":") {
			h += ":latest"
		}
		if h == want {
			return true
		}
	}
	return false
}

func toParams(msgs []Message, images [][]byte) []openai.ChatCompletionMessageParamUnion {
	lastUser := -1
	if len(images) > 0 {
		for i, m := range msgs {
			if m.Role == RoleUser {
				lastUser = i
			}
		}
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			if i == lastUser {
				out = append(out, imageMessage(m.Content, images))
				continue
			}
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func imageMessage(text string, images [][]byte) openai.ChatCompletionMessageParamUnion {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(text),
	}
	for _, img := range images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL(img),
		}))
	}
	return openai.UserMessage(parts)
}

func dataURL(img []byte) string {
	mime := http.DetectContentType(img)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img)
}
