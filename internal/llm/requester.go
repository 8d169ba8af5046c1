// Package llm talks to the external generative text service that authors
// workout plans.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

var (
	ErrUnavailable = errors.New("generative service unavailable")
	ErrTimeout     = errors.New("generative service timed out")
	ErrUpstream    = errors.New("generative service rejected the request")
)

// SystemInstruction is sent with every plan request.
const SystemInstruction = "You are a helpful assistant designed to output JSON. " +
	"Do not include any markdown backticks in your response."

const (
	defaultModel   = "gpt-4o"
	defaultTimeout = 90 * time.Second
)

// Config is passed to NewRequester; nothing is read from the environment.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Seed    int
	Timeout time.Duration // Bounded wait for a single call
}

// contentGenerator is the part of llms.Model the requester needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Requester issues one plan request per call. It never retries.
type Requester struct {
	model   contentGenerator
	seed    int
	timeout time.Duration
}

// NewRequester builds a Requester backed by the OpenAI chat API with the
// JSON response format enabled.
func NewRequester(cfg Config) (*Requester, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{Type: "json_object"}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return newRequester(client, cfg.Seed, cfg.Timeout), nil
}

func newRequester(model contentGenerator, seed int, timeout time.Duration) *Requester {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Requester{model: model, seed: seed, timeout: timeout}
}

// RequestPlan sends payload as the user message and returns the raw response
// text. Failures wrap ErrUnavailable, ErrTimeout or ErrUpstream; a cancelled
// parent context is returned as-is.
func (r *Requester) RequestPlan(ctx context.Context, payload string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, SystemInstruction),
		llms.TextParts(schema.ChatMessageTypeHuman, payload),
	}

	started := time.Now()
	resp, err := r.model.GenerateContent(callCtx, messages, llms.WithSeed(r.seed))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		classified := classify(callCtx, err)
		log.WithField("elapsed", time.Since(started)).Warnf("plan request failed: %s", classified)
		return "", classified
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	content := resp.Choices[0].Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty response content", ErrUpstream)
	}

	log.WithField("elapsed", time.Since(started)).Debug("plan request completed")
	return content, nil
}

func classify(callCtx context.Context, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
