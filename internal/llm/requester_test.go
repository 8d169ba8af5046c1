package llm

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeGenerator struct {
	response *llms.ContentResponse
	err      error
	block    bool

	messages []llms.MessageContent
	options  llms.CallOptions
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.response, f.err
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func TestRequestPlan_Success(t *testing.T) {
	gen := &fakeGenerator{response: textResponse(`{"weeks":[]}`)}
	r := newRequester(gen, 42, time.Second)

	raw, err := r.RequestPlan(context.Background(), "make me a plan")
	require.NoError(t, err)
	assert.Equal(t, `{"weeks":[]}`, raw)

	require.Len(t, gen.messages, 2)
	assert.Equal(t, schema.ChatMessageTypeSystem, gen.messages[0].Role)
	assert.Equal(t, llms.TextContent{Text: SystemInstruction}, gen.messages[0].Parts[0])
	assert.Equal(t, schema.ChatMessageTypeHuman, gen.messages[1].Role)
	assert.Equal(t, llms.TextContent{Text: "make me a plan"}, gen.messages[1].Parts[0])
	assert.Equal(t, 42, gen.options.Seed)
}

func TestRequestPlan_EmptyResponseIsUpstreamError(t *testing.T) {
	r := newRequester(&fakeGenerator{response: &llms.ContentResponse{}}, 1, time.Second)
	_, err := r.RequestPlan(context.Background(), "p")
	assert.ErrorIs(t, err, ErrUpstream)

	r = newRequester(&fakeGenerator{response: textResponse("   ")}, 1, time.Second)
	_, err = r.RequestPlan(context.Background(), "p")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRequestPlan_ClassifiesFailures(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "transport failure",
			err:  &url.Error{Op: "Post", URL: "https://api.openai.com/v1/chat/completions", Err: errors.New("connection refused")},
			want: ErrUnavailable,
		},
		{
			name: "deadline from transport",
			err:  context.DeadlineExceeded,
			want: ErrTimeout,
		},
		{
			name: "api error",
			err:  errors.New("API returned unexpected status code: 400: invalid model"),
			want: ErrUpstream,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRequester(&fakeGenerator{err: tc.err}, 42, time.Second)
			_, err := r.RequestPlan(context.Background(), "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRequestPlan_BoundedWait(t *testing.T) {
	r := newRequester(&fakeGenerator{block: true}, 42, 20*time.Millisecond)
	_, err := r.RequestPlan(context.Background(), "p")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRequestPlan_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRequester(&fakeGenerator{block: true}, 42, time.Second)
	_, err := r.RequestPlan(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestNewRequester_RequiresKey(t *testing.T) {
	_, err := NewRequester(Config{})
	assert.Error(t, err)

	r, err := NewRequester(Config{APIKey: "sk-test", Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, r.timeout)
	assert.Equal(t, 42, r.seed)
}
