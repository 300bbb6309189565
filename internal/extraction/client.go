// Package extraction calls the completion service for one document at a
// time and converts the response into a persisted analysis record. Service
// failures are absorbed into the record as a success or failure variant;
// only cancellation of the run surfaces as an error.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Cary-LD/AI-Powered-Literature-Review/internal/analysis"
)

const DefaultModel = string(anthropic.ModelClaudeSonnet4_20250514)

type failureClass int

const (
	failureAbort failureClass = iota
	failureRateLimit
	failureTransport
)

// Usage is the token accounting returned with a completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Completion is the raw text plus usage metadata from one service call.
type Completion struct {
	Text  string
	Usage Usage
}

// Caller is the completion-service boundary. Implementations send the
// fixed system instruction plus per-document user content.
type Caller interface {
	Complete(ctx context.Context, system, user string) (Completion, error)
}

// AnthropicMessager matches the slice of the SDK the caller needs.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicCaller implements Caller over the Anthropic Messages API.
type AnthropicCaller struct {
	messages AnthropicMessager
	model    anthropic.Model
}

// NewAnthropicCallerFromEnv builds a caller from ANTHROPIC_API_KEY.
func NewAnthropicCallerFromEnv(model string) (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicCaller{messages: &c.Messages, model: anthropic.Model(model)}, nil
}

func (a *AnthropicCaller) Complete(ctx context.Context, system, user string) (Completion, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   2000,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
		Temperature: anthropic.Float(0.1),
	})
	if err != nil {
		return Completion{}, err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return Completion{
		Text: sb.String(),
		Usage: Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}

// RetryPolicy bounds the per-document retry loop. Rate-limited responses
// back off progressively; every other retryable class waits BaseDelay.
// All classes draw from the same attempt budget.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 5 * time.Second}
}

// RateLimitDelay is the wait after a rate-limited attempt (0-based index).
func (p RetryPolicy) RateLimitDelay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt+2)
}

// Client drives structured extraction for single documents.
type Client struct {
	caller Caller
	policy RetryPolicy
	model  string

	sleep func(time.Duration)
	now   func() time.Time
}

func NewClient(caller Caller, policy RetryPolicy, model string) *Client {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		caller: caller,
		policy: policy,
		model:  model,
		sleep:  time.Sleep,
		now:    time.Now,
	}
}

// Analyze sends the document text to the completion service and returns a
// record, retrying retryable failures up to the policy's attempt budget.
// Exhaustion yields a terminal failure record. The only error returned is
// the context's, when the run is being shut down; nothing is recorded for
// the document in that case so a later run picks it up again.
func (c *Client) Analyze(ctx context.Context, text, filename string) (analysis.Record, error) {
	user := fmt.Sprintf(userPromptTemplate, filename, text)

	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return analysis.Record{}, err
		}
		comp, err := c.caller.Complete(ctx, SystemPrompt, user)
		if err != nil {
			switch classifyCallError(ctx, err) {
			case failureAbort:
				return analysis.Record{}, err
			case failureRateLimit:
				c.sleep(c.policy.RateLimitDelay(attempt))
			default:
				if attempt < c.policy.MaxAttempts-1 {
					c.sleep(c.policy.BaseDelay)
				}
			}
			continue
		}

		paper, err := decodePayload(comp.Text)
		if err != nil {
			if attempt < c.policy.MaxAttempts-1 {
				c.sleep(c.policy.BaseDelay)
			}
			continue
		}

		paper.Meta = &analysis.Meta{
			InputTokens:  comp.Usage.InputTokens,
			OutputTokens: comp.Usage.OutputTokens,
			Model:        c.model,
			AnalyzedAt:   c.now().Format(analysis.MetaTimeLayout),
		}
		return analysis.SuccessRecord(paper), nil
	}

	return analysis.FailureRecord(&analysis.Failure{
		Error:    fmt.Sprintf("Failed after %d attempts", c.policy.MaxAttempts),
		Filename: filename,
	}), nil
}

// stripCodeFences removes a surrounding markdown code fence so a fenced
// JSON body still parses.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// classifyCallError sorts a service error into abort, rate limit, or
// transport. Abort means the run's own context is done; a per-request
// timeout with a live parent context stays retryable.
func classifyCallError(ctx context.Context, err error) failureClass {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return failureAbort
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTransport
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTransport
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return failureRateLimit
	}
	return failureTransport
}
