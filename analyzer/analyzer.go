package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"resume-match/domain"
)

// ErrMalformedResponse marks a model reply that could not be parsed into a
// complete qualification breakdown. Worth one more attempt, unlike a failed
// provider call.
var ErrMalformedResponse = errors.New("model returned malformed analysis payload")

const defaultMaxAttempts = 3

var requiredRowKeys = []string{"mark", "jd", "resume", "note", "is_hardskill", "is_required_by_jobdesc"}

// ChatClient is the slice of the OpenAI client the analyzer needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Analyzer asks the model for a qualification-by-qualification breakdown of
// a resume against a job description and validates the structured output.
type Analyzer struct {
	client      ChatClient
	model       string
	maxAttempts int
	log         *logrus.Logger

	newBackOff func() backoff.BackOff
}

func New(client ChatClient, model string, maxAttempts int, log *logrus.Logger) *Analyzer {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Analyzer{
		client:      client,
		model:       model,
		maxAttempts: maxAttempts,
		log:         log,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Analyze performs one analysis, retrying malformed model output up to
// maxAttempts times with exponential backoff. Provider call failures are
// returned immediately without retry; IsProviderError distinguishes them for
// the caller's status classification.
func (a *Analyzer) Analyze(ctx context.Context, jobTitle, jobDescText, resumeText string) (*domain.QualificationBreakdown, error) {
	messages := analysisPrompt(jobDescText, resumeText)

	var breakdown *domain.QualificationBreakdown
	attempt := 0
	operation := func() error {
		attempt++
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
		})
		if err != nil {
			return backoff.Permanent(fmt.Errorf("chat completion: %w", err))
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("%w: empty choices", ErrMalformedResponse)
		}

		content := stripCodeFence(resp.Choices[0].Message.Content)
		parsed, err := parseBreakdown([]byte(content))
		if err != nil {
			a.log.WithFields(logrus.Fields{
				"job_title": jobTitle,
				"attempt":   attempt,
			}).WithError(err).Warn("incomplete analysis payload from model, retrying")
			return err
		}

		parsed.Rows = sanitizeRows(parsed.Rows)
		breakdown = parsed
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(a.newBackOff(), uint64(a.maxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// IsProviderError reports whether err originated from the OpenAI provider
// call itself (auth, rate limit, rejected request) rather than from local
// processing. Provider errors are classified non-retryable downstream.
func IsProviderError(err error) bool {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	return errors.As(err, &apiErr) || errors.As(err, &reqErr)
}

// parseBreakdown decodes the model reply and enforces the schema: the three
// top-level keys must exist, and every qualification row must carry all six
// child keys. Key presence is checked on the raw JSON so that false booleans
// and empty strings still count as present.
func parseBreakdown(data []byte) (*domain.QualificationBreakdown, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, key := range []string{"qualification_analysis", "conclusion", "area_for_improvement"} {
		if _, ok := top[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrMalformedResponse, key)
		}
	}

	var rawRows []map[string]json.RawMessage
	if err := json.Unmarshal(top["qualification_analysis"], &rawRows); err != nil {
		return nil, fmt.Errorf("%w: qualification_analysis is not a list: %v", ErrMalformedResponse, err)
	}
	for i, raw := range rawRows {
		for _, key := range requiredRowKeys {
			if _, ok := raw[key]; !ok {
				return nil, fmt.Errorf("%w: row %d missing key %q", ErrMalformedResponse, i, key)
			}
		}
	}

	var breakdown domain.QualificationBreakdown
	if err := json.Unmarshal(data, &breakdown); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &breakdown, nil
}

// stripCodeFence removes an optional Markdown code fence wrapper and slices
// the payload down to the outermost JSON object.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}
	return content
}
