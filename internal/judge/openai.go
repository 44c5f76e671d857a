package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/chronoplay/histquiz/internal/histquiz"
)

const systemPrompt = `You are a quality reviewer for a daily history-guessing game.
You receive a target year and six candidate hint events for that year.
Approve the set only if the events are accurate, unambiguous, and none of
them states the year outright. Recommend the order in which the hints should
be revealed, hardest first. Respond with JSON only, matching:
{"approved": bool, "qualityScore": number 0-1,
 "ordering": {"recommended": [event ids], "rationale": string},
 "issues": [strings]}`

// OpenAIJudge implements Judge over the OpenAI chat completion API.
type OpenAIJudge struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a judge on the given API key and model.
func NewOpenAI(apiKey, model string) *OpenAIJudge {
	return NewOpenAIWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAIWithConfig builds a judge from an explicit client config, so
// callers can point BaseURL at a proxy or a local test server.
func NewOpenAIWithConfig(cfg openai.ClientConfig, model string) *OpenAIJudge {
	return &OpenAIJudge{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (j *OpenAIJudge) Judge(ctx context.Context, year int, events []histquiz.Event) (Verdict, error) {
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(year, events)},
		},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("judge call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, fmt.Errorf("judge returned no choices")
	}

	var v Verdict
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return Verdict{}, fmt.Errorf("parsing judge verdict: %w", err)
	}
	if v.Approved && len(v.Ordering.Recommended) != len(events) {
		return Verdict{}, fmt.Errorf("judge approved but recommended %d of %d events",
			len(v.Ordering.Recommended), len(events))
	}
	return v, nil
}

func buildPrompt(year int, events []histquiz.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target year: %d\n\nCandidate hints:\n", year)
	for _, ev := range events {
		fmt.Fprintf(&b, "- id=%s: %s\n", ev.ID, ev.Text)
	}
	return b.String()
}
