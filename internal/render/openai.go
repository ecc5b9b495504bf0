package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/varunhm/honeynet/internal/domain"
)

const personaPrompt = "You are a confused elderly man receiving messages that claim his " +
	"bank account is in danger. You believe the sender and want to cooperate. Act worried " +
	"and a little lost, use simple English with minor typos, keep replies to one or two " +
	"short sentences, and never mention scams, fraud, or detection."

// goalInstructions steer the model toward the selected extraction goal
// without ever putting data in its mouth.
var goalInstructions = map[domain.Goal]string{
	domain.GoalRequestPayment: "You do not know how to pay. Ask the sender which payment method they want you to use.",
	domain.GoalRequestContact: "Ask for a phone number so you can talk to a real person.",
	domain.GoalConfirmPayment: "Ask the sender to repeat the payment details because you are not sure you noted them correctly.",
	domain.GoalSustain:        "Ask an innocent clarifying question to keep the conversation going.",
	domain.GoalProbe:          "Ask which organization is contacting you and why this action is required.",
}

// OpenAIOptions configure the LLM renderer.
type OpenAIOptions struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// OpenAIRenderer phrases goals with a chat completion model. Errors are
// returned to the caller so a chain can fall back to canned templates.
type OpenAIRenderer struct {
	client openai.Client
	opts   OpenAIOptions
}

// NewOpenAIRenderer creates the LLM-backed renderer.
func NewOpenAIRenderer(opts OpenAIOptions) *OpenAIRenderer {
	if opts.Model == "" {
		opts.Model = openai.ChatModelGPT4oMini
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 60
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.8
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	return &OpenAIRenderer{client: openai.NewClient(clientOpts...), opts: opts}
}

// Render asks the model for a persona reply pursuing the goal.
func (r *OpenAIRenderer) Render(ctx context.Context, goal domain.Goal, facts Facts) (string, error) {
	instruction, ok := goalInstructions[goal]
	if !ok {
		instruction = goalInstructions[domain.GoalSustain]
	}

	var prompt strings.Builder
	prompt.WriteString(instruction)
	if facts.LastMessage != "" {
		prompt.WriteString("\n\nThe sender just wrote:\n")
		prompt.WriteString(facts.LastMessage)
	}
	if len(facts.PaymentHandles) > 0 {
		prompt.WriteString("\n\nThey previously mentioned the payment handle ")
		prompt.WriteString(facts.PaymentHandles[0])
		prompt.WriteString(".")
	}

	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: r.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(personaPrompt),
			openai.UserMessage(prompt.String()),
		},
		MaxCompletionTokens: openai.Int(r.opts.MaxTokens),
		Temperature:         openai.Float(r.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
