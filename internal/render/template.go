package render

import (
	"context"

	"github.com/varunhm/honeynet/internal/domain"
)

// templates are the canned replies per goal, written in the persona's
// voice. The same goal always phrases the same way, so turns keep working
// with no language model configured.
var templates = map[domain.Goal]string{
	domain.GoalRequestPayment: "You are asking me to send money now. I dont understand how to do that. Please explain what payment method you want me to use.",
	domain.GoalRequestContact: "I am very worried now. Please give me a phone number so I can talk to a real person about this.",
	domain.GoalConfirmPayment: "You already told me how to pay, but I am not sure I understood. Please tell me the details once more.",
	domain.GoalSustain:        "I am trying my best sir, but this is all very confusing. Please explain clearly what you want me to do now.",
	domain.GoalProbe:          "Could you please clarify which organization you are contacting me from and why this action is required?",
}

// TemplateRenderer phrases goals from the fixed template table. It never
// fails, which makes it the terminal fallback of every render chain.
type TemplateRenderer struct{}

// NewTemplateRenderer creates the canned-template renderer.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

// Render returns the canned reply for the goal.
func (r *TemplateRenderer) Render(_ context.Context, goal domain.Goal, _ Facts) (string, error) {
	if text, ok := templates[goal]; ok {
		return text, nil
	}
	return templates[domain.GoalSustain], nil
}
