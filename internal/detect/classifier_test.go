package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varunhm/honeynet/internal/domain"
)

func TestClassifyBlockedAccountMessage(t *testing.T) {
	c := New()

	intent, err := c.Classify("Your account is blocked. Pay immediately.")
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionScam, intent.Decision)
	assert.GreaterOrEqual(t, intent.Confidence, ThresholdHigh)
	assert.Contains(t, intent.Signals, SignalUrgency)
	assert.Contains(t, intent.Signals, SignalThreat)
	assert.Contains(t, intent.Signals, SignalAction)
}

func TestClassifyDecisions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		decision domain.Decision
		signal   string
	}{
		{
			name:     "benign chat",
			text:     "Thanks, see you tomorrow.",
			decision: domain.DecisionNonScam,
		},
		{
			name:     "urgent verification lands in the uncertain band",
			text:     "Urgent: verify your account",
			decision: domain.DecisionUncertain,
			signal:   SignalUrgency,
		},
		{
			name:     "shortener link with action request",
			text:     "click http://bit.ly/abc to verify",
			decision: domain.DecisionUncertain,
			signal:   SignalSuspiciousURL,
		},
		{
			name:     "otp request from fake support",
			text:     "This is bank customer care, share your OTP to verify and unblock your account immediately",
			decision: domain.DecisionScam,
			signal:   SignalSensitiveInfo,
		},
		{
			name:     "all caps style anomaly alone stays non scam",
			text:     "SEND MONEY NOW",
			decision: domain.DecisionNonScam,
			signal:   SignalStyleAnomaly,
		},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := c.Classify(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.decision, intent.Decision)
			if tt.signal != "" {
				assert.Contains(t, intent.Signals, tt.signal)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := New()
	const text = "Your KYC is suspended, click http://secure-verify.xyz now!!!"

	first, err := c.Classify(text)
	require.NoError(t, err)
	second, err := c.Classify(text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifyEmptyTextIsValidationError(t *testing.T) {
	c := New()

	_, err := c.Classify("   ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestConfidenceStaysBounded(t *testing.T) {
	c := New()

	// every detector and a heavy lexicon load at once
	intent, err := c.Classify("URGENT!!! Your bank account is blocked, pay now, verify OTP and UPI pin, click http://bit.ly/x immediately or face legal action")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionScam, intent.Decision)
	assert.LessOrEqual(t, intent.Confidence, 1.0)
}
