// Package detect scores single messages for scam intent.
//
// Classification is deterministic and stateless: the same text always
// produces the same decision, confidence, and signal set. Independent
// signal detectors are combined through fixed weights, then a pair of
// fixed thresholds maps the confidence to a decision.
package detect

import (
	"regexp"
	"strings"

	"github.com/varunhm/honeynet/internal/domain"
)

// Signal names reported for audit when a detector fires.
const (
	SignalUrgency       = "urgency"
	SignalThreat        = "threat"
	SignalAction        = "action_request"
	SignalAuthority     = "authority_impersonation"
	SignalSensitiveInfo = "sensitive_info_request"
	SignalSuspiciousURL = "suspicious_url"
	SignalStyleAnomaly  = "style_anomaly"
)

var (
	urgencyKeywords = []string{
		"immediately", "urgent", "today", "now", "within", "24 hours", "limited time",
	}
	threatKeywords = []string{
		"blocked", "suspended", "terminated", "legal action", "penalty", "frozen",
	}
	actionKeywords = []string{
		"verify", "click", "login", "pay", "transfer", "update", "confirm",
	}
	authorityKeywords = []string{
		"bank", "government", "support", "customer care", "admin", "official",
	}
	sensitiveKeywords = []string{
		"otp", "pin", "password", "cvv", "account number", "upi",
	}
	suspiciousTLDs = []string{".xyz", ".top", ".info", ".click", ".link"}
	urlShorteners  = []string{"bit.ly", "tinyurl", "goo.gl", "t.co"}
)

// lexicon carries fixed per-token weights for the statistical stage. The
// scores are bounded: the token sum is capped at 1 before weighting.
var lexicon = map[string]float64{
	"urgent":      0.20,
	"immediately": 0.20,
	"blocked":     0.25,
	"suspended":   0.20,
	"verify":      0.20,
	"pay":         0.15,
	"click":       0.15,
	"account":     0.10,
	"otp":         0.25,
	"upi":         0.20,
	"share":       0.10,
	"kyc":         0.20,
}

// Detector weights for the heuristic stage.
const (
	weightUrgency       = 0.20
	weightThreat        = 0.20
	weightAction        = 0.15
	weightAuthority     = 0.10
	weightSensitiveInfo = 0.15
	weightSuspiciousURL = 0.15
	weightStyleAnomaly  = 0.05
)

// Ensemble weights and decision thresholds.
const (
	heuristicShare = 0.6
	lexiconShare   = 0.4

	// ThresholdLow and ThresholdHigh bound the uncertain band: below low is
	// non_scam, at or above high is scam.
	ThresholdLow  = 0.30
	ThresholdHigh = 0.60
)

var (
	urlPattern   = regexp.MustCompile(`(?i)https?://[^\s<>"]+|www\.[^\s<>"]+`)
	tokenPattern = regexp.MustCompile(`[a-z0-9']+`)
)

// Classifier scores messages. The zero value is not usable; construct with
// New.
type Classifier struct{}

// New returns a classifier with the fixed detector set.
func New() *Classifier {
	return &Classifier{}
}

// Classify scores a single message. Empty text is a validation error;
// unrecognized content is never an error and simply yields low confidence.
func (c *Classifier) Classify(text string) (domain.Intent, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Intent{}, &domain.ValidationError{Field: "message.text", Reason: "empty"}
	}

	lower := strings.ToLower(text)
	var heuristic float64
	var signals []string

	fire := func(name string, weight float64) {
		heuristic += weight
		signals = append(signals, name)
	}

	if containsAny(lower, urgencyKeywords) {
		fire(SignalUrgency, weightUrgency)
	}
	if containsAny(lower, threatKeywords) {
		fire(SignalThreat, weightThreat)
	}
	if containsAny(lower, actionKeywords) {
		fire(SignalAction, weightAction)
	}
	if containsAny(lower, authorityKeywords) {
		fire(SignalAuthority, weightAuthority)
	}
	if containsAny(lower, sensitiveKeywords) {
		fire(SignalSensitiveInfo, weightSensitiveInfo)
	}
	if hasSuspiciousURL(lower) {
		fire(SignalSuspiciousURL, weightSuspiciousURL)
	}
	if hasStyleAnomaly(text) {
		fire(SignalStyleAnomaly, weightStyleAnomaly)
	}

	if heuristic > 1 {
		heuristic = 1
	}

	confidence := heuristicShare*heuristic + lexiconShare*lexiconScore(lower)

	intent := domain.Intent{
		Confidence: confidence,
		Signals:    signals,
	}
	switch {
	case confidence >= ThresholdHigh:
		intent.Decision = domain.DecisionScam
	case confidence < ThresholdLow:
		intent.Decision = domain.DecisionNonScam
	default:
		intent.Decision = domain.DecisionUncertain
	}
	return intent, nil
}

// lexiconScore sums fixed token weights over the distinct tokens of the
// message, capped at 1.
func lexiconScore(lower string) float64 {
	seen := make(map[string]bool)
	var score float64
	for _, tok := range tokenPattern.FindAllString(lower, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		score += lexicon[tok]
	}
	if score > 1 {
		score = 1
	}
	return score
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func hasSuspiciousURL(lower string) bool {
	for _, url := range urlPattern.FindAllString(lower, -1) {
		if containsAny(url, suspiciousTLDs) || containsAny(url, urlShorteners) {
			return true
		}
	}
	return false
}

// hasStyleAnomaly flags shouty or oddly terse-but-urgent messages.
func hasStyleAnomaly(text string) bool {
	if text == strings.ToUpper(text) && text != strings.ToLower(text) {
		return true
	}
	if strings.Contains(text, "!!!") || strings.Contains(text, "???") {
		return true
	}
	if len(strings.Fields(text)) < 5 && containsAny(strings.ToLower(text), urgencyKeywords) {
		return true
	}
	return false
}
