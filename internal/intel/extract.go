// Package intel extracts and enriches structured scam indicators from
// message text.
//
// Extraction is two pure stages: raw grammar matchers over the text, then
// enrichment that normalizes values and derives domains, provider tokens,
// and impersonation findings. Matchers share no state and a failed
// enrichment only drops that one indicator.
package intel

import (
	"regexp"
	"strings"

	"github.com/varunhm/honeynet/internal/domain"
	"github.com/varunhm/honeynet/internal/logging"
)

var (
	// upiPattern matches name@provider handles, including digit-leading
	// ones (phone-number handles like 9876543210@ybl are the most common
	// real-world form). The optional trailing dotted-label group catches
	// email addresses and domains so they can be rejected (a UPI provider
	// token never contains a dot).
	upiPattern = regexp.MustCompile(`\b([a-z0-9][a-z0-9._-]{2,})@([a-z][a-z0-9]{2,63})(\.[a-z]{2,})?`)

	phonePattern = regexp.MustCompile(`\+91[-\s]?\d{10}\b|\b\d{10}\b`)

	bankAccountPattern = regexp.MustCompile(`\b\d{4}-\d{4}-\d{4}\b`)

	urlPattern = regexp.MustCompile(`https?://[^\s<>"\])]+|www\.[^\s<>"\])]+`)
)

// Match is one raw grammar hit before enrichment.
type Match struct {
	Category domain.Category
	Raw      string
}

// Extractor runs the matcher and enrichment pipeline.
type Extractor struct {
	log *logging.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(log *logging.Logger) *Extractor {
	return &Extractor{log: log.Sub("intel")}
}

// Extract runs all raw matchers over the text. Pure over its input.
func Extract(text string) []Match {
	lower := strings.ToLower(text)
	var matches []Match

	var handleSpans [][2]int
	for _, idx := range upiPattern.FindAllStringSubmatchIndex(lower, -1) {
		if idx[6] != -1 {
			// trailing dotted label: an email address or bare domain, not a
			// payment handle
			continue
		}
		matches = append(matches, Match{
			Category: domain.CategoryPayment,
			Raw:      lower[idx[2]:idx[3]] + "@" + lower[idx[4]:idx[5]],
		})
		handleSpans = append(handleSpans, [2]int{idx[0], idx[1]})
	}

	for _, idx := range phonePattern.FindAllStringIndex(lower, -1) {
		// digits forming the local part of a payment handle are not a
		// contact number
		if overlapsAny(handleSpans, idx[0], idx[1]) {
			continue
		}
		matches = append(matches, Match{Category: domain.CategoryPhone, Raw: lower[idx[0]:idx[1]]})
	}

	for _, m := range bankAccountPattern.FindAllString(lower, -1) {
		matches = append(matches, Match{Category: domain.CategoryBankAccount, Raw: m})
	}

	for _, m := range urlPattern.FindAllString(lower, -1) {
		matches = append(matches, Match{Category: domain.CategoryPhishingLink, Raw: m})
	}

	return matches
}

func overlapsAny(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}

// ExtractFacts runs extraction plus enrichment for one turn, returning
// normalized facts ready to merge. Enrichment failures are logged and the
// offending indicator is dropped.
func (e *Extractor) ExtractFacts(text string, turn int) []domain.Fact {
	var facts []domain.Fact
	seen := make(map[string]bool)

	add := func(c domain.Category, value string) {
		key := string(c) + "\x00" + value
		if value == "" || seen[key] {
			return
		}
		seen[key] = true
		facts = append(facts, domain.Fact{Category: c, Value: value, Turn: turn})
	}

	for _, m := range Extract(text) {
		switch m.Category {
		case domain.CategoryPayment:
			handle, provider, err := EnrichUPI(m.Raw)
			if err != nil {
				e.log.Debug().Str("raw", m.Raw).Err(err).Msg("dropping payment match")
				continue
			}
			add(domain.CategoryPayment, handle)
			add(domain.CategoryProvider, provider)
			if finding := ImpersonationFinding(provider); finding != "" {
				add(domain.CategoryImpersonation, finding)
			}

		case domain.CategoryPhone:
			add(domain.CategoryPhone, NormalizePhone(m.Raw))

		case domain.CategoryBankAccount:
			add(domain.CategoryBankAccount, NormalizeAccount(m.Raw))

		case domain.CategoryPhishingLink:
			dom, err := EnrichURL(m.Raw)
			if err != nil {
				e.log.Debug().Str("raw", m.Raw).Err(err).Msg("dropping link match")
				continue
			}
			add(domain.CategoryPhishingLink, NormalizeLink(m.Raw))
			add(domain.CategoryDomain, dom)
			if finding := ImpersonationFinding(dom); finding != "" {
				add(domain.CategoryImpersonation, finding)
			}
		}
	}

	return facts
}

// NormalizePhone strips separators and a leading +91 country prefix so
// equivalent raw numbers collapse to one value.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return digits
}

// NormalizeAccount strips grouping separators from an account number.
func NormalizeAccount(raw string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(raw)
}

// NormalizeLink drops the scheme and trailing punctuation so equivalent raw
// links collapse to one value.
func NormalizeLink(raw string) string {
	link := strings.TrimPrefix(raw, "https://")
	link = strings.TrimPrefix(link, "http://")
	return strings.TrimRight(link, "./")
}
