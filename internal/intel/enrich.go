package intel

import (
	"net/url"
	"strings"

	"github.com/varunhm/honeynet/internal/domain"
)

// knownBrands are legitimate bank and wallet brand tokens used for
// impersonation matching.
var knownBrands = []string{
	"sbi", "hdfc", "icici", "axis", "kotak", "pnb", "canara",
	"paytm", "phonepe", "googlepay", "gpay", "bhim",
}

// legitimateProviders are real UPI provider handles that must never be
// flagged, even though they contain a brand token.
var legitimateProviders = map[string]bool{
	"paytm":     true,
	"phonepe":   true,
	"googlepay": true,
	"gpay":      true,
	"bhim":      true,
	"upi":       true,
	"ybl":       true,
	"apl":       true,
}

// legitimateDomains are real domains that contain a brand token but are the
// brand itself, not a spoof.
var legitimateDomains = map[string]bool{
	"sbi.co.in":      true,
	"hdfcbank.com":   true,
	"icicibank.com":  true,
	"axisbank.com":   true,
	"kotak.com":      true,
	"pnbindia.in":    true,
	"canarabank.com": true,
	"paytm.com":      true,
	"phonepe.com":    true,
}

// multiLabelSuffixes is the fixed public-suffix subset used when reducing a
// host to its registrable domain.
var multiLabelSuffixes = []string{
	"co.in", "net.in", "org.in", "ac.in", "gov.in", "co.uk", "com.au",
}

// similarityThreshold is the minimum Levenshtein ratio for a near-miss
// brand spelling to count as impersonation.
const similarityThreshold = 0.8

// EnrichUPI normalizes a raw payment-handle match and derives its provider
// token (the substring after the handle separator).
func EnrichUPI(raw string) (handle, provider string, err error) {
	handle = strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndexByte(handle, '@')
	if at <= 0 || at == len(handle)-1 {
		return "", "", &domain.ExtractionError{Category: domain.CategoryPayment, Value: raw, Reason: "missing provider token"}
	}
	return handle, handle[at+1:], nil
}

// EnrichURL reduces a raw link match to its normalized registrable domain:
// host component, lower-cased, port dropped, leading subdomain labels
// stripped down to the suffix-plus-one label.
func EnrichURL(raw string) (string, error) {
	link := raw
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		link = "http://" + link
	}
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return "", &domain.ExtractionError{Category: domain.CategoryPhishingLink, Value: raw, Reason: "unparseable host"}
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if !strings.Contains(host, ".") {
		return "", &domain.ExtractionError{Category: domain.CategoryPhishingLink, Value: raw, Reason: "not a domain"}
	}
	return registrableDomain(host), nil
}

// registrableDomain strips leading subdomain labels, keeping one label in
// front of the matched suffix.
func registrableDomain(host string) string {
	labels := strings.Split(host, ".")
	suffixLen := 1
	for _, suffix := range multiLabelSuffixes {
		if host == suffix {
			return host
		}
		if strings.HasSuffix(host, "."+suffix) {
			suffixLen = strings.Count(suffix, ".") + 1
			break
		}
	}
	keep := suffixLen + 1
	if len(labels) <= keep {
		return host
	}
	return strings.Join(labels[len(labels)-keep:], ".")
}

// ImpersonationFinding checks a domain or provider token against the known
// brand table. A finding is produced when a brand appears embedded in the
// value, or a label is a near-miss spelling of a brand, while the value is
// not the legitimate brand itself.
func ImpersonationFinding(value string) string {
	if legitimateProviders[value] || legitimateDomains[value] {
		return ""
	}
	for _, brand := range knownBrands {
		if value == brand {
			return ""
		}
		if strings.Contains(value, brand) {
			return value + " may impersonate " + brand
		}
	}
	for _, label := range strings.FieldsFunc(value, func(r rune) bool { return r == '.' || r == '-' || r == '_' }) {
		for _, brand := range knownBrands {
			if label == brand {
				continue // exact brand labels are caught by the substring pass
			}
			if similarity(label, brand) >= similarityThreshold {
				return value + " may impersonate " + brand
			}
		}
	}
	return ""
}

// similarity is the normalized Levenshtein ratio between two strings.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	dist := prev[lb]
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(dist)/float64(longest)
}
