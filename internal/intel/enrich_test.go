package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichUPI(t *testing.T) {
	handle, provider, err := EnrichUPI("Fraud@okHDFCbank")
	require.NoError(t, err)
	assert.Equal(t, "fraud@okhdfcbank", handle)
	assert.Equal(t, "okhdfcbank", provider)

	_, _, err = EnrichUPI("no-separator")
	assert.Error(t, err)
}

func TestEnrichURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain host", "http://evil.xyz/login", "evil.xyz"},
		{"subdomains stripped", "https://a.b.secure-hdfc-verify.xyz/x", "secure-hdfc-verify.xyz"},
		{"port dropped", "http://evil.xyz:8080/x", "evil.xyz"},
		{"www prefix without scheme", "www.secure-sbi.co.in/verify", "secure-sbi.co.in"},
		{"multi label suffix kept", "http://deep.sub.phish.co.uk", "phish.co.uk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnrichURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnrichURLRejectsNonDomains(t *testing.T) {
	_, err := EnrichURL("http://localhost/x")
	assert.Error(t, err)
}

func TestImpersonationFinding(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"embedded brand in provider", "okhdfcbank", "okhdfcbank may impersonate hdfc"},
		{"embedded brand in domain", "secure-hdfc-verify.xyz", "secure-hdfc-verify.xyz may impersonate hdfc"},
		{"legitimate provider never flagged", "paytm", ""},
		{"legitimate domain never flagged", "hdfcbank.com", ""},
		{"near miss spelling", "paytn.com", "paytn.com may impersonate paytm"},
		{"unrelated value", "example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImpersonationFinding(tt.value))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("hdfc", "hdfc"))
	assert.InDelta(t, 0.8, similarity("paytn", "paytm"), 1e-9)
	assert.Less(t, similarity("example", "hdfc"), similarityThreshold)
}
