package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varunhm/honeynet/internal/domain"
	"github.com/varunhm/honeynet/internal/logging"
)

func testExtractor() *Extractor {
	return NewExtractor(logging.New(nil, "silent"))
}

func factValues(facts []domain.Fact, c domain.Category) []string {
	var out []string
	for _, f := range facts {
		if f.Category == c {
			out = append(out, f.Value)
		}
	}
	return out
}

func TestExtractPaymentHandleAndLink(t *testing.T) {
	facts := testExtractor().ExtractFacts(
		"Send to fraud@okhdfcbank or visit http://secure-hdfc-verify.xyz/login", 3)

	assert.Equal(t, []string{"fraud@okhdfcbank"}, factValues(facts, domain.CategoryPayment))
	assert.Equal(t, []string{"okhdfcbank"}, factValues(facts, domain.CategoryProvider))
	assert.Equal(t, []string{"secure-hdfc-verify.xyz/login"}, factValues(facts, domain.CategoryPhishingLink))
	assert.Equal(t, []string{"secure-hdfc-verify.xyz"}, factValues(facts, domain.CategoryDomain))

	findings := factValues(facts, domain.CategoryImpersonation)
	assert.Contains(t, findings, "okhdfcbank may impersonate hdfc")
	assert.Contains(t, findings, "secure-hdfc-verify.xyz may impersonate hdfc")

	for _, f := range facts {
		assert.Equal(t, 3, f.Turn)
	}
}

func TestExtractDigitLeadingPaymentHandles(t *testing.T) {
	e := testExtractor()

	facts := e.ExtractFacts("send money to 9876543210@paytm right away", 1)
	assert.Equal(t, []string{"9876543210@paytm"}, factValues(facts, domain.CategoryPayment))
	assert.Equal(t, []string{"paytm"}, factValues(facts, domain.CategoryProvider))
	// the handle's digits are not a contact number
	assert.Empty(t, factValues(facts, domain.CategoryPhone))

	facts = e.ExtractFacts("or use 12345@sbibank", 1)
	assert.Equal(t, []string{"12345@sbibank"}, factValues(facts, domain.CategoryPayment))
	assert.Equal(t, []string{"sbibank"}, factValues(facts, domain.CategoryProvider))
}

func TestExtractPhoneHandleAndSeparateNumber(t *testing.T) {
	facts := testExtractor().ExtractFacts("pay 9876543210@ybl or call 9123456780", 2)

	assert.Equal(t, []string{"9876543210@ybl"}, factValues(facts, domain.CategoryPayment))
	assert.Equal(t, []string{"9123456780"}, factValues(facts, domain.CategoryPhone))
}

func TestExtractRejectsEmailAddresses(t *testing.T) {
	facts := testExtractor().ExtractFacts("contact me at john.doe@gmail.com", 1)
	assert.Empty(t, factValues(facts, domain.CategoryPayment))
}

func TestExtractPhoneNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"bare ten digits", "call 9876543210", []string{"9876543210"}},
		{"country prefix with dash", "call +91-9876543210 today", []string{"9876543210"}},
		{"country prefix with space", "call +91 9876543210", []string{"9876543210"}},
		{"equivalent forms collapse", "use 9876543210 or +91-9876543210", []string{"9876543210"}},
		{"too short", "code is 12345", nil},
	}

	e := testExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := e.ExtractFacts(tt.text, 1)
			assert.Equal(t, tt.want, factValues(facts, domain.CategoryPhone))
		})
	}
}

func TestExtractBankAccount(t *testing.T) {
	facts := testExtractor().ExtractFacts("transfer to 1234-5678-9012 now", 2)
	assert.Equal(t, []string{"123456789012"}, factValues(facts, domain.CategoryBankAccount))
}

func TestExtractWWWLinkWithMultiLabelSuffix(t *testing.T) {
	facts := testExtractor().ExtractFacts("open www.secure-sbi.co.in/verify", 1)

	assert.Equal(t, []string{"www.secure-sbi.co.in/verify"}, factValues(facts, domain.CategoryPhishingLink))
	assert.Equal(t, []string{"secure-sbi.co.in"}, factValues(facts, domain.CategoryDomain))
	assert.Equal(t, []string{"secure-sbi.co.in may impersonate sbi"}, factValues(facts, domain.CategoryImpersonation))
}

func TestExtractFactsDeduplicatesWithinTurn(t *testing.T) {
	facts := testExtractor().ExtractFacts("pay fraud@ybl, yes fraud@ybl", 1)
	assert.Equal(t, []string{"fraud@ybl"}, factValues(facts, domain.CategoryPayment))
}

func TestExtractIsPureOverInput(t *testing.T) {
	const text = "pay fraud@ybl or call 9876543210"
	first := Extract(text)
	second := Extract(text)
	require.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestNormalizeLink(t *testing.T) {
	assert.Equal(t, "evil.xyz/login", NormalizeLink("https://evil.xyz/login"))
	assert.Equal(t, "evil.xyz", NormalizeLink("http://evil.xyz/"))
	assert.Equal(t, "www.evil.xyz", NormalizeLink("www.evil.xyz."))
}
