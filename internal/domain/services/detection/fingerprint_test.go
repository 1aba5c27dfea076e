package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and sorts tokens",
			input:    "Urgent Account Blocked",
			expected: "account blocked urgent",
		},
		{
			name:     "digit runs collapse to NUM",
			input:    "pay 5000 to 9876543210",
			expected: "NUM pay to",
		},
		{
			name:     "punctuation stripped",
			input:    "win!!! big,, prizes...",
			expected: "big prizes win",
		},
		{
			name:     "duplicate tokens removed",
			input:    "money money money",
			expected: "money",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fingerprint(tt.input))
		})
	}
}

func TestFingerprintInvariance(t *testing.T) {
	// word order must not matter
	assert.Equal(t,
		Fingerprint("your account is blocked today"),
		Fingerprint("today your blocked account is"))

	// numeric values must not matter
	assert.Equal(t,
		Fingerprint("pay 5000 rupees now"),
		Fingerprint("pay 99999 rupees now"))
}

func TestFingerprintHash(t *testing.T) {
	h1 := FingerprintHash("account blocked urgent")
	h2 := FingerprintHash("account blocked urgent")
	h3 := FingerprintHash("something else")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 32)
}
