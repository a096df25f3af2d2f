package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, 32)
}

func TestNewPIIProtector_RejectsBadKeyLength(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		_, err := NewPIIProtector(make([]byte, size))
		assert.Error(t, err, "key of %d bytes must be rejected", size)
	}
}

func TestPIIProtector_RoundTrip(t *testing.T) {
	protector, err := NewPIIProtector(testKey(0x42))
	require.NoError(t, err)

	for _, plaintext := range []string{
		"12345-1234567-1",
		"00012345678901",
		"",
		"ünïcodé † value",
	} {
		ciphertext, err := protector.Protect(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		recovered, err := protector.Unprotect(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, recovered)
	}
}

// Random nonces mean the same plaintext never produces the same ciphertext,
// so stored values cannot be correlated by equality.
func TestPIIProtector_CiphertextsDiffer(t *testing.T) {
	protector, err := NewPIIProtector(testKey(0x42))
	require.NoError(t, err)

	first, err := protector.Protect("12345-1234567-1")
	require.NoError(t, err)
	second, err := protector.Protect("12345-1234567-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPIIProtector_WrongKeyFails(t *testing.T) {
	protector, err := NewPIIProtector(testKey(0x42))
	require.NoError(t, err)
	other, err := NewPIIProtector(testKey(0x43))
	require.NoError(t, err)

	ciphertext, err := protector.Protect("12345-1234567-1")
	require.NoError(t, err)

	_, err = other.Unprotect(ciphertext)
	assert.Error(t, err)
}

// Values sealed under one protection context must not open under another,
// even with the same key. This is what makes context bumps an explicit
// invalidation mechanism.
func TestPIIProtector_DifferentContextFails(t *testing.T) {
	protector, err := NewPIIProtector(testKey(0x42))
	require.NoError(t, err)
	other := &PIIProtector{key: testKey(0x42), context: "payment-gateway.pii.protection-v2"}

	ciphertext, err := protector.Protect("12345-1234567-1")
	require.NoError(t, err)

	_, err = other.Unprotect(ciphertext)
	assert.Error(t, err)
}

func TestPIIProtector_TamperedCiphertextFails(t *testing.T) {
	protector, err := NewPIIProtector(testKey(0x42))
	require.NoError(t, err)

	ciphertext, err := protector.Protect("12345-1234567-1")
	require.NoError(t, err)

	// Flip a bit inside the sealed payload, past the encoded nonce.
	tampered := []byte(ciphertext)
	tampered[len(tampered)/2] ^= 1
	_, err = protector.Unprotect(string(tampered))
	assert.Error(t, err)
}

func TestPIIProtector_MalformedCiphertextFails(t *testing.T) {
	protector, err := NewPIIProtector(testKey(0x42))
	require.NoError(t, err)

	for _, bad := range []string{"not base64!!", "AAAA", ""} {
		_, err := protector.Unprotect(bad)
		assert.Error(t, err, "ciphertext %q must be rejected", bad)
	}
}

func TestPIIProtector_Mask(t *testing.T) {
	protector, err := NewPIIProtector(testKey(0x42))
	require.NoError(t, err)

	testCases := []struct {
		input    string
		showLast int
		expected string
	}{
		{"+923001234567", 4, "*********4567"},
		{"00012345678901", 2, "************01"},
		{"ab", 4, "**"},
		{"abcd", 4, "****"},
		{"", 4, ""},
		{"secret", 0, "******"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, protector.Mask(tc.input, tc.showLast))
	}
}
