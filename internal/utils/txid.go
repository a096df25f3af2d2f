package utils

import (
	"fmt"
	"time"
)

// txIDRandomBytes is the amount of random material in a transaction id.
// 9 bytes = 72 bits, above the 64-bit floor needed to make ids unguessable
// and collision-free in practice.
const txIDRandomBytes = 9

// NewTransactionID produces an external transaction identifier of the form
// T<yyyyMMddHHmmss>-<token>. The timestamp is coarse (second resolution, UTC);
// unpredictability comes entirely from the random token. Callers treat a
// persistence-level collision as fatal after a small bounded number of retries.
func NewTransactionID() (string, error) {
	token, err := GenerateSecureRandomToken(txIDRandomBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction id: %w", err)
	}
	return fmt.Sprintf("T%s-%s", time.Now().UTC().Format("20060102150405"), token), nil
}
