package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenRandomBytes = 32

// ConfirmationTokenGenerator mints the opaque tokens embedded in reminder
// links: 32 random bytes, hex encoded.
type ConfirmationTokenGenerator struct{}

func NewConfirmationTokenGenerator() *ConfirmationTokenGenerator {
	return &ConfirmationTokenGenerator{}
}

func (g *ConfirmationTokenGenerator) Generate() (string, error) {
	randomBytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}
