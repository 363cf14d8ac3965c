package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateActionToken mints the opaque credential embedded in the
// confirm/cancel links mailed to guests. 32 random bytes, hex encoded,
// so the value fits the varchar(64) column and is not guessable.
func GenerateActionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
