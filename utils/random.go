package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateTicketNumber returns the opaque unique token stamped on an issued
// ticket: 10 random bytes, hex encoded (20 characters).
func GenerateTicketNumber() (string, error) {
	byt := make([]byte, 10)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return hex.EncodeToString(byt), nil
}
