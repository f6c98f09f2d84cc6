package util

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HmacSha256Hash returns the raw HMAC-SHA256 of message keyed by secret.
// Rate provider request signatures hex encode it.
func HmacSha256Hash(message, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return mac.Sum(nil)
}
