package signer

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Primitives are the keyed-hash and digest functions the signing chain is built from.
// Alternative backends (hardware, remote KMS) implement the same two functions.
type Primitives interface {
	HMAC(key, data []byte) []byte
	Hash(data []byte) []byte
}

// SHA256Primitives implements Primitives with crypto/hmac and crypto/sha256.
type SHA256Primitives struct{}

// HMAC returns HMAC-SHA256(key, data).
func (SHA256Primitives) HMAC(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(data)
	return mac.Sum(nil)
}

// Hash returns SHA-256(data).
func (SHA256Primitives) Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
