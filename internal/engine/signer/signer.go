// Package signer implements the canonical-request and HMAC-chain request signature.
package signer

import (
	"encoding/hex"
	"strings"
	"time"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// Algorithm names the signature scheme in the string to sign and the Authorization header.
	Algorithm = "HMAC-SHA256"

	// TimestampFormat is the layout of the X-Date header.
	TimestampFormat = "20060102T150405Z"

	dateFormat = "20060102"
	terminator = "request"
)

// Signer signs remote API requests. It holds no mutable state and is safe for concurrent use.
type Signer struct {
	prims Primitives
}

// Option configures a Signer.
type Option func(*Signer)

// WithPrimitives replaces the crypto backend.
func WithPrimitives(p Primitives) Option {
	return func(s *Signer) {
		s.prims = p
	}
}

// New creates a Signer backed by SHA-256 unless another backend is supplied.
func New(opts ...Option) *Signer {
	s := &Signer{prims: SHA256Primitives{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FormatTimestamp formats t as an X-Date value in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// HashHex returns the lower-case hex SHA-256 of data using the signer's backend.
func (s *Signer) HashHex(data []byte) string {
	return hex.EncodeToString(s.prims.Hash(data))
}

// Sign returns the Authorization header value for sc at timestamp t.
//
// The X-Date header is set to t when absent; a present X-Date must equal t.
func (s *Signer) Sign(sc domain.SigningContext, t time.Time) (string, error) {
	if sc.AccessKeyID == "" || sc.SecretKey == "" {
		return "", domain.WithKind(domain.ErrConfiguration, zerr.New("access key id and secret key are required"))
	}

	timestamp := FormatTimestamp(t)
	headers, err := withDate(sc.Headers, timestamp)
	if err != nil {
		return "", err
	}

	bodyHash := sc.BodyHash
	if bodyHash == "" {
		bodyHash = s.HashHex(sc.Body)
	}

	signedHeaders, canonicalHeaders := CanonicalHeaders(headers, sc.SignedHeaders)
	canonical := CanonicalRequest(sc.Method, sc.Path, CanonicalQuery(sc.Query), canonicalHeaders, signedHeaders, bodyHash)

	date := t.UTC().Format(dateFormat)
	scope := CredentialScope(date, sc.Region, sc.Service)
	toSign := StringToSign(timestamp, scope, s.HashHex([]byte(canonical)))

	signature := hex.EncodeToString(s.prims.HMAC(s.signingKey(sc.SecretKey, date, sc.Region, sc.Service), []byte(toSign)))

	return Algorithm +
		" Credential=" + sc.AccessKeyID + "/" + scope +
		", SignedHeaders=" + signedHeaders +
		", Signature=" + signature, nil
}

// signingKey derives the request key: HMAC(HMAC(HMAC(HMAC(secret, date), region), service), "request").
func (s *Signer) signingKey(secret, date, region, service string) []byte {
	key := s.prims.HMAC([]byte(secret), []byte(date))
	key = s.prims.HMAC(key, []byte(region))
	key = s.prims.HMAC(key, []byte(service))
	return s.prims.HMAC(key, []byte(terminator))
}

func withDate(headers map[string]string, timestamp string) (map[string]string, error) {
	out := make(map[string]string, len(headers)+1)
	found := false
	for k, v := range headers {
		if strings.EqualFold(k, "x-date") {
			if v != timestamp {
				return nil, domain.WithKind(domain.ErrValidation,
					zerr.With(zerr.New("x-date header does not match signing time"), "x_date", v))
			}
			found = true
		}
		out[k] = v
	}
	if !found {
		out["X-Date"] = timestamp
	}
	return out, nil
}
