package signer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/engine/signer"
)

const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

var (
	newYear  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	march1st = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func exampleContext() domain.SigningContext {
	return domain.SigningContext{
		Method: "get",
		Path:   "/",
		Query: map[string][]string{
			"Action":  {"JimengT2IV40GetResult"},
			"Version": {"2024-06-06"},
		},
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Host":         "example.com",
			"X-Date":       "20240101T000000Z",
		},
		Region:      "cn-beijing",
		Service:     "cv",
		AccessKeyID: "AKTEST",
		SecretKey:   "SECRET",
	}
}

func volcContext(action string) domain.SigningContext {
	return domain.SigningContext{
		Method: "POST",
		Path:   "/",
		Query: map[string][]string{
			"Action":  {action},
			"Version": {"2024-06-06"},
		},
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
			"Host":         "open.volcengineapi.com",
			"X-Date":       "20250301T120000Z",
			"User-Agent":   "artisan",
		},
		Region:        "cn-beijing",
		Service:       "cv",
		AccessKeyID:   "AKLTexample",
		SecretKey:     "c2VjcmV0",
		Body:          []byte(`{"req_key":"jimeng_t2i_v40","task_id":"7392616336519610409"}`),
		SignedHeaders: []string{"content-type"},
	}
}

func TestSign_KnownVectors(t *testing.T) {
	s := signer.New()

	tests := []struct {
		name string
		sc   func() domain.SigningContext
		at   time.Time
		want string
	}{
		{
			name: "empty body, every header signed",
			sc:   exampleContext,
			at:   newYear,
			want: "HMAC-SHA256 Credential=AKTEST/20240101/cn-beijing/cv/request, " +
				"SignedHeaders=content-type;host;x-date, " +
				"Signature=758730cbdde5d7c25daa09c82874deb70a5d875fe7018f534c035988e1aa47aa",
		},
		{
			name: "signed body with allow-list",
			sc:   func() domain.SigningContext { return volcContext("JimengT2IV40GetResult") },
			at:   march1st,
			want: "HMAC-SHA256 Credential=AKLTexample/20250301/cn-beijing/cv/request, " +
				"SignedHeaders=content-type;host;x-date, " +
				"Signature=ec64bb8da01ec92319941900b43ef0ef65f022df2a4d9293460183a51c4c618f",
		},
		{
			name: "body hash override",
			sc: func() domain.SigningContext {
				sc := volcContext("JimengT2IV40SubmitTask")
				sc.BodyHash = emptySHA256
				return sc
			},
			at: march1st,
			want: "HMAC-SHA256 Credential=AKLTexample/20250301/cn-beijing/cv/request, " +
				"SignedHeaders=content-type;host;x-date, " +
				"Signature=a7d63655eb051f04711d5578ffb9d0da2a42fb314e2dd53055b3688b2035268d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Sign(tt.sc(), tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	s := signer.New()

	first, err := s.Sign(volcContext("JimengT2IV40SubmitTask"), march1st)
	require.NoError(t, err)

	for range 10 {
		again, err := signer.New().Sign(volcContext("JimengT2IV40SubmitTask"), march1st)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSign_MissingCredentials(t *testing.T) {
	s := signer.New()

	for _, mutate := range []func(*domain.SigningContext){
		func(sc *domain.SigningContext) { sc.AccessKeyID = "" },
		func(sc *domain.SigningContext) { sc.SecretKey = "" },
	} {
		sc := exampleContext()
		mutate(&sc)

		got, err := s.Sign(sc, newYear)
		require.Error(t, err)
		assert.Empty(t, got)
		assert.True(t, errors.Is(err, domain.ErrConfiguration))
	}
}

func TestSign_XDate(t *testing.T) {
	s := signer.New()

	t.Run("added when absent", func(t *testing.T) {
		sc := exampleContext()
		delete(sc.Headers, "X-Date")

		got, err := s.Sign(sc, newYear)
		require.NoError(t, err)

		want, err := s.Sign(exampleContext(), newYear)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotContains(t, sc.Headers, "X-Date", "input headers must not be mutated")
	})

	t.Run("mismatch rejected", func(t *testing.T) {
		_, err := s.Sign(exampleContext(), newYear.Add(time.Second))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("lower-case key accepted", func(t *testing.T) {
		sc := exampleContext()
		delete(sc.Headers, "X-Date")
		sc.Headers["x-date"] = "20240101T000000Z"

		_, err := s.Sign(sc, newYear)
		require.NoError(t, err)
	})
}

func TestSign_EmptyBodyHash(t *testing.T) {
	s := signer.New()
	assert.Equal(t, emptySHA256, s.HashHex(nil))

	sc := exampleContext()
	sc.Body = nil
	overridden := sc
	overridden.BodyHash = emptySHA256

	a, err := s.Sign(sc, newYear)
	require.NoError(t, err)
	b, err := s.Sign(overridden, newYear)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type countingPrimitives struct {
	signer.SHA256Primitives
	hmacCalls int
	hashCalls int
}

func (c *countingPrimitives) HMAC(key, data []byte) []byte {
	c.hmacCalls++
	return c.SHA256Primitives.HMAC(key, data)
}

func (c *countingPrimitives) Hash(data []byte) []byte {
	c.hashCalls++
	return c.SHA256Primitives.Hash(data)
}

func TestSign_InjectedPrimitives(t *testing.T) {
	prims := &countingPrimitives{}
	s := signer.New(signer.WithPrimitives(prims))

	got, err := s.Sign(exampleContext(), newYear)
	require.NoError(t, err)

	want, err := signer.New().Sign(exampleContext(), newYear)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	// Four key derivations plus the final signature.
	assert.Equal(t, 5, prims.hmacCalls)
	// Body hash plus canonical request hash.
	assert.Equal(t, 2, prims.hashCalls)
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	assert.Equal(t, "20240101T000000Z", signer.FormatTimestamp(time.Date(2024, 1, 1, 8, 0, 0, 0, loc)))
}
