package artifact_test

import (
	"context"
	"errors"
	"hash/crc64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/artisan/internal/adapters/artifact"
	"go.trai.ch/artisan/internal/core/domain"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/art-photos/1.jpeg", artifact.PublicURL("cdn.example.com", "art-photos/1.jpeg"))
	assert.Equal(t, "http://localhost:3001/art-photos/1.jpeg", artifact.PublicURL("http://localhost:3001/", "/art-photos/1.jpeg"))
}

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewLocalStore(dir, "cdn.example.com")

	got, err := store.Put(context.Background(), "art-photos/1-abc.png", []byte("png"), domain.ContentTypePNG)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/art-photos/1-abc.png", got)

	data, err := os.ReadFile(filepath.Join(dir, "art-photos", "1-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestLocalStore_RejectsEscapingKey(t *testing.T) {
	store := artifact.NewLocalStore(t.TempDir(), "cdn.example.com")

	_, err := store.Put(context.Background(), "../outside.jpeg", []byte("x"), domain.ContentTypeJPEG)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpload))
}

func TestLocalStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "art-photos")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0o600))

	store := artifact.NewLocalStore(dir, "cdn.example.com")
	_, err := store.Put(context.Background(), "art-photos/1.jpeg", []byte("x"), domain.ContentTypeJPEG)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpload))
}

func cosConfig() domain.StorageConfig {
	return domain.StorageConfig{
		Backend:   domain.StorageBackendCOS,
		Bucket:    "art-1250000000",
		Region:    "ap-guangzhou",
		SecretID:  "id",
		SecretKey: "key",
		Domain:    "cdn.example.com",
	}
}

const crcHeader = "x-cos-hash-crc64ecma"

// crc64ECMA is the checksum COS returns for a stored object body.
func crc64ECMA(data []byte) string {
	return strconv.FormatUint(crc64.Checksum(data, crc64.MakeTable(crc64.ECMA)), 10)
}

func TestCOSStore_Put(t *testing.T) {
	var (
		gotPath        string
		gotContentType string
		gotAuth        string
		gotBody        []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set(crcHeader, crc64ECMA(gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	store := artifact.NewCOSStoreWithURL(u, cosConfig())

	got, err := store.Put(context.Background(), "art-photos/1-abc.jpeg", []byte("jpeg-bytes"), domain.ContentTypeJPEG)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/art-photos/1-abc.jpeg", got)
	assert.Equal(t, "/art-photos/1-abc.jpeg", gotPath)
	assert.Equal(t, domain.ContentTypeJPEG, gotContentType)
	assert.NotEmpty(t, gotAuth, "requests are signed")
	assert.Equal(t, "jpeg-bytes", string(gotBody))
}

func TestCOSStore_PutChecksumMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set(crcHeader, crc64ECMA(append(body, '!')))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	store := artifact.NewCOSStoreWithURL(u, cosConfig())

	_, err = store.Put(context.Background(), "art-photos/1.jpeg", []byte("x"), domain.ContentTypeJPEG)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpload))
}

func TestCOSStore_PutFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	store := artifact.NewCOSStoreWithURL(u, cosConfig())

	_, err = store.Put(context.Background(), "art-photos/1.jpeg", []byte("x"), domain.ContentTypeJPEG)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpload))
}

func TestNew_SelectsBackend(t *testing.T) {
	local, err := artifact.New(domain.StorageConfig{
		Backend:  domain.StorageBackendLocal,
		LocalDir: t.TempDir(),
		Domain:   "localhost:3001",
	})
	require.NoError(t, err)
	assert.IsType(t, &artifact.LocalStore{}, local)

	remote, err := artifact.New(cosConfig())
	require.NoError(t, err)
	assert.IsType(t, &artifact.COSStore{}, remote)
}

func TestNew_MissingSettings(t *testing.T) {
	_, err := artifact.New(domain.StorageConfig{Backend: domain.StorageBackendCOS})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = artifact.New(domain.StorageConfig{Backend: "s3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
