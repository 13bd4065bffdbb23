package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/zerr"
)

// LocalStore implements ports.ArtifactStore on a local directory.
// The HTTP surface serves the directory under the artifact key prefix.
type LocalStore struct {
	root   string
	domain string
}

// NewLocalStore creates a store rooted at dir, publishing URLs on domain.
func NewLocalStore(dir, domain string) *LocalStore {
	return &LocalStore{root: filepath.Clean(dir), domain: domain}
}

// Root returns the directory artifacts are written to.
func (s *LocalStore) Root() string {
	return s.root
}

// Put writes data to root/key and returns its public URL.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.WithKind(domain.ErrUpload, err)
	}

	rel := filepath.Clean(filepath.FromSlash(key))
	if rel == "." || filepath.IsAbs(rel) || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", domain.WithKind(domain.ErrUpload, zerr.With(zerr.New("artifact key escapes the store"), "key", key))
	}
	path := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return "", domain.WithKind(domain.ErrUpload, zerr.With(zerr.Wrap(err, "failed to create artifact directory"), "key", key))
	}
	//nolint:gosec // Path is confined to the store root
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return "", domain.WithKind(domain.ErrUpload, zerr.With(zerr.Wrap(err, "failed to write artifact"), "key", key))
	}

	return PublicURL(s.domain, key), nil
}
