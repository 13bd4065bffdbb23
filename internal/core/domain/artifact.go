package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/zerr"
)

const (
	// ContentTypeJPEG is the default content type of generated images.
	ContentTypeJPEG = "image/jpeg"
	// ContentTypePNG is the content type of PNG images.
	ContentTypePNG = "image/png"
	// ContentTypeGIF is the content type of GIF images.
	ContentTypeGIF = "image/gif"
	// ContentTypeWebP is the content type of WebP images.
	ContentTypeWebP = "image/webp"
)

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// DecodeDataURI decodes a base64 image data URI.
// A bare base64 string without the data: prefix is accepted and treated as JPEG.
func DecodeDataURI(uri string) (data []byte, contentType string, err error) {
	contentType = ContentTypeJPEG
	switch {
	case strings.HasPrefix(uri, "data:image/png"):
		contentType = ContentTypePNG
	case strings.HasPrefix(uri, "data:image/gif"):
		contentType = ContentTypeGIF
	}

	payload := dataURIPrefix.ReplaceAllString(uri, "")
	if payload == "" || strings.HasPrefix(payload, "data:") {
		return nil, "", ErrInvalidDataURI
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", WithKind(ErrInvalidDataURI, zerr.Wrap(err, "failed to decode base64 payload"))
	}
	return data, contentType, nil
}

// DecodePayload decodes a base64 image returned by the remote API and sniffs its content type.
func DecodePayload(payload string) (data []byte, contentType string, err error) {
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", WithKind(ErrInvalidDataURI, zerr.Wrap(err, "failed to decode base64 payload"))
	}
	return data, SniffImageType(data), nil
}

// SniffImageType returns the image content type of data, defaulting to JPEG.
func SniffImageType(data []byte) string {
	switch ct := http.DetectContentType(data); ct {
	case ContentTypePNG, ContentTypeGIF, ContentTypeWebP:
		return ct
	default:
		return ContentTypeJPEG
	}
}

// NewArtifactKey returns an object key of the form art-photos/<unix-ms>-<random>.<ext>.
func NewArtifactKey(now time.Time, contentType string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("%s/%d-%s.%s", ArtifactKeyPrefix, now.UnixMilli(), random, extensionOf(contentType))
}

func extensionOf(contentType string) string {
	if _, ext, ok := strings.Cut(contentType, "/"); ok && ext != "" {
		return ext
	}
	return "jpeg"
}
