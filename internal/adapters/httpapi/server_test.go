package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/artisan/internal/adapters/httpapi"
	"go.trai.ch/artisan/internal/adapters/logger"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T, opts ...httpapi.Option) (*mocks.MockGenerator, http.Handler) {
	t.Helper()
	gen := mocks.NewMockGenerator(gomock.NewController(t))
	return gen, httpapi.New(gen, logger.NewNop(), opts...).Handler()
}

func do(h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	_, h := newServer(t, httpapi.WithClock(clock))

	rec := do(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2025-03-01T12:00:00Z", body["timestamp"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestGenerate(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().Submit(gomock.Any(), "portrait", []string{"a", "b"}).Return("task-1", nil)

	rec := do(h, http.MethodPost, "/api/generate-art-photo", `{"prompt":"portrait","imageUrls":["a","b"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"taskId":"task-1"}}`, rec.Body.String())
}

func TestGenerate_MissingParams(t *testing.T) {
	_, h := newServer(t)

	for _, body := range []string{`{"imageUrls":["a"]}`, `{"prompt":"p"}`} {
		rec := do(h, http.MethodPost, "/api/generate-art-photo", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "missing required parameters", decode(t, rec)["error"])
	}

	rec := do(h, http.MethodPost, "/api/generate-art-photo", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_ErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.WithKind(domain.ErrValidation, domain.ErrNoImages), http.StatusBadRequest},
		{"signature", domain.WithKind(domain.ErrAuth, domain.WithKind(domain.ErrSignatureMismatch, zerr.New("bad"))), http.StatusUnauthorized},
		{"forbidden", domain.WithKind(domain.ErrAuth, domain.WithKind(domain.ErrForbidden, zerr.New("no"))), http.StatusForbidden},
		{"remote", domain.WithKind(domain.ErrRemoteAPI, zerr.New("boom")), http.StatusBadGateway},
		{"timeout", domain.WithKind(domain.ErrTimeout, zerr.New("slow")), http.StatusGatewayTimeout},
		{"config", domain.WithKind(domain.ErrConfiguration, zerr.New("missing")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, h := newServer(t)
			gen.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Return("", tt.err)

			rec := do(h, http.MethodPost, "/api/generate-art-photo", `{"prompt":"p","imageUrls":[]}`, "X-Request-Id", "req-1")
			assert.Equal(t, tt.code, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.err.Error(), body["message"])
			assert.Equal(t, "req-1", body["requestId"])
		})
	}
}

func TestTaskStatus_Done(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().Poll(gomock.Any(), "task-1").Return(&domain.TaskStatus{
		TaskID:             "task-1",
		State:              domain.TaskStateDone,
		GeneratedImageURLs: []string{"https://cdn/1.jpeg"},
		Cached:             true,
	}, nil)

	rec := do(h, http.MethodGet, "/api/task-status/task-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"data": {
			"ResponseMetadata": {},
			"Result": {
				"code": 10000,
				"data": {"status": "done", "uploaded_image_urls": ["https://cdn/1.jpeg"], "cached": true},
				"message": "Success"
			}
		}
	}`, rec.Body.String())
}

func TestTaskStatus_Processing(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().Poll(gomock.Any(), "task-1").Return(&domain.TaskStatus{
		TaskID:  "task-1",
		State:   domain.TaskStateProcessing,
		Message: "generating",
	}, nil)

	rec := do(h, http.MethodGet, "/api/task-status/task-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode(t, rec)["data"].(map[string]any)["Result"].(map[string]any)
	assert.Equal(t, "generating", result["data"].(map[string]any)["status"])
}

func TestTaskStatus_RemoteFailureIsAStatus(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().Poll(gomock.Any(), "task-1").
		Return(nil, domain.WithKind(domain.ErrRemoteTaskFailed, zerr.New("content rejected")))

	rec := do(h, http.MethodGet, "/api/task-status/task-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode(t, rec)["data"].(map[string]any)["Result"].(map[string]any)
	assert.Equal(t, "failed", result["data"].(map[string]any)["status"])
	assert.Contains(t, result["message"], "content rejected")
}

func TestTaskStatus_AuthError(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().Poll(gomock.Any(), "task-1").
		Return(nil, domain.WithKind(domain.ErrAuth, domain.WithKind(domain.ErrUnauthorized, zerr.New("nope"))))

	rec := do(h, http.MethodGet, "/api/task-status/task-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadImage(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().UploadImage(gomock.Any(), "data:image/png;base64,AAAA").Return("https://cdn/art-photos/1.png", nil)

	rec := do(h, http.MethodPost, "/api/upload-image", `{"image":"data:image/png;base64,AAAA"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"imageUrl":"https://cdn/art-photos/1.png"}}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/upload-image", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_ETag(t *testing.T) {
	gen, h := newServer(t)
	records := []domain.TaskRecord{{
		TaskID:             "task-1",
		OriginalImageURLs:  []string{"a"},
		GeneratedImageURLs: []string{},
		State:              domain.TaskStateSubmitted,
	}}
	gen.EXPECT().History(gomock.Any()).Return(records).Times(2)

	rec := do(h, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	data := decode(t, rec)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "task-1", data[0].(map[string]any)["taskId"])

	rec = do(h, http.MethodGet, "/api/history", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHistory_EmptyIsArray(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().History(gomock.Any()).Return(nil)

	rec := do(h, http.MethodGet, "/api/history", "")
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestHistoryRecord(t *testing.T) {
	gen, h := newServer(t)
	gen.EXPECT().Record(gomock.Any(), "task-1").Return(domain.TaskRecord{TaskID: "task-1", State: domain.TaskStateDone}, true)
	gen.EXPECT().Record(gomock.Any(), "missing").Return(domain.TaskRecord{}, false)

	rec := do(h, http.MethodGet, "/api/history/task-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "task-1", decode(t, rec)["data"].(map[string]any)["taskId"])

	rec = do(h, http.MethodGet, "/api/history/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "record not found", decode(t, rec)["error"])
}

func TestCORSPreflight(t *testing.T) {
	_, h := newServer(t)

	rec := do(h, http.MethodOptions, "/api/generate-art-photo", "",
		"Origin", "http://localhost:5173",
		"Access-Control-Request-Method", http.MethodPost)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestArtifactDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "art-photos"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "art-photos", "1.jpeg"), []byte("jpeg"), 0o600))
	_, h := newServer(t, httpapi.WithArtifactDir(dir))

	rec := do(h, http.MethodGet, "/art-photos/1.jpeg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg", rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	_, h := newServer(t)

	rec := do(h, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
