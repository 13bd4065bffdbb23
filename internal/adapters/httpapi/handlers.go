package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"go.trai.ch/artisan/internal/core/domain"
)

const titleMissingParams = "missing required parameters"

type generateRequest struct {
	Prompt    string   `json:"prompt"`
	ImageURLs []string `json:"imageUrls"`
}

type uploadRequest struct {
	Image string `json:"image"`
}

// taskStatusBody keeps the remote API's response shape, which the UI reads directly.
type taskStatusBody struct {
	ResponseMetadata struct{}         `json:"ResponseMetadata"`
	Result           taskStatusResult `json:"Result"`
}

type taskStatusResult struct {
	Code    int            `json:"code"`
	Data    taskStatusData `json:"data"`
	Message string         `json:"message"`
}

type taskStatusData struct {
	Status            string   `json:"status"`
	UploadedImageURLs []string `json:"uploaded_image_urls,omitempty"`
	Cached            bool     `json:"cached,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Prompt == "" || req.ImageURLs == nil {
		writeError(w, r, http.StatusBadRequest, titleMissingParams, "prompt and imageUrls are required")
		return
	}

	taskID, err := s.gen.Submit(r.Context(), req.Prompt, req.ImageURLs)
	if err != nil {
		s.fail(w, r, "failed to generate art photo", err)
		return
	}
	writeData(w, map[string]string{"taskId": taskID})
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	if strings.TrimSpace(taskID) == "" {
		writeError(w, r, http.StatusBadRequest, titleMissingParams, "taskId is required")
		return
	}

	body := taskStatusBody{Result: taskStatusResult{Code: domain.RemoteSuccessCode, Message: "Success"}}

	status, err := s.gen.Poll(r.Context(), taskID)
	switch {
	case errors.Is(err, domain.ErrRemoteTaskFailed):
		body.Result.Data.Status = domain.RemoteStatusFailed
		body.Result.Message = err.Error()
	case err != nil:
		s.fail(w, r, "failed to query task status", err)
		return
	default:
		body.Result.Data = taskStatusData{
			Status:            remoteStatus(status),
			UploadedImageURLs: status.GeneratedImageURLs,
			Cached:            status.Cached,
		}
		if status.State == domain.TaskStateDone && body.Result.Data.UploadedImageURLs == nil {
			body.Result.Data.UploadedImageURLs = []string{}
		}
	}
	writeData(w, body)
}

// remoteStatus renders a poll result with the remote API's status vocabulary.
func remoteStatus(status *domain.TaskStatus) string {
	switch status.State {
	case domain.TaskStateDone:
		return domain.RemoteStatusDone
	case domain.TaskStateFailed:
		return domain.RemoteStatusFailed
	default:
		if status.Message != "" {
			return status.Message
		}
		return string(status.State)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Image == "" {
		writeError(w, r, http.StatusBadRequest, titleMissingParams, "image is required")
		return
	}

	url, err := s.gen.UploadImage(r.Context(), req.Image)
	if err != nil {
		s.fail(w, r, "failed to upload image", err)
		return
	}
	writeData(w, map[string]string{"imageUrl": url})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.gen.History(r.Context())
	if records == nil {
		records = []domain.TaskRecord{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(successEnvelope{Success: true, Data: records}); err != nil {
		s.fail(w, r, "failed to read history", err)
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(buf.Bytes()), 16) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	if strings.TrimSpace(taskID) == "" {
		writeError(w, r, http.StatusBadRequest, titleMissingParams, "taskId is required")
		return
	}

	record, ok := s.gen.Record(r.Context(), taskID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "record not found", "no history record for task "+taskID)
		return
	}
	writeData(w, record)
}
