package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// TaskState is the lifecycle state of a generation task.
type TaskState string

const (
	// TaskStateSubmitted indicates the remote API accepted the task and assigned an id.
	TaskStateSubmitted TaskState = "submitted"
	// TaskStateProcessing indicates the remote API reported a non-terminal status.
	TaskStateProcessing TaskState = "processing"
	// TaskStateDone indicates the task finished and its artifacts were materialized.
	TaskStateDone TaskState = "done"
	// TaskStateFailed indicates the remote API reported the task as failed.
	TaskStateFailed TaskState = "failed"
)

// IsTerminal reports whether no further transitions may occur from s.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateDone || s == TaskStateFailed
}

// NormalizeTaskState converts a string to a TaskState, defaulting to submitted if unknown.
func NormalizeTaskState(s string) TaskState {
	switch strings.ToLower(s) {
	case string(TaskStateProcessing):
		return TaskStateProcessing
	case string(TaskStateDone):
		return TaskStateDone
	case string(TaskStateFailed):
		return TaskStateFailed
	default:
		return TaskStateSubmitted
	}
}

// TaskRecord is the persisted history entry of one generation task.
// TaskID is assigned by the remote API and never generated locally.
type TaskRecord struct {
	TaskID             string    `json:"taskId"`
	OriginalImageURLs  []string  `json:"originalImageUrls"`
	GeneratedImageURLs []string  `json:"generatedImageUrls"`
	State              TaskState `json:"state"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// UnmarshalJSON reads records written before the state field existed.
func (r *TaskRecord) UnmarshalJSON(data []byte) error {
	type plain TaskRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.State == "" {
		if len(p.GeneratedImageURLs) > 0 {
			p.State = TaskStateDone
		} else {
			p.State = TaskStateSubmitted
		}
	} else {
		p.State = NormalizeTaskState(string(p.State))
	}
	if p.OriginalImageURLs == nil {
		p.OriginalImageURLs = []string{}
	}
	if p.GeneratedImageURLs == nil {
		p.GeneratedImageURLs = []string{}
	}
	*r = TaskRecord(p)
	return nil
}

// HasArtifacts reports whether generated images were already materialized for the task.
func (r TaskRecord) HasArtifacts() bool {
	return len(r.GeneratedImageURLs) > 0
}

// TaskStatus is the outcome of a single poll.
type TaskStatus struct {
	TaskID             string    `json:"taskId"`
	State              TaskState `json:"state"`
	GeneratedImageURLs []string  `json:"generatedImageUrls"`
	// Cached is true when the answer came from the history ledger without a remote call.
	Cached  bool   `json:"cached"`
	Message string `json:"message,omitempty"`
}
