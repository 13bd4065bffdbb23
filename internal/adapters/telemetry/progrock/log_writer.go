package progrock

import (
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/artisan/internal/core/ports"
)

// LogWriter is a progrock.Writer that turns vertex updates into structured log lines.
// It lets a headless server keep the progress trail without a terminal UI.
type LogWriter struct {
	logger ports.Logger

	mu    sync.Mutex
	names map[string]string
}

// NewLogWriter creates a LogWriter logging to logger.
func NewLogWriter(logger ports.Logger) *LogWriter {
	return &LogWriter{
		logger: logger,
		names:  make(map[string]string),
	}
}

// WriteStatus logs vertex starts, completions and output lines.
func (w *LogWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		w.processVertex(v)
	}
	for _, l := range update.Logs {
		text := strings.TrimRight(string(l.Data), "\n")
		if text == "" {
			continue
		}
		w.logger.Debug(text, "vertex", w.names[l.Vertex])
	}
	return nil
}

func (w *LogWriter) processVertex(v *progrock.Vertex) {
	if _, seen := w.names[v.Id]; !seen {
		w.names[v.Id] = v.Name
		w.logger.Debug("started", "vertex", v.Name)
	}

	if v.Completed == nil {
		return
	}

	switch {
	case v.Error != nil:
		w.logger.Warn("failed", "vertex", v.Name, "error", *v.Error)
	case v.Cached:
		w.logger.Debug("cached", "vertex", v.Name)
	default:
		w.logger.Debug("completed", "vertex", v.Name)
	}
	delete(w.names, v.Id)
}

// Close does nothing; the logger outlives the recording session.
func (w *LogWriter) Close() error {
	return nil
}
