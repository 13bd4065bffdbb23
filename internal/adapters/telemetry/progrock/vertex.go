package progrock

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/artisan/internal/core/domain"
)

// taskVertex implements ports.Vertex on a progrock vertex. Only the first Complete is recorded,
// so a deferred Complete after an explicit one is harmless.
type taskVertex struct {
	rec  *progrock.VertexRecorder
	once sync.Once
}

func newTaskVertex(rec *progrock.VertexRecorder) *taskVertex {
	return &taskVertex{rec: rec}
}

func (v *taskVertex) Stdout() io.Writer {
	return v.rec.Stdout()
}

// Log writes msg to the vertex output, one line per message.
func (v *taskVertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.rec.Stdout(), "%s %s\n", strings.ToLower(level.String()), strings.TrimRight(msg, "\n"))
}

func (v *taskVertex) Complete(err error) {
	v.once.Do(func() {
		v.rec.Done(err)
	})
}

func (v *taskVertex) Cached() {
	v.rec.Cached()
}
