// Package app implements the application layer for artisan.
package app

import (
	"context"
	"encoding/base64"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.trai.ch/artisan/internal/adapters/httpapi"   //nolint:depguard // Wired in app layer
	"go.trai.ch/artisan/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
	"go.trai.ch/artisan/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Workflow is the task lifecycle driven by the CLI.
type Workflow interface {
	ports.Generator

	// Wait polls a task until it reaches a terminal state.
	Wait(ctx context.Context, taskID string, opts orchestrator.WaitOptions) (*domain.TaskStatus, error)

	// DefaultWaitOptions returns the configured polling budget.
	DefaultWaitOptions() orchestrator.WaitOptions
}

// Connector builds the parts of the application that need remote credentials.
type Connector func(ctx context.Context) (Workflow, http.Handler, error)

// App represents the main application logic.
//
// History reads go straight to the ledger. Everything else connects on first use, so offline
// commands work without remote or storage credentials.
type App struct {
	ledger    ports.HistoryLedger
	logger    ports.Logger
	telemetry ports.Telemetry
	addr      string

	connect   Connector
	mu        sync.Mutex
	connected bool
	workflow  Workflow
	handler   http.Handler
	connErr   error
}

// New creates a new App instance.
func New(ledger ports.HistoryLedger, logger ports.Logger, addr string, connect Connector) *App {
	return &App{
		ledger:    ledger,
		logger:    logger,
		telemetry: telemetry.NewNoOp(),
		addr:      addr,
		connect:   connect,
	}
}

// WithTelemetry sets the telemetry session closed by Close.
func (a *App) WithTelemetry(t ports.Telemetry) *App {
	a.telemetry = t
	return a
}

// Addr returns the address Serve listens on.
func (a *App) Addr() string {
	return a.addr
}

// resolve connects once. A failed connection is not retried.
func (a *App) resolve(ctx context.Context) (Workflow, http.Handler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		a.workflow, a.handler, a.connErr = a.connect(ctx)
		a.connected = true
	}
	return a.workflow, a.handler, a.connErr
}

// Serve runs the HTTP surface until ctx is cancelled, then shuts it down gracefully.
func (a *App) Serve(ctx context.Context) error {
	if _, _, err := a.resolve(ctx); err != nil {
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", a.addr)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener runs the HTTP surface on ln until ctx is cancelled.
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	_, handler, err := a.resolve(ctx)
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := httpapi.NewHTTPServer(ln.Addr().String(), handler)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "server failed")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "server shutdown failed")
		}
		a.logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// GenerateOptions configures Generate.
type GenerateOptions struct {
	Prompt string
	// Images holds remote URLs, data URIs, or paths of local image files.
	Images []string
	// Wait polls the task until it reaches a terminal state.
	Wait bool
}

// Generate uploads local reference images, submits a task and optionally waits for it.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) (*domain.TaskStatus, error) {
	workflow, _, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(opts.Images))
	for _, image := range opts.Images {
		ref, err := resolveImage(ctx, workflow, image)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	taskID, err := workflow.Submit(ctx, opts.Prompt, refs)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to submit task")
	}
	if !opts.Wait {
		return &domain.TaskStatus{TaskID: taskID, State: domain.TaskStateSubmitted, GeneratedImageURLs: []string{}}, nil
	}
	return workflow.Wait(ctx, taskID, workflow.DefaultWaitOptions())
}

// Status polls a task once.
func (a *App) Status(ctx context.Context, taskID string) (*domain.TaskStatus, error) {
	workflow, _, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}

	status, err := workflow.Poll(ctx, taskID)
	if errors.Is(err, domain.ErrRemoteTaskFailed) {
		return &domain.TaskStatus{TaskID: taskID, State: domain.TaskStateFailed, GeneratedImageURLs: []string{}}, nil
	}
	return status, err
}

// History returns every recorded task, newest first.
func (a *App) History(ctx context.Context) []domain.TaskRecord {
	return a.ledger.All(ctx)
}

// Record returns the recorded task with the given id.
func (a *App) Record(ctx context.Context, taskID string) (domain.TaskRecord, error) {
	record, ok := a.ledger.FindByID(ctx, taskID)
	if !ok {
		return domain.TaskRecord{}, domain.WithKind(domain.ErrRecordNotFound,
			zerr.With(zerr.New("no history record"), "task_id", taskID))
	}
	return record, nil
}

// Upload stores the image file at path and returns its public URL.
func (a *App) Upload(ctx context.Context, path string) (string, error) {
	workflow, _, err := a.resolve(ctx)
	if err != nil {
		return "", err
	}
	return uploadFile(ctx, workflow, path)
}

// Close flushes the telemetry session.
func (a *App) Close() error {
	return a.telemetry.Close()
}

func resolveImage(ctx context.Context, workflow Workflow, image string) (string, error) {
	image = strings.TrimSpace(image)
	switch {
	case image == "":
		return "", nil
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return image, nil
	case strings.HasPrefix(image, "data:"):
		return workflow.UploadImage(ctx, image)
	default:
		return uploadFile(ctx, workflow, image)
	}
}

func uploadFile(ctx context.Context, workflow Workflow, path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is supplied by the operator
	if err != nil {
		return "", domain.WithKind(domain.ErrValidation, zerr.With(zerr.Wrap(err, "failed to read image"), "path", path))
	}
	return workflow.UploadImage(ctx, toDataURI(data))
}

func toDataURI(data []byte) string {
	return "data:" + domain.SniffImageType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
