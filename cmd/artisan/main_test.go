package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/artisan/internal/adapters/logger"
	"go.trai.ch/artisan/internal/app"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports/mocks"
	"go.trai.ch/artisan/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type workflow struct {
	*mocks.MockGenerator
}

func (workflow) Wait(context.Context, string, orchestrator.WaitOptions) (*domain.TaskStatus, error) {
	return nil, errors.New("unexpected wait")
}

func (workflow) DefaultWaitOptions() orchestrator.WaitOptions {
	return orchestrator.WaitOptions{}
}

type fixture struct {
	provider ComponentProvider
	gen      *mocks.MockGenerator
	ledger   *mocks.MockHistoryLedger
	logs     *observer.ObservedLogs
}

func provide(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{gen: mocks.NewMockGenerator(ctrl), ledger: mocks.NewMockHistoryLedger(ctrl)}
	core, logs := observer.New(zap.DebugLevel)
	f.logs = logs
	log := logger.NewWithCore(core)
	connect := func(context.Context) (app.Workflow, http.Handler, error) {
		return workflow{f.gen}, http.NotFoundHandler(), nil
	}
	a := app.New(f.ledger, log, "127.0.0.1:0", connect)
	cfg := domain.DefaultConfig()
	f.provider = func(context.Context) (*app.Components, error) {
		return &app.Components{App: a, Logger: log, Config: &cfg}, nil
	}
	return f
}

func TestRun_Version(t *testing.T) {
	f := provide(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"version"}, &stdout, &stderr, f.provider)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "artisan version")
}

func TestRun_InitError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	provider := func(context.Context) (*app.Components, error) {
		return nil, domain.ErrConfiguration
	}

	code := run(context.Background(), []string{"version"}, &stdout, &stderr, provider)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: configuration error")
}

func TestRun_CommandErrorIsLogged(t *testing.T) {
	f := provide(t)
	f.ledger.EXPECT().FindByID(gomock.Any(), "missing").Return(domain.TaskRecord{}, false)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"history", "missing"}, &stdout, &stderr, f.provider)
	assert.Equal(t, 1, code)
	require.Equal(t, 1, f.logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestRun_GenerateWithoutImagesFails(t *testing.T) {
	f := provide(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"generate", "-p", "a cat"}, &stdout, &stderr, f.provider)
	assert.Equal(t, 1, code)
	errs := f.logs.FilterLevelExact(zap.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].ContextMap()["error"], "at least one image required")
}
