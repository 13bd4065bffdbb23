package orchestrator_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.trai.ch/artisan/internal/adapters/logger"
	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports/mocks"
	"go.trai.ch/artisan/internal/engine/orchestrator"
	"go.trai.ch/artisan/internal/engine/signer"
	"go.uber.org/mock/gomock"
)

const testHost = "open.volcengineapi.com"

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

type fixture struct {
	transport *mocks.MockRemoteTransport
	store     *mocks.MockArtifactStore
	ledger    *mocks.MockHistoryLedger
	clock     fakeClock
	orch      *orchestrator.Orchestrator
}

func testConfig() *domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Remote.AccessKeyID = "AKTEST"
	cfg.Remote.SecretAccessKey = "SECRET"
	return &cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		transport: mocks.NewMockRemoteTransport(ctrl),
		store:     mocks.NewMockArtifactStore(ctrl),
		ledger:    mocks.NewMockHistoryLedger(ctrl),
		clock:     clockwork.NewFakeClockAt(epoch),
	}
	f.transport.EXPECT().Host().Return(testHost).AnyTimes()

	orch, err := orchestrator.New(testConfig(), signer.New(), f.transport, f.store, f.ledger, logger.NewNop(),
		orchestrator.WithClock(f.clock))
	require.NoError(t, err)
	f.orch = orch
	return f
}

func response(status int, body string) *domain.RemoteResponse {
	return &domain.RemoteResponse{StatusCode: status, Body: []byte(body)}
}

func submitOK(taskID string) *domain.RemoteResponse {
	return response(200, `{"ResponseMetadata":{"RequestId":"r1"},"Result":{"code":10000,"data":{"task_id":"`+taskID+`"},"message":"Success"}}`)
}

func resultWith(status string, payloads ...string) *domain.RemoteResponse {
	data := map[string]any{"status": status}
	if len(payloads) > 0 {
		data["binary_data_base64"] = payloads
	}
	body, _ := json.Marshal(map[string]any{
		"ResponseMetadata": map[string]any{"RequestId": "r2"},
		"Result":           map[string]any{"code": 10000, "data": data, "message": "Success"},
	})
	return &domain.RemoteResponse{StatusCode: 200, Body: body}
}

func payload(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// decodeBody returns the JSON body of a captured remote request.
func decodeBody(t *testing.T, req *domain.RemoteRequest) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	return body
}

func respond(resp *domain.RemoteResponse) func(context.Context, *domain.RemoteRequest) (*domain.RemoteResponse, error) {
	return func(context.Context, *domain.RemoteRequest) (*domain.RemoteResponse, error) {
		return resp, nil
	}
}
