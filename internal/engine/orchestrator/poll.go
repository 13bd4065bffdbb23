package orchestrator

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Poll queries the state of a task once.
//
// A task whose ledger record already carries generated URLs is answered from the ledger without a
// remote call, so artifacts are materialized at most once. Concurrent polls of the same task share
// one remote call.
func (o *Orchestrator) Poll(ctx context.Context, taskID string) (*domain.TaskStatus, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil, domain.WithKind(domain.ErrValidation, zerr.New("task id required"))
	}

	// The shared call outlives any single caller; each caller still honours its own ctx.
	ch := o.polls.DoChan(taskID, func() (any, error) {
		return o.poll(context.WithoutCancel(ctx), taskID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	status := *res.Val.(*domain.TaskStatus)
	status.GeneratedImageURLs = slices.Clone(status.GeneratedImageURLs)
	return &status, nil
}

func (o *Orchestrator) poll(ctx context.Context, taskID string) (*domain.TaskStatus, error) {
	prev, found := o.ledger.FindByID(ctx, taskID)
	if found && prev.HasArtifacts() {
		o.logger.Debug("task answered from history", "task_id", taskID)
		return &domain.TaskStatus{
			TaskID:             taskID,
			State:              domain.TaskStateDone,
			GeneratedImageURLs: prev.GeneratedImageURLs,
			Cached:             true,
		}, nil
	}

	env, err := o.call(ctx, o.remote.ResultAction, resultRequest{TaskID: taskID, ReqKey: o.remote.ReqKey})
	if err != nil {
		return nil, err
	}
	if err := checkCode(o.remote.ResultAction, env.Result, true); err != nil {
		return nil, err
	}

	var data resultData
	if len(env.Result.Data) > 0 {
		if err := json.Unmarshal(env.Result.Data, &data); err != nil {
			return nil, domain.WithKind(domain.ErrRemoteAPI,
				zerr.With(zerr.Wrap(err, "failed to parse task result"), "task_id", taskID))
		}
	}

	switch data.Status {
	case domain.RemoteStatusDone:
		urls := o.materialize(ctx, taskID, data.BinaryDataBase64)
		o.record(ctx, prev, found, domain.TaskRecord{
			TaskID:             taskID,
			GeneratedImageURLs: urls,
			State:              domain.TaskStateDone,
		})
		o.logger.Info("task done", "task_id", taskID, "images", len(urls), "payloads", len(data.BinaryDataBase64))
		return &domain.TaskStatus{
			TaskID:             taskID,
			State:              domain.TaskStateDone,
			GeneratedImageURLs: urls,
			Message:            env.Result.Message,
		}, nil

	case domain.RemoteStatusFailed:
		o.record(ctx, prev, found, domain.TaskRecord{
			TaskID:             taskID,
			GeneratedImageURLs: []string{},
			State:              domain.TaskStateFailed,
		})
		message := env.Result.Message
		if message == "" {
			message = domain.ErrRemoteTaskFailed.Error()
		}
		return nil, domain.WithKind(domain.ErrRemoteTaskFailed, zerr.With(zerr.New(message), "task_id", taskID))

	default:
		return &domain.TaskStatus{
			TaskID:             taskID,
			State:              domain.TaskStateProcessing,
			GeneratedImageURLs: []string{},
			Message:            data.Status,
		}, nil
	}
}

// materialize uploads each payload in order. Failed payloads are logged and skipped.
func (o *Orchestrator) materialize(ctx context.Context, taskID string, payloads []string) []string {
	urls := make([]string, 0, len(payloads))
	for i, payload := range payloads {
		data, contentType, err := domain.DecodePayload(payload)
		if err != nil {
			o.logger.Warn("skipping undecodable payload", "task_id", taskID, "index", i, "error", err.Error())
			continue
		}

		key := domain.NewArtifactKey(o.clock.Now(), contentType)
		url, err := o.store.Put(ctx, key, data, contentType)
		if err != nil {
			o.logger.Warn("skipping payload after upload failure", "task_id", taskID, "index", i, "error", err.Error())
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// record writes the terminal state of a task. A record already in a different terminal state is
// left untouched.
func (o *Orchestrator) record(ctx context.Context, prev domain.TaskRecord, found bool, next domain.TaskRecord) {
	now := o.clock.Now().UTC()
	next.UpdatedAt = now
	next.CreatedAt = now
	next.OriginalImageURLs = []string{}

	if found {
		if prev.State.IsTerminal() && prev.State != next.State {
			o.logger.Warn("ignoring transition out of terminal state",
				"task_id", next.TaskID, "from", string(prev.State), "to", string(next.State))
			return
		}
		next.CreatedAt = prev.CreatedAt
		next.OriginalImageURLs = prev.OriginalImageURLs
	}

	o.ledger.Upsert(ctx, next)
}
