package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/zerr"
)

// Submit starts a generation task and returns its remote task id.
//
// At most domain.MaxImageRefs references are forwarded. When fewer than domain.MinImageRefs remain,
// the default style reference is appended. The task is recorded in the ledger with the caller's
// references before returning.
func (o *Orchestrator) Submit(ctx context.Context, prompt string, imageURLs []string) (string, error) {
	refs := make([]string, 0, len(imageURLs))
	for _, u := range imageURLs {
		if u = strings.TrimSpace(u); u != "" {
			refs = append(refs, u)
		}
	}
	if len(refs) == 0 {
		return "", domain.WithKind(domain.ErrValidation, domain.ErrNoImages)
	}

	originals := refs
	refs = ForwardedRefs(refs, o.remote.DefaultStyleURL)
	if strings.TrimSpace(prompt) == "" {
		prompt = o.remote.DefaultPrompt
	}

	env, err := o.call(ctx, o.remote.SubmitAction, submitRequest{
		Prompt:      prompt,
		ImageURLs:   refs,
		ReqKey:      o.remote.ReqKey,
		Scale:       o.remote.Scale,
		Size:        o.remote.Size,
		MinRatio:    o.remote.MinRatio,
		MaxRatio:    o.remote.MaxRatio,
		ForceSingle: o.remote.ForceSingle,
	})
	if err != nil {
		return "", err
	}
	if err := checkCode(o.remote.SubmitAction, env.Result, false); err != nil {
		return "", err
	}

	var data submitData
	if len(env.Result.Data) > 0 {
		if err := json.Unmarshal(env.Result.Data, &data); err != nil {
			return "", domain.WithKind(domain.ErrRemoteAPI, zerr.Wrap(err, "failed to parse submit result"))
		}
	}
	if data.TaskID == "" {
		return "", domain.WithKind(domain.ErrRemoteAPI, zerr.New("remote response has no task id"))
	}

	now := o.clock.Now().UTC()
	o.ledger.Append(ctx, domain.TaskRecord{
		TaskID:             data.TaskID,
		OriginalImageURLs:  originals,
		GeneratedImageURLs: []string{},
		State:              domain.TaskStateSubmitted,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	o.logger.Info("task submitted", "task_id", data.TaskID, "images", len(refs))

	return data.TaskID, nil
}

// ForwardedRefs truncates refs to domain.MaxImageRefs and pads them with styleURL up to
// domain.MinImageRefs.
func ForwardedRefs(refs []string, styleURL string) []string {
	if styleURL == "" {
		styleURL = domain.DefaultStyleURL
	}
	out := make([]string, 0, max(len(refs), domain.MinImageRefs))
	out = append(out, refs[:min(len(refs), domain.MaxImageRefs)]...)
	if len(out) < domain.MinImageRefs {
		out = append(out, styleURL)
	}
	return out
}
