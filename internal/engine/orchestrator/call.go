package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/engine/signer"
	"go.trai.ch/zerr"
)

// call signs and sends one action and classifies the response.
// The returned envelope always carries a Result.
func (o *Orchestrator) call(ctx context.Context, action string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal remote request")
	}

	now := o.clock.Now()
	headers := map[string]string{
		"Content-Type": contentTypeJSON,
		"Host":         o.transport.Host(),
		"X-Date":       signer.FormatTimestamp(now),
	}
	query := map[string][]string{
		"Action":  {action},
		"Version": {o.remote.Version},
	}

	auth, err := o.signer.Sign(domain.SigningContext{
		Method:        http.MethodPost,
		Path:          remotePath,
		Query:         query,
		Headers:       headers,
		Region:        o.remote.Region,
		Service:       o.remote.Service,
		AccessKeyID:   o.remote.AccessKeyID,
		SecretKey:     o.remote.SecretAccessKey,
		Body:          body,
		SignedHeaders: signedHeaders,
	}, now)
	if err != nil {
		return nil, err
	}
	headers["Authorization"] = auth

	resp, err := o.transport.Send(ctx, &domain.RemoteRequest{
		Method:  http.MethodPost,
		Path:    remotePath,
		Query:   query,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, domain.WithKind(domain.ErrRemoteAPI, zerr.With(err, "action", action))
	}

	return classify(action, resp)
}

func classify(action string, resp *domain.RemoteResponse) (*envelope, error) {
	var env envelope
	decodeErr := json.Unmarshal(resp.Body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(action, resp.StatusCode, &env)
	}
	if decodeErr != nil {
		return nil, domain.WithKind(domain.ErrRemoteAPI,
			zerr.With(zerr.Wrap(decodeErr, "failed to parse remote response"), "action", action))
	}
	if e := env.ResponseMetadata.Error; e != nil {
		detail := zerr.With(zerr.With(zerr.New(e.Message), "action", action), "remote_code", e.Code)
		return nil, domain.WithKind(domain.ErrRemoteAPI, detail)
	}
	if env.Result == nil {
		return nil, domain.WithKind(domain.ErrRemoteAPI, zerr.With(zerr.New("remote response has no result"), "action", action))
	}
	return &env, nil
}

func statusError(action string, status int, env *envelope) error {
	message := http.StatusText(status)
	remoteCode := ""
	if e := env.ResponseMetadata.Error; e != nil {
		remoteCode = e.Code
		if e.Message != "" {
			message = e.Message
		}
	}
	detail := zerr.With(zerr.With(zerr.New(message), "action", action), "status_code", status)
	if remoteCode != "" {
		detail = zerr.With(detail, "remote_code", remoteCode)
	}

	switch {
	case status == http.StatusUnauthorized && remoteCode == codeSignatureMismatch:
		return domain.WithKind(domain.ErrAuth, domain.WithKind(domain.ErrSignatureMismatch, detail))
	case status == http.StatusUnauthorized:
		return domain.WithKind(domain.ErrAuth, domain.WithKind(domain.ErrUnauthorized, detail))
	case status == http.StatusForbidden:
		return domain.WithKind(domain.ErrAuth, domain.WithKind(domain.ErrForbidden, detail))
	default:
		return domain.WithKind(domain.ErrRemoteAPI, detail)
	}
}

// checkCode enforces the business success sentinel. A missing code is accepted only when
// allowMissing is set.
func checkCode(action string, r *result, allowMissing bool) error {
	if r.Code == nil {
		if allowMissing {
			return nil
		}
		return domain.WithKind(domain.ErrRemoteAPI, zerr.With(zerr.New("remote response has no business code"), "action", action))
	}
	if *r.Code != domain.RemoteSuccessCode {
		message := r.Message
		if message == "" {
			message = "remote business code indicates failure"
		}
		return domain.WithKind(domain.ErrRemoteAPI,
			zerr.With(zerr.With(zerr.New(message), "action", action), "remote_code", *r.Code))
	}
	return nil
}
