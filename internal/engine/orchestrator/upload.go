package orchestrator

import (
	"context"

	"go.trai.ch/artisan/internal/core/domain"
)

// UploadImage stores a caller-provided base64 image data URI and returns its public URL.
func (o *Orchestrator) UploadImage(ctx context.Context, dataURI string) (string, error) {
	data, contentType, err := domain.DecodeDataURI(dataURI)
	if err != nil {
		return "", domain.WithKind(domain.ErrValidation, err)
	}

	url, err := o.store.Put(ctx, domain.NewArtifactKey(o.clock.Now(), contentType), data, contentType)
	if err != nil {
		return "", err
	}
	o.logger.Info("image uploaded", "url", url, "bytes", len(data))
	return url, nil
}

// History returns every ledger record, newest first.
func (o *Orchestrator) History(ctx context.Context) []domain.TaskRecord {
	return o.ledger.All(ctx)
}

// Record returns the ledger record of taskID.
func (o *Orchestrator) Record(ctx context.Context, taskID string) (domain.TaskRecord, bool) {
	return o.ledger.FindByID(ctx, taskID)
}
