package consumer

import (
	"context"
	"errors"
	"fmt"

	"example.com/actiontracker/internal/domain"
)

// Ingester is the subset of domain.Service used by IngestHandler.
type Ingester interface {
	Ingest(ctx context.Context, input domain.IngestInput) (*domain.Ingested, error)
}

// IngestHandler applies each message payload to the tracker.
type IngestHandler struct {
	service Ingester
}

// NewIngestHandler constructs a handler backed by the provided service.
func NewIngestHandler(service Ingester) *IngestHandler {
	return &IngestHandler{service: service}
}

// Handle ingests the payload. Rejected records are reported as ErrSkip so they
// are committed instead of redelivered.
func (h *IngestHandler) Handle(ctx context.Context, msg Message) error {
	_, err := h.service.Ingest(ctx, domain.IngestInput{
		Raw:    string(msg.Payload),
		Source: "kafka:" + msg.Topic,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRejected) {
			return fmt.Errorf("%w: %v", ErrSkip, err)
		}
		return err
	}
	return nil
}
