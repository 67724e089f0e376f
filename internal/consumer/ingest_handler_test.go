package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/actiontracker/internal/domain"
)

func TestIngestHandlerTagsSourceWithTopic(t *testing.T) {
	ingester := &recordingIngester{}
	handler := NewIngestHandler(ingester)

	err := handler.Handle(context.Background(), Message{Topic: "actions", Payload: []byte(`{"action":"a","time":1}`)})
	require.NoError(t, err)
	require.Equal(t, "kafka:actions", ingester.last.Source)
	require.Equal(t, `{"action":"a","time":1}`, ingester.last.Raw)
}

func TestIngestHandlerMapsRejectionToSkip(t *testing.T) {
	handler := NewIngestHandler(domain.NewService())

	err := handler.Handle(context.Background(), Message{Topic: "actions", Payload: []byte(`{}`)})
	require.ErrorIs(t, err, ErrSkip)
	require.Contains(t, err.Error(), "addAction - invalid action - missing action")
}

func TestIngestHandlerPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	handler := NewIngestHandler(&recordingIngester{err: boom})

	err := handler.Handle(context.Background(), Message{Topic: "actions", Payload: []byte(`{}`)})
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrSkip)
}

type recordingIngester struct {
	last domain.IngestInput
	err  error
}

func (r *recordingIngester) Ingest(_ context.Context, input domain.IngestInput) (*domain.Ingested, error) {
	r.last = input
	if r.err != nil {
		return nil, r.err
	}
	return &domain.Ingested{}, nil
}
