package streaming

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

type stubAlertSource struct {
	ch  chan *AlertEvent
	err error
}

func (s *stubAlertSource) SubscribeAlerts(ctx context.Context) (<-chan *AlertEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ch, nil
}

type stubStatusStore struct {
	updates map[int64]models.AlertStatus
	failIDs map[int64]bool
}

func newStubStatusStore() *stubStatusStore {
	return &stubStatusStore{
		updates: make(map[int64]models.AlertStatus),
		failIDs: make(map[int64]bool),
	}
}

func (s *stubStatusStore) UpdateStatus(ctx context.Context, id int64, status models.AlertStatus) error {
	if s.failIDs[id] {
		return fmt.Errorf("alert %d not found", id)
	}
	s.updates[id] = status
	return nil
}

func TestDeliveryWorkerMarksAlertsSent(t *testing.T) {
	ch := make(chan *AlertEvent, 2)
	ch <- &AlertEvent{AlertID: 1, UserID: "user-1"}
	ch <- &AlertEvent{AlertID: 2, UserID: "user-2"}
	close(ch)

	store := newStubStatusStore()
	w := NewDeliveryWorker(&stubAlertSource{ch: ch}, store, logger.NewDefault())

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, models.AlertSent, store.updates[1])
	assert.Equal(t, models.AlertSent, store.updates[2])
}

func TestDeliveryWorkerContinuesPastStatusFailure(t *testing.T) {
	ch := make(chan *AlertEvent, 2)
	ch <- &AlertEvent{AlertID: 1, UserID: "user-1"}
	ch <- &AlertEvent{AlertID: 2, UserID: "user-2"}
	close(ch)

	store := newStubStatusStore()
	store.failIDs[1] = true
	w := NewDeliveryWorker(&stubAlertSource{ch: ch}, store, logger.NewDefault())

	require.NoError(t, w.Run(context.Background()))

	_, marked := store.updates[1]
	assert.False(t, marked)
	assert.Equal(t, models.AlertSent, store.updates[2])
}

func TestDeliveryWorkerPropagatesSubscribeError(t *testing.T) {
	store := newStubStatusStore()
	w := NewDeliveryWorker(&stubAlertSource{err: errors.New("not connected")}, store, logger.NewDefault())

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.updates)
}
