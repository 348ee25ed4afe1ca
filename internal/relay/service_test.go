package relay_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/log"
	"github.com/tuanvumaihuynh/stockledger/internal/relay"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db/dbtest"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/mq"
)

type fakeOutboxRepo struct {
	repository.OutboxMsgRepository

	mu      sync.Mutex
	pending      []repository.ListUnprocessedOutboxMsgsResult
	updated      []repository.BulkUpdateOutboxMsgsItem
	purgedBefore []time.Time
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository {
	return r
}

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := min(int(params.BatchSize), len(r.pending))
	batch := r.pending[:n]
	r.pending = r.pending[n:]
	return batch, nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updated = append(r.updated, params.Items...)
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedOutboxMsgs(_ context.Context, params repository.DeleteProcessedOutboxMsgsParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgedBefore = append(r.purgedBefore, params.ProcessedBefore)
	return 0, nil
}

func (r *fakeOutboxRepo) purges() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Time(nil), r.purgedBefore...)
}

func (r *fakeOutboxRepo) updatedItems() []repository.BulkUpdateOutboxMsgsItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]repository.BulkUpdateOutboxMsgsItem(nil), r.updated...)
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.mu.Lock()
	p.produced = append(p.produced, msg)
	p.mu.Unlock()
	return nil
}

func TestRelay(t *testing.T) {
	okID, failID := uuid.New(), uuid.New()
	repo := &fakeOutboxRepo{
		pending: []repository.ListUnprocessedOutboxMsgsResult{
			{ID: okID, Topic: "stock.low", Payload: []byte(`{}`), Headers: map[string]string{}},
			{ID: failID, Topic: "broken", Payload: []byte(`{}`)},
		},
	}
	producer := &fakeProducer{failOn: "broken"}

	svc := relay.NewService(
		config.Relay{BatchSize: 10, Interval: 5 * time.Millisecond, ProduceTimeout: time.Second},
		log.Discard(),
		dbtest.New(),
		repo,
		producer,
	)
	cleanup := svc.Run(context.Background())
	defer cleanup()

	require.Eventually(t, func() bool {
		return len(repo.updatedItems()) == 2
	}, time.Second, 5*time.Millisecond)

	results := map[uuid.UUID]*string{}
	for _, item := range repo.updatedItems() {
		results[item.ID] = item.Error
	}
	assert.Nil(t, results[okID])
	require.NotNil(t, results[failID])
	assert.Contains(t, *results[failID], "broker unavailable")

	producer.mu.Lock()
	defer producer.mu.Unlock()
	require.Len(t, producer.produced, 1)
	assert.Equal(t, "stock.low", producer.produced[0].Topic)
}

func TestDrain(t *testing.T) {
	repo := &fakeOutboxRepo{}
	for range 5 {
		repo.pending = append(repo.pending, repository.ListUnprocessedOutboxMsgsResult{
			ID:      uuid.New(),
			Topic:   "product.created",
			Payload: []byte(`{}`),
		})
	}
	producer := &fakeProducer{}

	svc := relay.NewService(
		config.Relay{BatchSize: 2, ProduceTimeout: time.Second},
		log.Discard(),
		dbtest.New(),
		repo,
		producer,
	)

	n, err := svc.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Len(t, repo.updatedItems(), 5)

	n, err = svc.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPurge(t *testing.T) {
	repo := &fakeOutboxRepo{}

	svc := relay.NewService(
		config.Relay{
			BatchSize:      10,
			Interval:       5 * time.Millisecond,
			ProduceTimeout: time.Second,
			Retention:      24 * time.Hour,
			PurgeInterval:  time.Hour,
		},
		log.Discard(),
		dbtest.New(),
		repo,
		&fakeProducer{},
	)
	cleanup := svc.Run(context.Background())

	require.Eventually(t, func() bool {
		return len(repo.purges()) > 0
	}, time.Second, 5*time.Millisecond)

	// let a few more ticks pass; the interval keeps further purges away
	time.Sleep(30 * time.Millisecond)
	cleanup()

	purges := repo.purges()
	require.Len(t, purges, 1)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), purges[0], time.Minute)
}
