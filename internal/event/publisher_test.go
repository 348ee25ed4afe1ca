package event_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stockledger/pkg/correlationid"
)

type fakeOutboxRepo struct {
	repository.OutboxMsgRepository

	created []repository.CreateOutboxMsgParams
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository {
	return r
}

func (r *fakeOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.created = append(r.created, params)
	return nil
}

func TestOutboxPublisher(t *testing.T) {
	repo := &fakeOutboxRepo{}
	pub := event.NewOutboxPublisher(repo).WithDB(nil)

	ctx := correlationid.NewContext(context.Background(), "corr-1")

	t.Run("Should write the event with headers and key", func(t *testing.T) {
		err := pub.Publish(ctx, event.Message{
			Topic:   event.TopicStockLow,
			Key:     "p1",
			Payload: event.StockLowEvent{StoreID: "s1", ProductID: "p1", Name: "Widget", Stock: 2},
		})
		require.NoError(t, err)
		require.Len(t, repo.created, 1)

		msg := repo.created[0]
		assert.Equal(t, event.TopicStockLow, msg.Topic)
		assert.Equal(t, "corr-1", msg.Headers[correlationid.Header])
		require.NotNil(t, msg.PartitionKey)
		assert.Equal(t, "p1", *msg.PartitionKey)

		var ev event.StockLowEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, 2, ev.Stock)
	})

	t.Run("Should leave the key empty when not set", func(t *testing.T) {
		err := pub.Publish(ctx, event.Message{Topic: event.TopicProductCreated, Payload: event.ProductCreatedEvent{}})
		require.NoError(t, err)
		assert.Nil(t, repo.created[len(repo.created)-1].PartitionKey)
	})
}
