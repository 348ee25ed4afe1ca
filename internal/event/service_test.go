package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/log"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if _, ok := c.handlers[topic]; ok {
		return errors.New("already registered")
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	return func() {}, nil
}

type sentNotification struct {
	storeID  string
	title    string
	body     string
	category model.NotificationCategory
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) NotifyStoreOwner(_ context.Context, storeID, title, body string, category model.NotificationCategory) (model.Notification, error) {
	if n.err != nil {
		return model.Notification{}, n.err
	}
	n.sent = append(n.sent, sentNotification{storeID, title, body, category})
	return model.Notification{ID: "n1", UserID: "owner", Title: title, Body: body, Category: category}, nil
}

type fakePusher struct {
	pushed []model.Notification
	err    error
}

func (p *fakePusher) Push(_ context.Context, n model.Notification) error {
	p.pushed = append(p.pushed, n)
	return p.err
}

func TestStockAlert(t *testing.T) {
	title, body, category := event.StockAlert(event.StockLowEvent{Name: "Widget", Stock: 3})
	assert.Equal(t, "Low Stock Alert", title)
	assert.Equal(t, "Widget is running low (Stock: 3)", body)
	assert.Equal(t, model.NotificationCategoryLowStock, category)

	title, _, category = event.StockAlert(event.StockLowEvent{Name: "Widget", Stock: 0})
	assert.Equal(t, "Out of Stock", title)
	assert.Equal(t, model.NotificationCategoryOutOfStock, category)
}

func TestServiceHandlers(t *testing.T) {
	ctx := context.Background()

	setup := func(notifier *fakeNotifier, pusher event.Pusher) *fakeConsumer {
		consumer := &fakeConsumer{handlers: map[string]mq.HandlerFunc{}}
		svc := event.New(log.Discard(), consumer, notifier, pusher)
		require.NoError(t, svc.RegisterHandlers())
		return consumer
	}

	t.Run("Should notify the store owner and push", func(t *testing.T) {
		notifier := &fakeNotifier{}
		pusher := &fakePusher{}
		consumer := setup(notifier, pusher)

		err := consumer.handlers[event.TopicStockLow](ctx, event.TopicStockLow,
			[]byte(`{"store_id":"s1","product_id":"p1","name":"Widget","stock":4,"threshold":20}`))
		require.NoError(t, err)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "s1", notifier.sent[0].storeID)
		assert.Equal(t, "Widget is running low (Stock: 4)", notifier.sent[0].body)
		require.Len(t, pusher.pushed, 1)
		assert.Equal(t, "n1", pusher.pushed[0].ID)
	})

	t.Run("Should not fail when the push fails", func(t *testing.T) {
		notifier := &fakeNotifier{}
		consumer := setup(notifier, &fakePusher{err: errors.New("push down")})

		err := consumer.handlers[event.TopicStockLow](ctx, event.TopicStockLow,
			[]byte(`{"store_id":"s1","product_id":"p1","name":"Widget","stock":0}`))
		require.NoError(t, err)
		assert.Equal(t, model.NotificationCategoryOutOfStock, notifier.sent[0].category)
	})

	t.Run("Should work without a pusher", func(t *testing.T) {
		notifier := &fakeNotifier{}
		consumer := setup(notifier, nil)

		err := consumer.handlers[event.TopicStockLow](ctx, event.TopicStockLow,
			[]byte(`{"store_id":"s1","product_id":"p1","name":"Widget","stock":1}`))
		require.NoError(t, err)
		assert.Len(t, notifier.sent, 1)
	})

	t.Run("Should return notifier errors", func(t *testing.T) {
		boom := errors.New("db down")
		consumer := setup(&fakeNotifier{err: boom}, nil)

		err := consumer.handlers[event.TopicStockLow](ctx, event.TopicStockLow,
			[]byte(`{"store_id":"s1","product_id":"p1","name":"Widget","stock":1}`))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Should reject malformed payloads", func(t *testing.T) {
		consumer := setup(&fakeNotifier{}, nil)

		err := consumer.handlers[event.TopicStockLow](ctx, event.TopicStockLow, []byte(`{`))
		assert.Error(t, err)

		err = consumer.handlers[event.TopicProductCreated](ctx, event.TopicProductCreated,
			[]byte(`{"store_id":"s1","product_id":"p1","price":"9.5"}`))
		assert.NoError(t, err)
	})
}
