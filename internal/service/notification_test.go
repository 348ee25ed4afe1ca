package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/service"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	accounts := newAccountRepo()
	accounts.stores[storeID] = model.Store{ID: storeID, OwnerID: "owner"}
	notifications := &notificationRepo{}
	svc := service.NewNotificationService(notifications, accounts)

	first, err := svc.Send(ctx, "owner", "Hello", "Welcome aboard", "")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationCategoryInfo, first.Category)

	second, err := svc.NotifyStoreOwner(ctx, storeID, "Out of Stock", "Nut is out of stock (Stock: 0)", model.NotificationCategoryOutOfStock)
	require.NoError(t, err)
	assert.Equal(t, "owner", second.UserID)

	_, err = svc.NotifyStoreOwner(ctx, "missing", "t", "b", "")
	assert.ErrorIs(t, err, apperr.StoreNotFoundErr)

	list, err := svc.ListNotifications(ctx, "owner", false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, svc.MarkRead(ctx, "owner", second.ID))
	assert.ErrorIs(t, svc.MarkRead(ctx, "someone", first.ID), apperr.NotificationNotFoundErr)

	unread, err := svc.ListNotifications(ctx, "owner", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, first.ID, unread[0].ID)
}
