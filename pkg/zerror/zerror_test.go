package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stockledger/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("get product: %w", notFound)
		assert.ErrorIs(t, err, notFound)
	})

	t.Run("Should match after message is replaced", func(t *testing.T) {
		err := notFound.WithMsg("product p1 not found")
		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, "product p1 not found", err.Msg())
		assert.Equal(t, "product not found", notFound.Msg())
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewNotFound("SALE_NOT_FOUND", "sale not found")
		assert.NotErrorIs(t, notFound, other)
	})

	t.Run("Should expose parent", func(t *testing.T) {
		parent := errors.New("boom")
		err := notFound.WrapParent(parent)
		assert.ErrorIs(t, err, parent)
		assert.Equal(t, parent, err.Parent())
		assert.Equal(t, "PRODUCT_NOT_FOUND: product not found: boom", err.Error())
	})

	t.Run("Should keep status", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", notFound.WithMsgf("product %s not found", "p1"))

		zErr, ok := zerror.From(err)
		assert.True(t, ok)
		assert.Equal(t, "product p1 not found", zErr.Msg())
		assert.Equal(t, zerror.StatusNotFound, zerror.StatusOf(err))
		assert.Equal(t, "NOT_FOUND", zErr.Status().String())
	})

	t.Run("Should report unknown status for plain errors", func(t *testing.T) {
		_, ok := zerror.From(errors.New("boom"))
		assert.False(t, ok)
		assert.Equal(t, zerror.StatusUnknown, zerror.StatusOf(errors.New("boom")))
	})
}
