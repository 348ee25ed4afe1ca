package ptr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stockledger/pkg/ptr"
)

func TestDeref(t *testing.T) {
	assert.Equal(t, 7, ptr.Deref(ptr.New(7), 3))
	assert.Equal(t, 3, ptr.Deref(nil, 3))
	assert.Equal(t, "", ptr.Deref(ptr.New(""), "fallback"))
}
