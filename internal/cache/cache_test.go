package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocal_Unavailable(t *testing.T) {
	var local Local

	assert.False(t, local.Available())

	local.Set("coffee-gram", "15")
	v, ok := local.Get("coffee-gram")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestLocal_NilStore(t *testing.T) {
	local := NewLocal(nil)
	assert.False(t, local.Available())
	assert.NotPanics(t, func() { local.Set("water-ml", "250") })
}

func TestLocal_RoundTrip(t *testing.T) {
	store := NewMemory()
	local := NewLocal(store)
	assert.True(t, local.Available())

	_, ok := local.Get("coffee-gram")
	assert.False(t, ok)

	local.Set("coffee-gram", "15")
	v, ok := local.Get("coffee-gram")
	assert.True(t, ok)
	assert.Equal(t, "15", v)

	local.Set("coffee-gram", "18")
	v, _ = local.Get("coffee-gram")
	assert.Equal(t, "18", v, "set overwrites unconditionally")
	assert.Equal(t, 1, store.Len())
}

func TestLocal_KeysAreFieldNames(t *testing.T) {
	store := NewMemory()
	local := NewLocal(store)

	local.Set("use-water-ml", "500")

	v, ok := store.Get("use-water-ml")
	assert.True(t, ok)
	assert.Equal(t, "500", v)
}

func TestForVisitor(t *testing.T) {
	p := NewMemoryProvider()

	t.Run("nil provider", func(t *testing.T) {
		assert.False(t, ForVisitor(nil, "v1").Available())
	})

	t.Run("empty visitor", func(t *testing.T) {
		assert.False(t, ForVisitor(p, "").Available())
	})

	t.Run("visitors are isolated", func(t *testing.T) {
		a := ForVisitor(p, "a")
		b := ForVisitor(p, "b")

		a.Set("water-ml", "250")

		_, ok := b.Get("water-ml")
		assert.False(t, ok)

		v, ok := ForVisitor(p, "a").Get("water-ml")
		assert.True(t, ok)
		assert.Equal(t, "250", v)
		assert.Equal(t, 2, p.VisitorCount())
	})
}
