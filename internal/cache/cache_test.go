package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetSet(t *testing.T) {
	c := New()
	key := Key{Resource: "transfers", ID: "1"}

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, []string{"a", "b"})
	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestCache_Invalidate(t *testing.T) {
	c := New()
	key := Key{Resource: "transfers", ID: "1"}
	other := Key{Resource: "transfers", ID: "2"}

	c.Set(key, 1)
	c.Set(other, 2)
	c.Invalidate(key)

	_, ok := c.Get(key)
	assert.False(t, ok)
	_, ok = c.Get(other)
	assert.True(t, ok, "other keys untouched")
}

func TestCache_InvalidateResource(t *testing.T) {
	c := New()
	c.Set(Key{Resource: "upis", ID: "1234567890"}, 1)
	c.Set(Key{Resource: "upis", ID: "9999999999"}, 2)
	c.Set(Key{Resource: "cards", ID: "1234567890"}, 3)

	c.InvalidateResource("upis")

	_, ok := c.Get(Key{Resource: "upis", ID: "1234567890"})
	assert.False(t, ok)
	_, ok = c.Get(Key{Resource: "upis", ID: "9999999999"})
	assert.False(t, ok)
	_, ok = c.Get(Key{Resource: "cards", ID: "1234567890"})
	assert.True(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key{Resource: "transfers", ID: fmt.Sprint(i % 5)}
			c.Set(key, i)
			c.Get(key)
			c.Invalidate(key)
		}(i)
	}
	wg.Wait()
}
