package dialog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_TakeConsumesState(t *testing.T) {
	m := NewManager()

	m.Begin(7, AwaitingPromoSpec)
	assert.True(t, m.Pending(7))

	state, ok := m.Take(7)
	assert.True(t, ok)
	assert.Equal(t, AwaitingPromoSpec, state)

	// Consumed: a second take finds nothing.
	_, ok = m.Take(7)
	assert.False(t, ok)
	assert.False(t, m.Pending(7))
}

func TestManager_BeginReplacesState(t *testing.T) {
	m := NewManager()

	m.Begin(7, AwaitingAdminAdd)
	m.Begin(7, AwaitingGrantSpec)

	state, ok := m.Take(7)
	assert.True(t, ok)
	assert.Equal(t, AwaitingGrantSpec, state)
}

func TestManager_IndependentPerIdentity(t *testing.T) {
	m := NewManager()

	m.Begin(7, AwaitingPromoSpec)
	m.Begin(8, AwaitingAdminRemove)

	state7, ok := m.Take(7)
	assert.True(t, ok)
	assert.Equal(t, AwaitingPromoSpec, state7)

	// Consuming 7's state leaves 8's untouched.
	state8, ok := m.Take(8)
	assert.True(t, ok)
	assert.Equal(t, AwaitingAdminRemove, state8)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.Begin(id, AwaitingGrantSpec)
			state, ok := m.Take(id)
			assert.True(t, ok)
			assert.Equal(t, AwaitingGrantSpec, state)
		}(int64(i))
	}
	wg.Wait()
}
