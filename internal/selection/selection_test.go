package selection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_SelectNotifies(t *testing.T) {
	c := New()
	var got []Event
	c.Subscribe(func(ev Event) { got = append(got, ev) })

	c.Select("us1")

	require.Len(t, got, 1)
	assert.Equal(t, Event{ID: "us1"}, got[0])

	id, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, "us1", id)
}

func TestCoordinator_RepeatSelectStillNotifies(t *testing.T) {
	c := New()
	count := 0
	c.Subscribe(func(Event) { count++ })

	first := c.Select("us1")
	second := c.Select("us1")

	assert.Equal(t, 2, count)
	assert.False(t, first.Repeat)
	assert.True(t, second.Repeat)
}

func TestCoordinator_Clear(t *testing.T) {
	c := New()
	var got []Event
	c.Subscribe(func(ev Event) { got = append(got, ev) })

	c.Clear()
	assert.Empty(t, got, "clear with nothing selected does not notify")

	c.Select("a")
	c.Clear()
	require.Len(t, got, 2)
	assert.True(t, got[1].Cleared)

	_, ok := c.Current()
	assert.False(t, ok)
}

func TestCoordinator_Unsubscribe(t *testing.T) {
	c := New()
	a, b := 0, 0
	unsubA := c.Subscribe(func(Event) { a++ })
	c.Subscribe(func(Event) { b++ })

	c.Select("x")
	unsubA()
	unsubA()
	c.Select("y")

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestCoordinator_ObserversInSubscriptionOrder(t *testing.T) {
	c := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		c.Subscribe(func(Event) { order = append(order, i) })
	}

	c.Select("x")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestCoordinator_Channel(t *testing.T) {
	c := New()
	ch, unsubscribe := c.Channel(1)
	defer unsubscribe()

	c.Select("a")
	c.Select("b") // buffer full, dropped

	ev := <-ch
	assert.Equal(t, "a", ev.ID)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestCoordinator_ConcurrentUse(t *testing.T) {
	c := New()
	var mu sync.Mutex
	count := 0
	c.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Select("same")
			c.Current()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
}
