package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueAddAndList(t *testing.T) {
	t.Parallel()

	q := NewQueue(false)
	defer q.Stop()

	id1 := q.Notify(KindInfo, "backend reachable again")
	id2 := q.Notify(KindWarning, "backend unreachable, serving mock data")

	assert.NotEqual(t, id1, id2, "ids must be unique even for rapid additions")

	items := q.List()
	require.Len(t, items, 2)
	assert.Equal(t, id1, items[0].ID)
	assert.Equal(t, KindInfo, items[0].Kind)
	assert.Equal(t, id2, items[1].ID)
	assert.Equal(t, 2, q.Len())
}

func TestQueueAutoExpiry(t *testing.T) {
	t.Parallel()

	q := NewQueue(false)
	defer q.Stop()

	q.AddAlert(KindSuccess, "alert RG-104 triggered", 20*time.Millisecond)
	require.Equal(t, 1, q.Len())

	assert.Eventually(t, func() bool { return q.Len() == 0 },
		time.Second, 10*time.Millisecond, "notification should expire after its duration")
}

func TestQueueZeroDurationNeverExpires(t *testing.T) {
	t.Parallel()

	q := NewQueue(false)
	defer q.Stop()

	id := q.AddAlert(KindError, "backend misconfigured", 0)

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, q.Len(), "duration 0 means sticky until dismissed")

	q.RemoveAlert(id)
	assert.Equal(t, 0, q.Len())
}

func TestQueueRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	q := NewQueue(false)
	defer q.Stop()

	id := q.Notify(KindInfo, "hello")

	q.RemoveAlert(id)
	q.RemoveAlert(id)
	q.RemoveAlert("never-existed")

	assert.Equal(t, 0, q.Len())
}

func TestQueueSubscribeReceivesBroadcast(t *testing.T) {
	t.Parallel()

	q := NewQueue(false)
	defer q.Stop()

	ch, _ := q.Subscribe()
	defer q.Unsubscribe(ch)

	id := q.AddAlert(KindDetection, "poacher detected (88% confidence)", 0)

	select {
	case n := <-ch:
		require.NotNil(t, n)
		assert.Equal(t, id, n.ID)
		assert.Equal(t, KindDetection, n.Kind)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the queued notification")
	}
}
