package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildwatch/wildwatch-go/internal/alertservice"
	"github.com/wildwatch/wildwatch-go/internal/conf"
	"github.com/wildwatch/wildwatch-go/internal/datasource"
)

func newConsumerFixture(t *testing.T, realTime bool) (*alertservice.Service, *Queue) {
	t.Helper()

	settings := &conf.Settings{
		UseMockData: true,
		Operator:    "Operator 1",
		Features: conf.FeatureSettings{
			AlertsEnabled:          true,
			RealTimeUpdatesEnabled: realTime,
		},
	}
	mock := datasource.NewMockSourceFromJSON([]byte(`{"detections":[
		{"id":"DET-1","class_name":"poacher","confidence":0.91},
		{"id":"DET-2","class_name":"vehicle","confidence":0.75},
		{"id":"DET-3","class_name":"rhino","confidence":0.97}
	]}`))

	svc, err := alertservice.New(settings, nil, mock, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	q := NewQueue(false)
	t.Cleanup(q.Stop)
	return svc, q
}

func TestDetectionConsumerNotifiesThreatsOnce(t *testing.T) {
	t.Parallel()

	svc, q := newConsumerFixture(t, true)

	c := NewDetectionConsumer(svc, q, conf.PollSettings{Interval: 10 * time.Millisecond, Limit: 10})
	c.Start(context.Background())
	defer c.Stop()

	// Threat classes are poacher and vehicle; the rhino sighting stays out
	// of the transient feed.
	require.Eventually(t, func() bool { return q.Len() == 2 },
		time.Second, 10*time.Millisecond)

	// Later polls see the same detections and must not re-notify.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, q.Len())

	for _, n := range q.List() {
		assert.Equal(t, KindDetection, n.Kind)
	}
}

func TestDetectionConsumerRespectsRealTimeFlag(t *testing.T) {
	t.Parallel()

	svc, q := newConsumerFixture(t, false)

	c := NewDetectionConsumer(svc, q, conf.PollSettings{Interval: 10 * time.Millisecond, Limit: 10})
	c.Start(context.Background())
	defer c.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, q.Len(), "polling is gated off while real-time updates are disabled")

	// Flipping the flag at runtime resumes notifications on the next poll.
	svc.Flags().Set(alertservice.FeatureRealTimeUpdates, true)
	assert.Eventually(t, func() bool { return q.Len() == 2 },
		time.Second, 10*time.Millisecond)
}

func TestDetectionConsumerStopIsSafe(t *testing.T) {
	t.Parallel()

	svc, q := newConsumerFixture(t, true)
	c := NewDetectionConsumer(svc, q, conf.PollSettings{Interval: 10 * time.Millisecond, Limit: 10})

	c.Start(context.Background())
	c.Stop()
	c.Stop()
}
