package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wildwatch/wildwatch-go/internal/alert"
	"github.com/wildwatch/wildwatch-go/internal/alertservice"
	"github.com/wildwatch/wildwatch-go/internal/conf"
	"github.com/wildwatch/wildwatch-go/internal/datasource"
)

// seenLimit bounds the dedupe set. When exceeded the set resets; worst
// case a handful of old detections notify twice after a very long run.
const seenLimit = 2048

// DetectionConsumer polls recent detections and pushes a transient
// notification for each previously unseen threat detection. Polling is
// gated on the real-time updates feature flag before any I/O, so the
// flag can silence the feed at runtime without stopping the consumer.
type DetectionConsumer struct {
	svc      *alertservice.Service
	queue    *Queue
	interval time.Duration
	limit    int

	mu   sync.Mutex
	seen map[string]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

// NewDetectionConsumer creates a consumer feeding the given queue.
func NewDetectionConsumer(svc *alertservice.Service, queue *Queue, poll conf.PollSettings) *DetectionConsumer {
	interval := poll.Interval
	if interval <= 0 {
		interval = conf.DefaultPollInterval
	}
	limit := poll.Limit
	if limit <= 0 {
		limit = conf.DefaultPollLimit
	}
	return &DetectionConsumer{
		svc:      svc,
		queue:    queue,
		interval: interval,
		limit:    limit,
		seen:     make(map[string]struct{}),
	}
}

// Start launches the polling loop. Calling Start twice is a no-op until
// Stop is called.
func (c *DetectionConsumer) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.run(ctx)
}

// Stop halts the polling loop and waits for it to exit.
func (c *DetectionConsumer) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (c *DetectionConsumer) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Prime immediately so the first notifications do not wait a full
	// interval after startup.
	c.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.poll(ctx)
		}
	}
}

func (c *DetectionConsumer) poll(ctx context.Context) {
	if !c.svc.Flags().IsEnabled(alertservice.FeatureRealTimeUpdates) {
		return
	}

	dets, err := c.svc.FetchDetections(ctx, datasource.DetectionQuery{Limit: c.limit})
	if err != nil {
		getLogger(false).Debug("detection poll failed", "error", err)
		return
	}

	for i := range dets {
		d := &dets[i]
		if !alert.IsThreatClass(d.ClassName) {
			continue
		}
		if !c.markSeen(d.ID) {
			continue
		}
		c.queue.AddAlert(KindDetection, detectionMessage(d), DefaultDuration)
	}
}

// markSeen records a detection ID, reporting true the first time it is
// observed.
func (c *DetectionConsumer) markSeen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[id]; ok {
		return false
	}
	if len(c.seen) >= seenLimit {
		c.seen = make(map[string]struct{})
	}
	c.seen[id] = struct{}{}
	return true
}

func detectionMessage(d *alert.Detection) string {
	return fmt.Sprintf("%s detected (%.0f%% confidence)", d.ClassName, d.Confidence*100)
}
