package status

import (
	"context"
	"log"
	"time"
)

const pollTimeout = 30 * time.Second

// startPollerLocked begins the periodic control-plane poll. The poller's
// lifecycle is bound to the tracked set, not to any UI consumer: first Track
// starts it, last Forget stops it.
func (s *Store) startPollerLocked() {
	stop := make(chan struct{})
	s.pollStop = stop

	go s.pollLoop(stop)
}

func (s *Store) stopPollerLocked() {
	if s.pollStop != nil {
		close(s.pollStop)
		s.pollStop = nil
	}
}

func (s *Store) pollLoop(stop chan struct{}) {
	ticker := time.NewTicker(time.Duration(s.cfg.PollInterval))
	defer ticker.Stop()

	// Poll immediately so a freshly tracked device doesn't sit empty for a
	// whole interval.
	s.pollOnce()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

func (s *Store) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	for _, deviceID := range s.trackedDevices() {
		samples, err := s.cp.GetMetrics(ctx, deviceID, s.cfg.MetricPeriod)
		if err != nil {
			log.Printf("Metrics poll failed for device %s: %v", deviceID, err)
		} else if len(samples) > 0 {
			s.SetMetricSample(deviceID, samples[len(samples)-1])
		}

		alerts, err := s.cp.GetAlerts(ctx, deviceID)
		if err != nil {
			log.Printf("Alerts poll failed for device %s: %v", deviceID, err)
			continue
		}

		s.mergeServerAlerts(deviceID, alerts)
	}
}

func (s *Store) trackedDevices() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.devices))
	for id := range s.devices {
		ids = append(ids, id)
	}

	return ids
}
