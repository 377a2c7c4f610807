// Package status holds the in-memory reconciled view of each tracked device:
// online/offline flag, last-seen timestamp, latest metric sample, and the
// ordered list of outstanding alerts. Entries live exactly as long as some
// consumer holds interest in the device; polling of the control plane runs
// while at least one device is tracked.
package status

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/config"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

// Store is the device status store. It satisfies devicelink.StatusSink.
type Store struct {
	mu       sync.RWMutex
	devices  map[string]*deviceEntry
	cfg      config.StatusConfig
	cp       ControlPlane
	journal  Journal
	pollStop chan struct{}
}

type deviceEntry struct {
	mu     sync.Mutex
	status models.DeviceStatus
	alerts []models.Alert
	sample *models.MetricSample
}

// NewStore creates a store polling cp on the configured interval. journal may
// be nil, in which case no history is persisted.
func NewStore(cfg config.StatusConfig, cp ControlPlane, journal Journal) *Store {
	if time.Duration(cfg.PollInterval) == 0 {
		cfg.PollInterval = config.Duration(60 * time.Second)
	}

	if cfg.MetricPeriod == "" {
		cfg.MetricPeriod = "1h"
	}

	return &Store{
		devices: make(map[string]*deviceEntry),
		cfg:     cfg,
		cp:      cp,
		journal: journal,
	}
}

// Track creates the device's entry. The control-plane poller starts when the
// tracked set goes from empty to non-empty.
func (s *Store) Track(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.devices[deviceID]; ok {
		return
	}

	s.devices[deviceID] = &deviceEntry{
		status: models.DeviceStatus{DeviceID: deviceID},
	}

	if len(s.devices) == 1 {
		s.startPollerLocked()
	}
}

// Forget drops the device's entry wholesale. The poller stops when the last
// entry goes away.
func (s *Store) Forget(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.devices[deviceID]; !ok {
		return
	}

	delete(s.devices, deviceID)

	if len(s.devices) == 0 {
		s.stopPollerLocked()
	}
}

// ApplyStatusUpdate merges the non-nil fields of patch into the stored status
// and bumps lastSeen. Updates for untracked devices are dropped.
func (s *Store) ApplyStatusUpdate(deviceID string, patch *models.StatusPatch) {
	e, ok := s.entry(deviceID)
	if !ok {
		log.Printf("Status update for untracked device %s, dropping", deviceID)
		return
	}

	e.mu.Lock()

	if patch.Online != nil {
		e.status.Online = *patch.Online
	}

	if patch.IP != nil {
		e.status.IP = *patch.IP
	}

	if patch.Version != nil {
		e.status.Version = *patch.Version
	}

	if patch.SystemInfo != nil {
		e.status.SystemInfo = *patch.SystemInfo
	}

	e.status.LastSeen = time.Now()
	snapshot := e.status

	e.mu.Unlock()

	s.journalStatus(&snapshot)
}

// MarkOffline flips the online flag without touching any other field. Called
// by the reconnection policy when a device's channel turns terminal.
func (s *Store) MarkOffline(deviceID string) {
	e, ok := s.entry(deviceID)
	if !ok {
		return
	}

	e.mu.Lock()
	e.status.Online = false
	snapshot := e.status
	e.mu.Unlock()

	s.journalStatus(&snapshot)
}

// AppendAlert appends to the end of the device's alert list.
func (s *Store) AppendAlert(deviceID string, alert models.Alert) {
	e, ok := s.entry(deviceID)
	if !ok {
		log.Printf("Alert for untracked device %s, dropping", deviceID)
		return
	}

	e.mu.Lock()
	e.alerts = append(e.alerts, alert)
	e.mu.Unlock()

	if s.journal != nil {
		if err := s.journal.RecordAlert(&alert); err != nil {
			log.Printf("Failed to journal alert for device %s: %v", deviceID, err)
		}
	}
}

// ClearAlerts empties the local list. Callers must sequence this with the
// server-side clear; a failed server clear resurrects the alerts on the next
// poll, which is the accepted reconciliation mechanism.
func (s *Store) ClearAlerts(deviceID string) {
	e, ok := s.entry(deviceID)
	if !ok {
		return
	}

	e.mu.Lock()
	e.alerts = nil
	e.mu.Unlock()
}

// SetMetricSample stores the latest polled sample; only the most recent one
// per device is retained.
func (s *Store) SetMetricSample(deviceID string, sample models.MetricSample) {
	e, ok := s.entry(deviceID)
	if !ok {
		return
	}

	e.mu.Lock()
	e.sample = &sample
	e.mu.Unlock()
}

// GetStatus returns a copy of the device's status.
func (s *Store) GetStatus(deviceID string) (models.DeviceStatus, bool) {
	e, ok := s.entry(deviceID)
	if !ok {
		return models.DeviceStatus{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status, true
}

// GetAlerts returns a copy of the device's alert list in arrival order.
func (s *Store) GetAlerts(deviceID string) []models.Alert {
	e, ok := s.entry(deviceID)
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]models.Alert(nil), e.alerts...)
}

// GetMetricSample returns the latest polled sample for the device.
func (s *Store) GetMetricSample(deviceID string) (models.MetricSample, bool) {
	e, ok := s.entry(deviceID)
	if !ok || e == nil {
		return models.MetricSample{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sample == nil {
		return models.MetricSample{}, false
	}

	return *e.sample, true
}

// Statuses returns every tracked device's status, ordered by device ID.
func (s *Store) Statuses() []models.DeviceStatus {
	s.mu.RLock()

	entries := make([]*deviceEntry, 0, len(s.devices))
	for _, e := range s.devices {
		entries = append(entries, e)
	}

	s.mu.RUnlock()

	out := make([]models.DeviceStatus, 0, len(entries))

	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.status)
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DeviceID < out[j].DeviceID
	})

	return out
}

func (s *Store) entry(deviceID string) (*deviceEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.devices[deviceID]

	return e, ok
}

func (s *Store) journalStatus(snapshot *models.DeviceStatus) {
	if s.journal == nil {
		return
	}

	if err := s.journal.UpdateDeviceStatus(snapshot); err != nil {
		log.Printf("Failed to journal status for device %s: %v", snapshot.DeviceID, err)
	}
}

// mergeServerAlerts reconciles a polled server-side alert list into the local
// one: server alerts not present locally are appended, local alerts are never
// removed here. This is what resurrects alerts after a failed server clear.
func (s *Store) mergeServerAlerts(deviceID string, server []models.Alert) {
	e, ok := s.entry(deviceID)
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, sa := range server {
		if !containsAlert(e.alerts, &sa) {
			sa.DeviceID = deviceID
			e.alerts = append(e.alerts, sa)
		}
	}
}

func containsAlert(list []models.Alert, a *models.Alert) bool {
	for i := range list {
		if list[i].Message == a.Message && list[i].Timestamp.Equal(a.Timestamp) {
			return true
		}
	}

	return false
}
