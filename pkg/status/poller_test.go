package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/config"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

func TestPollerReconcilesMetricsAndAlerts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sampleOld := models.MetricSample{DeviceID: "dev-1", CPUPercent: 10, Timestamp: time.Now().Add(-time.Minute)}
	sampleNew := models.MetricSample{DeviceID: "dev-1", CPUPercent: 55, Timestamp: time.Now()}
	alert := models.Alert{Message: "storage low", Severity: models.AlertWarning, Timestamp: time.Now()}

	polled := make(chan struct{}, 16)

	cp := NewMockControlPlane(ctrl)
	cp.EXPECT().GetMetrics(gomock.Any(), "dev-1", "24h").
		Return([]models.MetricSample{sampleOld, sampleNew}, nil).MinTimes(1)
	cp.EXPECT().GetAlerts(gomock.Any(), "dev-1").
		DoAndReturn(func(any, string) ([]models.Alert, error) {
			polled <- struct{}{}
			return []models.Alert{alert}, nil
		}).MinTimes(1)

	store := NewStore(config.StatusConfig{
		PollInterval: config.Duration(20 * time.Millisecond),
		MetricPeriod: "24h",
	}, cp, nil)

	store.Track("dev-1")
	defer store.Forget("dev-1")

	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never polled the control plane")
	}

	assert.Eventually(t, func() bool {
		sample, ok := store.GetMetricSample("dev-1")
		return ok && sample.CPUPercent == sampleNew.CPUPercent
	}, 2*time.Second, 10*time.Millisecond, "latest sample wins")

	assert.Eventually(t, func() bool {
		alerts := store.GetAlerts("dev-1")
		return len(alerts) == 1 && alerts[0].Message == "storage low"
	}, 2*time.Second, 10*time.Millisecond)

	// Repeated polls must not duplicate the same server alert.
	<-polled
	<-polled
	assert.Len(t, store.GetAlerts("dev-1"), 1)
}

func TestPollerStopsWithLastInterest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	polled := make(chan struct{}, 64)

	cp := NewMockControlPlane(ctrl)
	cp.EXPECT().GetMetrics(gomock.Any(), "dev-1", gomock.Any()).
		DoAndReturn(func(any, string, string) ([]models.MetricSample, error) {
			polled <- struct{}{}
			return nil, nil
		}).AnyTimes()
	cp.EXPECT().GetAlerts(gomock.Any(), "dev-1").Return(nil, nil).AnyTimes()

	store := NewStore(config.StatusConfig{
		PollInterval: config.Duration(15 * time.Millisecond),
	}, cp, nil)

	store.Track("dev-1")

	select {
	case <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never started")
	}

	store.Forget("dev-1")

	// Drain anything in flight, then the polling must go quiet.
	time.Sleep(50 * time.Millisecond)

	for len(polled) > 0 {
		<-polled
	}

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, polled, "poller kept running after last interest released")
}
