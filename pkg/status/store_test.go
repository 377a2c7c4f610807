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

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

// quietControlPlane returns a mock that tolerates background poll traffic.
func quietControlPlane(ctrl *gomock.Controller) *MockControlPlane {
	cp := NewMockControlPlane(ctrl)
	cp.EXPECT().GetMetrics(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	cp.EXPECT().GetAlerts(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	return cp
}

func testStoreConfig() config.StatusConfig {
	return config.StatusConfig{
		PollInterval: config.Duration(time.Hour), // only the initial poll fires
		MetricPeriod: "1h",
	}
}

func TestStoreMergesPartialUpdates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewStore(testStoreConfig(), quietControlPlane(ctrl), nil)
	store.Track("dev-1")

	defer store.Forget("dev-1")

	store.ApplyStatusUpdate("dev-1", &models.StatusPatch{
		Online: boolPtr(true),
		IP:     strPtr("10.0.0.5"),
	})
	store.ApplyStatusUpdate("dev-1", &models.StatusPatch{
		Version: strPtr("2.0"),
	})

	got, ok := store.GetStatus("dev-1")
	require.True(t, ok)
	assert.True(t, got.Online)
	assert.Equal(t, "10.0.0.5", got.IP)
	assert.Equal(t, "2.0", got.Version)
	assert.False(t, got.LastSeen.IsZero())
}

func TestStoreMarkOfflinePreservesFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewStore(testStoreConfig(), quietControlPlane(ctrl), nil)
	store.Track("dev-1")

	defer store.Forget("dev-1")

	store.ApplyStatusUpdate("dev-1", &models.StatusPatch{
		Online:  boolPtr(true),
		IP:      strPtr("10.0.0.5"),
		Version: strPtr("2.0"),
	})

	before, _ := store.GetStatus("dev-1")

	store.MarkOffline("dev-1")

	got, ok := store.GetStatus("dev-1")
	require.True(t, ok)
	assert.False(t, got.Online)
	assert.Equal(t, "10.0.0.5", got.IP)
	assert.Equal(t, "2.0", got.Version)
	assert.Equal(t, before.LastSeen, got.LastSeen)
}

func TestStoreAlertsOrderAndClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewStore(testStoreConfig(), quietControlPlane(ctrl), nil)
	store.Track("dev-1")

	defer store.Forget("dev-1")

	now := time.Now()

	store.AppendAlert("dev-1", models.Alert{DeviceID: "dev-1", Message: "first", Timestamp: now})
	store.AppendAlert("dev-1", models.Alert{DeviceID: "dev-1", Message: "second", Timestamp: now.Add(time.Second)})

	alerts := store.GetAlerts("dev-1")
	require.Len(t, alerts, 2)
	assert.Equal(t, "first", alerts[0].Message)
	assert.Equal(t, "second", alerts[1].Message)

	store.ClearAlerts("dev-1")
	assert.Empty(t, store.GetAlerts("dev-1"))
}

func TestStoreEntryLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewStore(testStoreConfig(), quietControlPlane(ctrl), nil)

	_, ok := store.GetStatus("dev-1")
	assert.False(t, ok)

	store.Track("dev-1")

	_, ok = store.GetStatus("dev-1")
	assert.True(t, ok)

	// Updates for untracked devices are dropped, not created.
	store.ApplyStatusUpdate("ghost", &models.StatusPatch{Online: boolPtr(true)})
	_, ok = store.GetStatus("ghost")
	assert.False(t, ok)

	store.Forget("dev-1")

	_, ok = store.GetStatus("dev-1")
	assert.False(t, ok, "entry must not survive the last release")
	assert.Nil(t, store.GetAlerts("dev-1"))
}

func TestStoreStatusesSorted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewStore(testStoreConfig(), quietControlPlane(ctrl), nil)

	for _, id := range []string{"dev-3", "dev-1", "dev-2"} {
		store.Track(id)
	}

	statuses := store.Statuses()
	require.Len(t, statuses, 3)
	assert.Equal(t, "dev-1", statuses[0].DeviceID)
	assert.Equal(t, "dev-2", statuses[1].DeviceID)
	assert.Equal(t, "dev-3", statuses[2].DeviceID)
}

func TestStoreJournalsTransitionsAndAlerts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	journal := NewMockJournal(ctrl)
	journal.EXPECT().UpdateDeviceStatus(gomock.Any()).DoAndReturn(func(st *models.DeviceStatus) error {
		assert.Equal(t, "dev-1", st.DeviceID)
		return nil
	}).Times(2)
	journal.EXPECT().RecordAlert(gomock.Any()).Return(nil).Times(1)

	store := NewStore(testStoreConfig(), quietControlPlane(ctrl), journal)
	store.Track("dev-1")

	defer store.Forget("dev-1")

	store.ApplyStatusUpdate("dev-1", &models.StatusPatch{Online: boolPtr(true)})
	store.MarkOffline("dev-1")
	store.AppendAlert("dev-1", models.Alert{DeviceID: "dev-1", Message: "cable loose", Timestamp: time.Now()})
}

func TestStoreMergeServerAlertsDeduplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := NewStore(testStoreConfig(), quietControlPlane(ctrl), nil)
	store.Track("dev-1")

	defer store.Forget("dev-1")

	ts := time.Now().Truncate(time.Second)
	local := models.Alert{DeviceID: "dev-1", Message: "stale playlist", Timestamp: ts}

	store.AppendAlert("dev-1", local)

	// Server returns the alert we already have plus one we cleared locally.
	store.mergeServerAlerts("dev-1", []models.Alert{
		local,
		{Message: "display off", Timestamp: ts.Add(time.Minute)},
	})

	alerts := store.GetAlerts("dev-1")
	require.Len(t, alerts, 2)
	assert.Equal(t, "stale playlist", alerts[0].Message)
	assert.Equal(t, "display off", alerts[1].Message)
	assert.Equal(t, "dev-1", alerts[1].DeviceID)
}
