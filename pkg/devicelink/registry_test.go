package devicelink

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

func TestRegistryGetOrCreateReturnsSameConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := newChannelServer(t)

	sink := NewMockStatusSink(ctrl)
	sink.EXPECT().Track("dev-1").Times(1)
	sink.EXPECT().Forget("dev-1").Times(1)

	registry := NewRegistry(server.url(), testOpts(), sink)
	defer registry.Close()

	first := registry.GetOrCreate("dev-1")
	second := registry.GetOrCreate("dev-1")

	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())

	server.waitConn(t)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, server.dialCount(), "one device must never open two sockets")

	// Two references, so the first release keeps the connection alive.
	require.NoError(t, registry.Release("dev-1"))
	assert.Equal(t, 1, registry.Len())
	assert.NotEqual(t, StateIdle, first.State())

	require.NoError(t, registry.Release("dev-1"))
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, StateIdle, first.State())
}

func TestRegistryReleaseUnknownDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry("ws://localhost:0", testOpts(), NewMockStatusSink(ctrl))

	assert.ErrorIs(t, registry.Release("ghost"), errNotTracked)
}

func TestRegistrySendRequiresLiveChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := newChannelServer(t)

	sink := NewMockStatusSink(ctrl)
	sink.EXPECT().Track("dev-1").Times(1)
	sink.EXPECT().Forget("dev-1").AnyTimes()

	registry := NewRegistry(server.url(), testOpts(), sink)
	defer registry.Close()

	assert.ErrorIs(t, registry.Send("dev-1", "command", nil), ErrNoActiveConnection)

	conn := registry.GetOrCreate("dev-1")
	server.waitConn(t)
	server.waitFrame(t) // handshake

	assert.Eventually(t, func() bool {
		return conn.State() == StateConnected
	}, testTimeout, 10*time.Millisecond)

	require.NoError(t, registry.Send("dev-1", "command", models.Command{Name: "restart"}))

	env := server.waitFrame(t)
	assert.Equal(t, "command", env.Type)
}

func TestRegistryReconcilesStatusAndAlerts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := newChannelServer(t)

	applied := make(chan *models.StatusPatch, 1)
	alerted := make(chan models.Alert, 1)

	sink := NewMockStatusSink(ctrl)
	sink.EXPECT().Track("dev-1").Times(1)
	sink.EXPECT().Forget("dev-1").AnyTimes()
	sink.EXPECT().ApplyStatusUpdate("dev-1", gomock.Any()).
		Do(func(_ string, patch *models.StatusPatch) { applied <- patch })
	sink.EXPECT().AppendAlert("dev-1", gomock.Any()).
		Do(func(_ string, alert models.Alert) { alerted <- alert })

	registry := NewRegistry(server.url(), testOpts(), sink)
	defer registry.Close()

	registry.GetOrCreate("dev-1")
	ws := server.waitConn(t)
	server.waitFrame(t) // handshake

	require.NoError(t, ws.WriteJSON(Envelope{
		Type:     TypeStatus,
		DeviceID: "dev-1",
		Data:     json.RawMessage(`{"online":true,"ip":"10.0.0.5"}`),
	}))

	select {
	case patch := <-applied:
		require.NotNil(t, patch.Online)
		assert.True(t, *patch.Online)
		require.NotNil(t, patch.IP)
		assert.Equal(t, "10.0.0.5", *patch.IP)
	case <-time.After(testTimeout):
		t.Fatal("status update never reached the sink")
	}

	require.NoError(t, ws.WriteJSON(Envelope{
		Type:     TypeAlert,
		DeviceID: "dev-1",
		Data:     json.RawMessage(`{"severity":"critical","message":"panel unresponsive"}`),
	}))

	select {
	case alert := <-alerted:
		assert.Equal(t, "dev-1", alert.DeviceID)
		assert.Equal(t, models.AlertCritical, alert.Severity)
		assert.Equal(t, "panel unresponsive", alert.Message)
		assert.False(t, alert.Timestamp.IsZero())
	case <-time.After(testTimeout):
		t.Fatal("alert never reached the sink")
	}
}

// Full failure scenario: the device connects, reports online, then the
// endpoint goes away for good. The device must end up Failed, marked offline
// exactly once.
func TestRegistryMarksOfflineAfterRetryExhaustion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := newChannelServer(t)

	applied := make(chan struct{}, 1)
	offline := make(chan struct{}, 4)

	sink := NewMockStatusSink(ctrl)
	sink.EXPECT().Track("dev-1").Times(1)
	sink.EXPECT().Forget("dev-1").AnyTimes()
	sink.EXPECT().ApplyStatusUpdate("dev-1", gomock.Any()).
		Do(func(string, *models.StatusPatch) { applied <- struct{}{} })
	sink.EXPECT().MarkOffline("dev-1").
		Do(func(string) { offline <- struct{}{} }).
		Times(1)

	opts := testOpts()
	opts.MaxReconnects = 5

	registry := NewRegistry(server.url(), opts, sink)
	defer registry.Close()

	conn := registry.GetOrCreate("dev-1")
	ws := server.waitConn(t)
	server.waitFrame(t) // handshake

	require.NoError(t, ws.WriteJSON(Envelope{
		Type:     TypeStatus,
		DeviceID: "dev-1",
		Data:     json.RawMessage(`{"online":true}`),
	}))
	<-applied

	server.setRefuse(true)
	server.closeAll()

	select {
	case <-offline:
	case <-time.After(testTimeout):
		t.Fatal("device never marked offline")
	}

	assert.Equal(t, StateFailed, conn.State())

	// Exactly one offline notification per failure cycle.
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, offline)
}
