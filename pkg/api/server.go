// Package api pkg/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/controlplane"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/devicelink"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

const statusHistoryLimit = 100

// APIServer exposes the dashboard's read model over HTTP. It never owns any
// state itself; everything is delegated to the status store, the realtime
// channel registry, the control plane client, and the optional journal.
type APIServer struct {
	store   StatusReader
	channel ChannelSender
	cp      controlplane.Service
	history HistoryReader
	router  *mux.Router
}

func NewAPIServer(store StatusReader, channel ChannelSender, cp controlplane.Service, history HistoryReader) *APIServer {
	s := &APIServer{
		store:   store,
		channel: channel,
		cp:      cp,
		history: history,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()

	return s
}

func (s *APIServer) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	s.router.HandleFunc("/api/devices", s.getDevices).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}", s.getDevice).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}/alerts", s.getDeviceAlerts).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}/alerts", s.clearDeviceAlerts).Methods("DELETE")
	s.router.HandleFunc("/api/devices/{id}/history", s.getDeviceHistory).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}/metrics", s.getDeviceMetrics).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}/commands", s.postDeviceCommand).Methods("POST")
}

func (s *APIServer) getDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.store.Statuses()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(devices); err != nil {
		log.Printf("Error encoding devices response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *APIServer) getDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	device, ok := s.store.GetStatus(deviceID)
	if !ok {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(device); err != nil {
		log.Printf("Error encoding device response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *APIServer) getDeviceAlerts(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	if _, ok := s.store.GetStatus(deviceID); !ok {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	alerts := s.store.GetAlerts(deviceID)
	if alerts == nil {
		alerts = []models.Alert{}
	}

	if err := json.NewEncoder(w).Encode(alerts); err != nil {
		log.Printf("Error encoding alerts response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// clearDeviceAlerts clears server-side first. If the control plane call
// fails, the local copy is left alone so the next poll can reconcile it.
func (s *APIServer) clearDeviceAlerts(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	if _, ok := s.store.GetStatus(deviceID); !ok {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	if err := s.cp.ClearAlerts(r.Context(), deviceID); err != nil {
		log.Printf("Error clearing alerts for device %s: %v", deviceID, err)
		http.Error(w, "Control plane error", http.StatusBadGateway)

		return
	}

	s.store.ClearAlerts(deviceID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) getDeviceHistory(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	if s.history == nil {
		http.Error(w, "History journal not configured", http.StatusNotImplemented)
		return
	}

	history, err := s.history.GetStatusHistory(deviceID, statusHistoryLimit)
	if err != nil {
		log.Printf("Error reading status history for device %s: %v", deviceID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(history); err != nil {
		log.Printf("Error encoding history response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// getDeviceMetrics serves the latest live sample by default. A ?period= query
// proxies a window query to the control plane, ?from=&to= (RFC 3339) proxies
// an explicit range.
func (s *APIServer) getDeviceMetrics(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]
	query := r.URL.Query()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case query.Get("from") != "" || query.Get("to") != "":
		from, err := time.Parse(time.RFC3339, query.Get("from"))
		if err != nil {
			http.Error(w, "Invalid 'from' timestamp", http.StatusBadRequest)
			return
		}

		to, err := time.Parse(time.RFC3339, query.Get("to"))
		if err != nil {
			http.Error(w, "Invalid 'to' timestamp", http.StatusBadRequest)
			return
		}

		samples, err := s.cp.GetMetricsRange(r.Context(), deviceID, from, to)
		if err != nil {
			s.writeControlPlaneError(w, deviceID, err)
			return
		}

		s.encodeSamples(w, samples)

	case query.Get("period") != "":
		samples, err := s.cp.GetMetrics(r.Context(), deviceID, query.Get("period"))
		if err != nil {
			s.writeControlPlaneError(w, deviceID, err)
			return
		}

		s.encodeSamples(w, samples)

	default:
		sample, ok := s.store.GetMetricSample(deviceID)
		if !ok {
			http.Error(w, "No metrics for device", http.StatusNotFound)
			return
		}

		if err := json.NewEncoder(w).Encode(sample); err != nil {
			log.Printf("Error encoding metrics response: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

// postDeviceCommand prefers the realtime channel and falls back to the
// control plane when the device has no live connection.
func (s *APIServer) postDeviceCommand(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	var cmd models.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid command payload", http.StatusBadRequest)
		return
	}

	if cmd.Name == "" {
		http.Error(w, "Command name is required", http.StatusBadRequest)
		return
	}

	err := s.channel.Send(deviceID, devicelink.TypeCommand, &cmd)
	if errors.Is(err, devicelink.ErrNoActiveConnection) {
		log.Printf("No live channel for device %s, relaying command %q via control plane", deviceID, cmd.Name)
		err = s.cp.SendCommand(r.Context(), deviceID, &cmd)
	}

	if err != nil {
		log.Printf("Error sending command %q to device %s: %v", cmd.Name, deviceID, err)
		s.writeControlPlaneError(w, deviceID, err)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *APIServer) encodeSamples(w http.ResponseWriter, samples []models.MetricSample) {
	if samples == nil {
		samples = []models.MetricSample{}
	}

	if err := json.NewEncoder(w).Encode(samples); err != nil {
		log.Printf("Error encoding metrics response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (*APIServer) writeControlPlaneError(w http.ResponseWriter, deviceID string, err error) {
	if errors.Is(err, controlplane.ErrDeviceNotFound) {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	log.Printf("Control plane error for device %s: %v", deviceID, err)
	http.Error(w, "Control plane error", http.StatusBadGateway)
}

// Router exposes the handler for tests and custom servers.
func (s *APIServer) Router() http.Handler {
	return s.router
}

func (s *APIServer) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}
