// cmd/devicelinkd/main.go
package main

import (
	"context"
	"flag"
	"log"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/api"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/config"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/controlplane"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/db"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/devicelink"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/lifecycle"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/status"
)

// linkService owns the realtime fleet: one refcounted channel per configured
// device, released on shutdown.
type linkService struct {
	registry *devicelink.Registry
	devices  []string
	journal  db.Service
}

func (s *linkService) Start(_ context.Context) error {
	for _, deviceID := range s.devices {
		log.Printf("Opening channel for device %s", deviceID)
		s.registry.GetOrCreate(deviceID)
	}

	return nil
}

func (s *linkService) Stop(_ context.Context) error {
	s.registry.Close()

	if s.journal != nil {
		return s.journal.Close()
	}

	return nil
}

func main() {
	configPath := flag.String("config", "/etc/devicelinkd/devicelinkd.json", "Path to config file")
	flag.Parse()

	var cfg config.DevicelinkConfig
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var journal db.Service

	if cfg.DBPath != "" {
		var err error

		journal, err = db.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open history journal: %v", err)
		}
	}

	cp := controlplane.NewClient(&cfg.ControlPlane)

	var storeJournal status.Journal
	if journal != nil {
		storeJournal = journal
	}

	store := status.NewStore(cfg.Status, cp, storeJournal)

	registry := devicelink.NewRegistry(
		cfg.Channel.Endpoint,
		devicelink.OptionsFromConfig(&cfg.Channel),
		store,
	)

	var history api.HistoryReader
	if journal != nil {
		history = journal
	}

	apiServer := api.NewAPIServer(store, registry, cp, history)

	svc := &linkService{
		registry: registry,
		devices:  cfg.Devices,
		journal:  journal,
	}

	if err := lifecycle.RunServer(context.Background(), &lifecycle.ServerOptions{
		ListenAddr:  cfg.ListenAddr,
		ServiceName: "devicelinkd",
		Service:     svc,
		Handler:     apiServer.Router(),
	}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
