package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fnspec/internal/adapters/config"
	"go.trai.ch/fnspec/internal/adapters/fingerprint"
	"go.trai.ch/fnspec/internal/adapters/logger"
	"go.trai.ch/fnspec/internal/adapters/report"
	"go.trai.ch/fnspec/internal/adapters/settings"
	"go.trai.ch/fnspec/internal/adapters/watcher"
	"go.trai.ch/fnspec/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the Components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings *settings.Settings
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			report.NodeID,
			fingerprint.NodeID,
			watcher.NodeID,
			settings.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			reporter, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}
			fp, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, log, reporter, fp, w).WithSettings(s), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID, settings.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			s, err := graft.Dep[*settings.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log, Settings: s}, nil
		},
	})
}
