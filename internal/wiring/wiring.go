// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/fnspec/internal/adapters/config"
	_ "go.trai.ch/fnspec/internal/adapters/fingerprint"
	_ "go.trai.ch/fnspec/internal/adapters/logger"
	_ "go.trai.ch/fnspec/internal/adapters/report"
	_ "go.trai.ch/fnspec/internal/adapters/settings"
	_ "go.trai.ch/fnspec/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/fnspec/internal/app"
)
