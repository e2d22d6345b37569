package watcher

import (
	"context"

	"github.com/Dyastin-0/relay/internal/config"
	"github.com/Dyastin-0/relay/internal/forwarder"
	"github.com/Dyastin-0/relay/internal/routes"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the route table whenever the config file changes. A
// reload that fails to resolve keeps the current table in place, so
// fail-fast stays a startup-only behavior.
func Watch(ctx context.Context, filename string, fwd *forwarder.Forwarder) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal().Err(err).Msg("watcher")
	}
	defer watcher.Close()

	err = watcher.Add(filename)
	if err != nil {
		log.Fatal().Err(err).Msg("watcher")
	}

	log.Info().Str("status", "running").Str("target", filename).Msg("watcher")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if err := Reload(filename, fwd); err != nil {
				log.Error().Err(err).Msg("watcher")
				continue
			}

			log.Info().Str("status", "reloaded").Str("target", filename).Msg("watcher")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher")
		}
	}
}

// Reload re-reads the route map and swaps a freshly resolved table
// into the forwarder. Process-wide settings are left alone; the route
// table is the only state that changes after startup.
func Reload(filename string, fwd *forwarder.Forwarder) error {
	routeCfg, err := config.LoadRoutes(filename)
	if err != nil {
		return err
	}

	table, err := routes.Resolve(routeCfg)
	if err != nil {
		return err
	}

	fwd.Swap(table)
	return nil
}
