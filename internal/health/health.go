package health

import (
	"context"
	"sync"
	"time"

	"github.com/Dyastin-0/relay/internal/httpclient"
	"github.com/Dyastin-0/relay/internal/routes"
	"github.com/rs/zerolog/log"
)

// Data holds the last observed status code per route prefix; 0 means
// the upstream did not answer.
var Data = sync.Map{}

func InitPinger(ctx context.Context, table func() *routes.Table) {
	log.Info().Str("status", "running").Msg("health")

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("status", "stopped").Msg("health")
			return
		case <-ticker.C:
			Check(table())
		}
	}
}

// Check probes every route's upstream base URL once.
func Check(table *routes.Table) {
	wg := sync.WaitGroup{}

	for _, route := range table.List() {
		wg.Add(1)
		go func(route routes.Route) {
			defer wg.Done()
			ping(route)
		}(route)
	}

	wg.Wait()
}

func ping(route routes.Route) {
	resp, err := httpclient.Client.Get(route.URL.String())
	if err != nil {
		Data.Store(route.Prefix, 0)
		return
	}
	resp.Body.Close()
	Data.Store(route.Prefix, resp.StatusCode)
}

// Snapshot returns the current status keyed by route prefix.
func Snapshot() map[string]int {
	snapshot := make(map[string]int)
	Data.Range(func(key, value interface{}) bool {
		snapshot[key.(string)] = value.(int)
		return true
	})
	return snapshot
}
