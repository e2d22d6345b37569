package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dyastin-0/relay/internal/config"
	"github.com/Dyastin-0/relay/internal/forwarder"
	"github.com/Dyastin-0/relay/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")

	write := func(target string) {
		content := fmt.Sprintf("routes:\n  /api: %s\n", target)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	write("https://first.example.com")
	require.NoError(t, config.Load(path))

	table, err := routes.Resolve(config.Routes)
	require.NoError(t, err)
	fwd := forwarder.New(table)

	t.Run("swaps in the new table", func(t *testing.T) {
		write("https://second.example.com")

		require.NoError(t, Reload(path, fwd))

		route := fwd.Table().Match("/api")
		require.NotNil(t, route)
		assert.Equal(t, "second.example.com", route.URL.Host)
	})

	t.Run("keeps the old table on a bad reload", func(t *testing.T) {
		write("secret:UNSET_SECRET")

		err := Reload(path, fwd)
		require.ErrorIs(t, err, routes.ErrMissingSecret)

		route := fwd.Table().Match("/api")
		require.NotNil(t, route)
		assert.Equal(t, "second.example.com", route.URL.Host)
	})

	t.Run("leaves process-wide settings alone", func(t *testing.T) {
		config.Misc.AllowedOrigins = []string{"http://localhost:8081"}
		t.Cleanup(func() { config.Misc.AllowedOrigins = nil })

		content := "routes:\n  /api: https://third.example.com\nmisc:\n  allowed_origins:\n    - http://other.example\n  port: \"9999\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		require.NoError(t, Reload(path, fwd))

		assert.Equal(t, []string{"http://localhost:8081"}, config.Misc.AllowedOrigins)
		assert.NotEqual(t, "9999", config.Misc.Port)

		route := fwd.Table().Match("/api")
		require.NotNil(t, route)
		assert.Equal(t, "third.example.com", route.URL.Host)
	})
}
