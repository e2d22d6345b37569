package routes

import (
	"testing"

	"github.com/Dyastin-0/relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("literal targets", func(t *testing.T) {
		table, err := Resolve(config.RouteConfig{
			"/api":  "https://api.example.com",
			"/blog": "https://blog.example.com/base/",
		})
		require.NoError(t, err)

		route := table.Match("/api")
		require.NotNil(t, route)
		assert.Equal(t, "https://api.example.com", route.URL.String())

		route = table.Match("/blog")
		require.NotNil(t, route)
		assert.Equal(t, "/base", route.URL.Path, "trailing slash should be trimmed")
	})

	t.Run("secret reference", func(t *testing.T) {
		t.Setenv("API_URL", "https://api.internal/")

		table, err := Resolve(config.RouteConfig{"/api": "secret:API_URL"})
		require.NoError(t, err)

		route := table.Match("/api")
		require.NotNil(t, route)
		assert.Equal(t, "api.internal", route.URL.Host)
		assert.Equal(t, "secret:API_URL", route.Target.Display())
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := Resolve(config.RouteConfig{"/api": "secret:FOO"})
		require.ErrorIs(t, err, ErrMissingSecret)
		assert.Contains(t, err.Error(), "FOO")
	})

	t.Run("empty secret name", func(t *testing.T) {
		target := ParseTarget("secret:")
		assert.True(t, target.Secret)
		assert.Empty(t, target.SecretRef)

		_, err := Resolve(config.RouteConfig{"/api": "secret:"})
		require.ErrorIs(t, err, ErrMissingSecret)
		assert.Contains(t, err.Error(), "empty secret name")
	})

	t.Run("invalid literal url", func(t *testing.T) {
		_, err := Resolve(config.RouteConfig{"/api": "not-a-url"})
		require.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("secret holding invalid url stays out of the error", func(t *testing.T) {
		t.Setenv("BAD_URL", "tcp://no-http-here")

		_, err := Resolve(config.RouteConfig{"/api": "secret:BAD_URL"})
		require.ErrorIs(t, err, ErrInvalidURL)
		assert.NotContains(t, err.Error(), "no-http-here")
		assert.Contains(t, err.Error(), "secret:BAD_URL")
	})

	t.Run("duplicate prefix after normalization", func(t *testing.T) {
		_, err := Resolve(config.RouteConfig{
			"/api":  "https://a.example.com",
			"/api/": "https://b.example.com",
		})
		require.ErrorIs(t, err, ErrDuplicatePrefix)
	})

	t.Run("prefix must start with a slash", func(t *testing.T) {
		_, err := Resolve(config.RouteConfig{"api": "https://a.example.com"})
		require.ErrorIs(t, err, ErrInvalidPrefix)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Setenv("SVC_URL", "https://svc.internal")

		cfg := config.RouteConfig{
			"/svc": "secret:SVC_URL",
			"/api": "https://api.example.com",
		}

		first, err := Resolve(cfg)
		require.NoError(t, err)
		second, err := Resolve(cfg)
		require.NoError(t, err)

		assert.Equal(t, first.List(), second.List())
	})
}

func TestMatch(t *testing.T) {
	table, err := Resolve(config.RouteConfig{
		"/a":   "https://a.example.com",
		"/a/b": "https://ab.example.com",
		"/c":   "https://c.example.com",
	})
	require.NoError(t, err)

	t.Run("longest prefix wins", func(t *testing.T) {
		route := table.Match("/a/b/x")
		require.NotNil(t, route)
		assert.Equal(t, "/a/b", route.Prefix)
	})

	t.Run("segment boundary", func(t *testing.T) {
		route := table.Match("/a/bc")
		require.NotNil(t, route)
		assert.Equal(t, "/a", route.Prefix)

		assert.Nil(t, table.Match("/ab"))
	})

	t.Run("exact match", func(t *testing.T) {
		route := table.Match("/c")
		require.NotNil(t, route)
		assert.Equal(t, "/c", route.Prefix)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, table.Match("/unknown-service"))
	})

	t.Run("root route matches everything", func(t *testing.T) {
		rooted, err := Resolve(config.RouteConfig{
			"/":    "https://fallback.example.com",
			"/api": "https://api.example.com",
		})
		require.NoError(t, err)

		route := rooted.Match("/anything/at/all")
		require.NotNil(t, route)
		assert.Equal(t, "/", route.Prefix)

		route = rooted.Match("/api/v1")
		require.NotNil(t, route)
		assert.Equal(t, "/api", route.Prefix)
	})
}

func TestList(t *testing.T) {
	table, err := Resolve(config.RouteConfig{
		"/a":   "https://a.example.com",
		"/a/b": "https://ab.example.com",
		"/c":   "https://c.example.com",
	})
	require.NoError(t, err)

	list := table.List()
	require.Len(t, list, 3)
	assert.Equal(t, "/a/b", list[0].Prefix)
	assert.Equal(t, "/a", list[1].Prefix)
	assert.Equal(t, "/c", list[2].Prefix)
}
