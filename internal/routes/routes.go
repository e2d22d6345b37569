package routes

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/Dyastin-0/relay/internal/config"
)

var (
	ErrInvalidPrefix   = errors.New("invalid route prefix")
	ErrDuplicatePrefix = errors.New("duplicate route prefix")
	ErrMissingSecret   = errors.New("missing secret")
	ErrInvalidURL      = errors.New("invalid upstream url")
)

const secretPrefix = "secret:"

func ParseTarget(raw string) Target {
	if name, ok := strings.CutPrefix(raw, secretPrefix); ok {
		return Target{SecretRef: name, Secret: true}
	}
	return Target{Literal: raw}
}

// Display is the form a target takes on diagnostic surfaces and in
// errors. Secret-backed targets keep their reference form so the
// resolved value never leaves the process.
func (t Target) Display() string {
	if t.Secret {
		return secretPrefix + t.SecretRef
	}
	return t.Literal
}

func (t Target) resolve() (string, error) {
	if !t.Secret {
		return t.Literal, nil
	}
	if t.SecretRef == "" {
		return "", fmt.Errorf("%w: empty secret name", ErrMissingSecret)
	}
	value := os.Getenv(t.SecretRef)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingSecret, t.SecretRef)
	}
	return value, nil
}

// Resolve builds an immutable Table from the configured route map,
// dereferencing secret references against the environment. Any invalid
// entry fails the whole table; the process must not serve without one.
func Resolve(cfg config.RouteConfig) (*Table, error) {
	table := &Table{routes: make([]Route, 0, len(cfg))}
	seen := make(map[string]string, len(cfg))

	for rawPrefix, rawTarget := range cfg {
		prefix, err := normalizePrefix(rawPrefix)
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[prefix]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicatePrefix, previous, rawPrefix)
		}
		seen[prefix] = rawPrefix

		target := ParseTarget(rawTarget)
		resolved, err := target.resolve()
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", prefix, err)
		}

		upstream, err := parseUpstream(resolved, target)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", prefix, err)
		}

		table.routes = append(table.routes, Route{
			Prefix: prefix,
			URL:    upstream,
			Target: target,
		})
	}

	sort.Slice(table.routes, func(i, j int) bool {
		a, b := table.routes[i].Prefix, table.routes[j].Prefix
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return table, nil
}

// Match returns the route with the longest prefix matching path on a
// segment boundary, or nil. "/a" matches "/a" and "/a/b" but not "/ab".
func (t *Table) Match(path string) *Route {
	for i := range t.routes {
		route := &t.routes[i]
		if route.Prefix == "/" {
			return route
		}
		if path == route.Prefix || strings.HasPrefix(path, route.Prefix+"/") {
			return route
		}
	}
	return nil
}

// List returns the resolved routes, longest prefix first.
func (t *Table) List() []Route {
	list := make([]Route, len(t.routes))
	copy(list, t.routes)
	return list
}

func normalizePrefix(raw string) (string, error) {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrefix, raw)
	}
	prefix := strings.TrimRight(raw, "/")
	if prefix == "" {
		return "/", nil
	}
	return prefix, nil
}

func parseUpstream(resolved string, target Target) (*url.URL, error) {
	upstream, err := url.Parse(resolved)
	if err != nil || upstream.Host == "" || (upstream.Scheme != "http" && upstream.Scheme != "https") {
		return nil, fmt.Errorf("%w: %s is not an absolute http(s) URL", ErrInvalidURL, target.Display())
	}
	upstream.Path = strings.TrimRight(upstream.Path, "/")
	return upstream, nil
}
