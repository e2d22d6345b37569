package routes

import "net/url"

// Target is a route destination as configured, before resolution.
// Secret marks a secret reference; SecretRef then holds the variable
// name and Literal is empty.
type Target struct {
	Literal   string
	SecretRef string
	Secret    bool
}

// Route is a resolved entry: a normalized prefix and the upstream base
// URL it forwards to. URL.Path never carries a trailing slash.
type Route struct {
	Prefix string
	URL    *url.URL
	Target Target
}

// Table is an immutable set of resolved routes, ordered longest prefix
// first. Safe for concurrent use without locking.
type Table struct {
	routes []Route
}
