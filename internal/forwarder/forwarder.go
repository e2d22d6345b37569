package forwarder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Dyastin-0/relay/internal/config"
	"github.com/Dyastin-0/relay/internal/metrics"
	"github.com/Dyastin-0/relay/internal/routes"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type ctxKey struct{}

// Forwarder relays inbound requests to the upstream selected by the
// route table. The table sits behind an atomic pointer so a reload can
// install a fresh snapshot without locking the request path.
type Forwarder struct {
	table   atomic.Pointer[routes.Table]
	proxy   *httputil.ReverseProxy
	timeout time.Duration
}

func New(table *routes.Table) *Forwarder {
	timeout := time.Duration(config.Proxy.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	f := &Forwarder{timeout: timeout}
	f.table.Store(table)

	transport := &http.Transport{
		MaxIdleConns:        config.Proxy.MaxIdleConns,
		MaxIdleConnsPerHost: config.Proxy.MaxIdleConnsPerHost,
		MaxConnsPerHost:     config.Proxy.MaxConnsPerHost,
		IdleConnTimeout:     time.Duration(config.Proxy.IdleConnTimeout) * time.Second,
		DisableKeepAlives:   false,
	}

	f.proxy = &httputil.ReverseProxy{
		Director:     direct,
		Transport:    transport,
		ErrorHandler: badGateway,
	}

	return f
}

// Table returns the current snapshot.
func (f *Forwarder) Table() *routes.Table {
	return f.table.Load()
}

// Swap installs a new snapshot; in-flight requests keep the old one.
func (f *Forwarder) Swap(table *routes.Table) {
	f.table.Store(table)
}

func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.ActiveRequests.Inc()
	defer metrics.ActiveRequests.Dec()

	rec := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	route := f.table.Load().Match(r.URL.Path)
	label := "none"
	if route != nil {
		label = route.Prefix
	}

	if route == nil {
		log.Debug().Str("path", r.URL.Path).Msg("proxy")
		writeJSON(rec, http.StatusNotFound, map[string]string{
			"error": "no route matches path",
			"path":  r.URL.Path,
		})
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), f.timeout)
		f.proxy.ServeHTTP(rec, r.WithContext(context.WithValue(ctx, ctxKey{}, route)))
		cancel()
	}

	metrics.RequestCount.WithLabelValues(label, r.Method, strconv.Itoa(rec.Status())).Inc()
	metrics.RequestDuration.WithLabelValues(label, r.Method).Observe(time.Since(start).Seconds())
}

// direct rewrites the outbound request per the composition policy. The
// reverse proxy strips hop-by-hop headers and appends X-Forwarded-For
// after this runs.
func direct(req *http.Request) {
	route := req.Context().Value(ctxKey{}).(*routes.Route)
	target := upstreamURL(route, req.URL.Path)

	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	req.URL.Path = target.Path
	req.URL.RawPath = ""
	req.Host = target.Host
}

// upstreamURL composes the final URL. When the caller asked for exactly
// the prefix and the upstream is pinned to its own sub-path (e.g. a
// health-check URL), the upstream is used as-is; otherwise the unmatched
// suffix is joined with a single slash. The inbound query string rides
// along untouched in either case.
func upstreamURL(route *routes.Route, path string) *url.URL {
	target := *route.URL

	suffix := path
	if route.Prefix != "/" {
		suffix = strings.TrimPrefix(path, route.Prefix)
	}

	if suffix == "" || suffix == "/" {
		if target.Path != "" {
			return &target
		}
		target.Path = "/"
		return &target
	}

	target.Path = target.Path + "/" + strings.TrimLeft(suffix, "/")
	return &target
}

func badGateway(w http.ResponseWriter, r *http.Request, err error) {
	route, _ := r.Context().Value(ctxKey{}).(*routes.Route)

	prefix, upstream := "none", "unknown"
	if route != nil {
		prefix = route.Prefix
		upstream = route.Target.Display()
	}

	metrics.UpstreamErrors.WithLabelValues(prefix).Inc()

	// Transport errors embed the resolved address, so they stay out of
	// the log for secret-backed routes.
	event := log.Error().Str("route", prefix).Str("upstream", upstream)
	if route == nil || !route.Target.Secret {
		event = event.Err(err)
	}
	event.Msg("proxy")

	writeJSON(w, http.StatusBadGateway, map[string]string{
		"error":    "upstream unreachable",
		"route":    prefix,
		"upstream": upstream,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
