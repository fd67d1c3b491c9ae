package api

import (
	"context"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/charliek/logview/internal/auth"
	"github.com/charliek/logview/internal/constants"
	"github.com/charliek/logview/internal/logs"
	"github.com/charliek/logview/internal/web"
)

// Route labels used for metrics and logging.
const (
	routeKeys     = "keys"
	routeLogs     = "logs"
	routeIndex    = "index"
	routeRedirect = "redirect"
	routeStatic   = "static"
)

const staticCacheControl = "public, max-age=3600"

// Options configures the log UI. It is read-only once the dispatcher is built.
type Options struct {
	RoutePrefix string
	Chain       auth.Chain
	HomeURL     string
	HeadContent string
	BodyContent string
	AuthType    string
}

// ProviderRegistry is the part of logs.Registry the dispatcher needs.
type ProviderRegistry interface {
	Keys() []string
	NewSession() *logs.Session
}

// Dispatcher serves the log UI and its JSON API under /{prefix}. Matching
// of the fixed routes ignores case. Everything else under the prefix is
// served from the static bundle without authorization.
type Dispatcher struct {
	opts     Options
	prefix   string
	routes   map[string]string
	registry ProviderRegistry
	renderer *indexRenderer
	assets   fs.FS
	static   http.Handler
	metrics  *Metrics
	router   *chi.Mux
}

// NewDispatcher creates a dispatcher serving assets under opts.RoutePrefix.
func NewDispatcher(opts Options, registry ProviderRegistry, assets fs.FS, metrics *Metrics) *Dispatcher {
	opts.RoutePrefix = strings.Trim(opts.RoutePrefix, "/")
	if opts.RoutePrefix == "" {
		opts.RoutePrefix = constants.DefaultRoutePrefix
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	d := &Dispatcher{
		opts:     opts,
		prefix:   "/" + strings.ToLower(opts.RoutePrefix),
		registry: registry,
		renderer: &indexRenderer{assets: assets, opts: opts},
		assets:   assets,
		static:   http.FileServer(http.FS(assets)),
		metrics:  metrics,
		router:   chi.NewRouter(),
	}

	p := d.prefix
	d.routes = map[string]string{
		p:                       routeRedirect,
		p + "/":                 routeRedirect,
		p + "/" + web.IndexFile: routeIndex,
		p + "/api/keys":         routeKeys,
		p + "/api/keys/":        routeKeys,
		p + "/api/logs":         routeLogs,
		p + "/api/logs/":        routeLogs,
	}

	d.router.Use(d.canonicalize)
	for route, name := range d.routes {
		switch name {
		case routeRedirect:
			d.router.Get(route, d.Redirect)
		case routeIndex:
			d.router.Get(route, d.handle(name, d.Index))
		case routeKeys:
			d.router.Get(route, d.handle(name, d.Keys))
		case routeLogs:
			d.router.Get(route, d.handle(name, d.Logs))
		}
	}
	d.router.NotFound(d.serveStatic)
	d.router.MethodNotAllowed(d.serveStatic)

	return d
}

// ServeHTTP implements http.Handler. Any route context inherited from a
// host chi router is dropped so the dispatcher can be mounted anywhere.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, (*chi.Context)(nil))
	d.router.ServeHTTP(w, r.WithContext(ctx))
}

// canonicalize lower-cases the routing path of fixed routes and records
// request metrics. Static asset paths keep their case.
func (d *Dispatcher) canonicalize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeStatic
		canonical := strings.ToLower(r.URL.Path)
		if name, ok := d.routes[canonical]; ok {
			route = name
			chi.RouteContext(r.Context()).RoutePath = canonical
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		d.metrics.observe(route, ww.Status(), time.Since(start))
	})
}

// serveStatic serves bundled assets below the prefix. The index template
// is only reachable through the rendered route.
func (d *Dispatcher) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	rest, ok := cutPrefixFold(r.URL.Path, d.prefix)
	if !ok || !strings.HasPrefix(rest, "/") {
		http.NotFound(w, r)
		return
	}

	if path.Clean(rest) != rest {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(rest, "/")
	if name == "" || strings.EqualFold(name, web.IndexFile) {
		http.NotFound(w, r)
		return
	}
	info, err := fs.Stat(d.assets, name)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	req := r.Clone(r.Context())
	req.URL.Path = "/" + name
	req.URL.RawPath = ""

	w.Header().Set("Cache-Control", staticCacheControl)
	d.static.ServeHTTP(w, req)
}

// cutPrefixFold is strings.CutPrefix with ASCII case folding.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
