package web

import (
	"net/http"
	"path"

	"github.com/gorilla/mux"

	"mergington/internal/adapters/email"
	"mergington/internal/adapters/http/middleware"
	"mergington/internal/adapters/http/perf"
	activityStore "mergington/internal/adapters/storage/activity"
	teacherStore "mergington/internal/adapters/storage/teacher"
)

// Stores holds all storage dependencies.
type Stores struct {
	ActivityStore activityStore.Store
	TeacherStore  teacherStore.Store
}

// MuxConfig carries the non-storage settings of the HTTP surface.
type MuxConfig struct {
	StaticDir     string
	SecureCookies bool
	CSRFKey       []byte // nil disables CSRF protection
	SlowRequestMs int
	Collector     *perf.Collector
	Sender        email.Sender
	Transport     middleware.SessionTransport // defaults to CookieTransport
}

// app owns everything the handlers need; there is no package-level state.
type app struct {
	stores    Stores
	sender    email.Sender
	transport middleware.SessionTransport
}

// NewMux wires HTTP handlers for the app.
// PRE: s.ActivityStore and s.TeacherStore are non-nil
// POST: Returns a handler serving the JSON API and static assets
func NewMux(cfg MuxConfig, s Stores) http.Handler {
	transport := cfg.Transport
	if transport == nil {
		transport = middleware.CookieTransport{Secure: cfg.SecureCookies}
	}
	a := &app{stores: s, sender: cfg.Sender, transport: transport}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	r.HandleFunc("/", handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/activities", a.handleGetActivities).Methods(http.MethodGet)
	r.HandleFunc("/activities/{activity_name}/signup", a.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/activities/{activity_name}/unregister", a.handleUnregister).Methods(http.MethodDelete)
	r.HandleFunc("/login", a.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", a.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/auth/status", a.handleAuthStatus).Methods(http.MethodGet)

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticFiles(staticDir)))

	// Chain lists middlewares inner-first: RequestID sees the request first.
	mws := []func(http.Handler) http.Handler{
		middleware.Auth(transport, s.TeacherStore),
	}
	if cfg.CSRFKey != nil {
		mws = append(mws, middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies))
	}
	mws = append(mws,
		middleware.SecurityHeaders,
		middleware.Timing(cfg.Collector, cfg.SlowRequestMs),
		middleware.RequestID,
	)
	return middleware.Chain(r, mws...)
}

// staticFiles serves dir verbatim. http.FileServer answers ".../index.html"
// with a redirect to the directory, so that file is served directly.
func staticFiles(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path.Base(r.URL.Path) != "index.html" {
			files.ServeHTTP(w, r)
			return
		}
		f, err := root.Open(r.URL.Path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}
