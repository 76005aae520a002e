package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/thingstocheck/internal/catalog"
	"github.com/mithrel/thingstocheck/internal/config"
	"github.com/mithrel/thingstocheck/internal/share"
	"github.com/mithrel/thingstocheck/internal/slack"
	"github.com/mithrel/thingstocheck/internal/suggest"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	RouteSlack   = "slack"
	RouteHealthz = "healthz"
)

type routeTable map[string]string

func (t routeTable) Path(name string) (string, bool) {
	p, ok := t[name]
	return p, ok
}

// Routes is the server's named endpoint table; share links resolve against it.
var Routes share.Routes = routes

var routes = routeTable{
	share.RouteIndex: "/",
	RouteSlack:       "/slack/troubleshoot",
	RouteHealthz:     "/healthz",
}

// Server serves suggestions from a read-only catalog.
type Server struct {
	cfg        *viper.Viper
	log        *zap.Logger
	catalog    *catalog.Catalog
	selector   *suggest.Selector
	links      *share.Builder
	publicURL  *url.URL
	trustProxy bool
	verifier   *slack.Verifier
}

// New builds a Server. The catalog is shared by every request and must not be
// modified afterwards.
func New(cfg *viper.Viper, log *zap.Logger, things *catalog.Catalog, sel *suggest.Selector) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		log:        log,
		catalog:    things,
		selector:   sel,
		links:      share.New(routes),
		trustProxy: cfg.GetBool("trust_proxy"),
	}
	u, err := config.PublicURL(cfg)
	if err != nil {
		return nil, err
	}
	s.publicURL = u
	// Whitespace-only secrets count as unset, matching keys.SigningSecret.
	if secret := strings.TrimSpace(cfg.GetString("slack.signing_secret")); secret != "" {
		s.verifier = slack.NewVerifier(secret)
	}
	return s, nil
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routes[RouteHealthz], func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET "+routes[share.RouteIndex]+"{$}", s.handleIndex)

	var slackHandler http.Handler = http.HandlerFunc(s.handleSlack)
	if s.verifier != nil {
		slackHandler = s.verifier.Middleware(slackHandler)
	}
	mux.Handle("POST "+routes[RouteSlack], slackHandler)

	return s.logRequests(mux)
}

type indexPage struct {
	Index     int
	Markdown  string
	HTML      template.HTML
	Permalink string
	Random    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// The random branch must never be cached, and the two branches share a URL.
	w.Header().Set("Cache-Control", "no-store")

	req := suggest.Any()
	idx, ok, err := share.ParseIndex(r.URL.Query())
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if ok {
		req = suggest.At(idx)
	}
	thing, err := s.selector.Select(s.catalog, req)
	if errors.Is(err, suggest.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	base := s.baseURL(r)
	permalink, err := s.links.Link(base, thing.Index)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	random, err := s.links.RandomLink(base)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = indexTemplate.Execute(&buf, indexPage{
		Index:     thing.Index,
		Markdown:  thing.Markdown,
		HTML:      template.HTML(thing.HTML), // sanitized at catalog build time
		Permalink: permalink.String(),
		Random:    random.String(),
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleSlack answers a slash command with a random suggestion. The command
// text is ignored.
func (s *Server) handleSlack(w http.ResponseWriter, r *http.Request) {
	thing, err := s.selector.Random(s.catalog)
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	b, err := json.Marshal(slack.Message{ResponseType: slack.InChannel, Text: thing.Markdown})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (s *Server) baseURL(r *http.Request) *url.URL {
	if s.publicURL != nil {
		return s.publicURL
	}
	return share.BaseFromRequest(r, s.trustProxy)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
