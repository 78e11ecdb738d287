// Package server exposes an influence map editing session over HTTP.
//
// All routes live under /api. Mutations go through the session, so the
// reporting rules, undo history and persistence behave exactly as in the
// interactive editor. Errors are returned as {"code","message"} with a
// status derived from the error code (see [Status]).
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/matzehuels/influencemap/pkg/cache"
	"github.com/matzehuels/influencemap/pkg/errors"
	pkgio "github.com/matzehuels/influencemap/pkg/io"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/observability"
	"github.com/matzehuels/influencemap/pkg/pipeline"
	"github.com/matzehuels/influencemap/pkg/session"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 4 << 20

// shutdownTimeout is how long in-flight requests get after the context ends.
const shutdownTimeout = 5 * time.Second

// Server serves one session.
type Server struct {
	sess     *session.Session
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRunner sets the render pipeline. Defaults to an in-memory cached runner.
func WithRunner(r *pipeline.Runner) Option { return func(s *Server) { s.runner = r } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithRenderDefaults sets the layout and render options used when a request
// does not override them.
func WithRenderDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New returns a server over sess.
func New(sess *session.Session, opts ...Option) *Server {
	s := &Server{sess: sess}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(cache.NewMemoryCache(256), nil, s.logger)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stakeholders", s.listStakeholders)
		r.Post("/stakeholders", s.addStakeholder)
		r.Put("/stakeholders/{name}", s.updateStakeholder)
		r.Post("/stakeholders/{name}/rename", s.renameStakeholder)
		r.Get("/stakeholders/{name}/tooltip", s.tooltip)

		r.Post("/undo", s.undo)
		r.Post("/redo", s.redo)
		r.Post("/reset", s.reset)

		r.Post("/import", s.importSet)
		r.Get("/export", s.exportSet)

		r.Get("/stats", s.stats)
		r.Get("/layout", s.layout)
		r.Get("/render.svg", s.renderSVG)

		r.Get("/viewport", s.getViewport)
		r.Put("/viewport", s.setViewport)
		r.Post("/viewport/pan", s.panViewport)
		r.Post("/viewport/zoom", s.zoomViewport)
		r.Post("/viewport/fit", s.fitViewport)
	})
	return r
}

// observe reports requests to the HTTP hooks and logs them at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", dur)
	})
}

// =============================================================================
// Responses
// =============================================================================

// State is the body returned by list and mutation endpoints.
type State struct {
	Stakeholders stakeholder.Set `json:"stakeholders"`
	CanUndo      bool            `json:"canUndo"`
	CanRedo      bool            `json:"canRedo"`
	Changed      *bool           `json:"changed,omitempty"`
}

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// LayoutResponse is the body of GET /api/layout. When the current set cannot
// be built, Document is the last successful layout and Error explains why.
type LayoutResponse struct {
	Document  layout.Document    `json:"document"`
	Transform viewport.Transform `json:"transform"`
	Stale     bool               `json:"stale,omitempty"`
	Error     *ErrorBody         `json:"error,omitempty"`
}

// Status maps an error code to an HTTP status.
func Status(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeCycleRejected, errors.ErrCodeDuplicateName,
		errors.ErrCodeDanglingReference, errors.ErrCodeBuildFailure:
		return http.StatusConflict
	case errors.ErrCodeImportParse, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func errorBody(err error) *ErrorBody {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return &ErrorBody{Code: code, Message: errors.UserMessage(err)}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorBody(err))
}

func (s *Server) state() State {
	return State{
		Stakeholders: s.sess.Current(),
		CanUndo:      s.sess.CanUndo(),
		CanRedo:      s.sess.CanRedo(),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// =============================================================================
// Stakeholders
// =============================================================================

func (s *Server) listStakeholders(w http.ResponseWriter, r *http.Request) {
	st := s.state()
	if term := r.URL.Query().Get("filter"); term != "" {
		st.Stakeholders = st.Stakeholders.Filter(term)
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) addStakeholder(w http.ResponseWriter, r *http.Request) {
	x := stakeholder.Stakeholder{
		RelationshipScore: stakeholder.DefaultRelationshipScore,
		DecisionWeighting: stakeholder.DefaultDecisionWeighting,
	}
	if err := decodeBody(w, r, &x); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sess.Add(r.Context(), x); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.state())
}

func (s *Server) updateStakeholder(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	x, err := s.sess.Node(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := decodeBody(w, r, &x); err != nil {
		s.writeError(w, r, err)
		return
	}
	if x.Name != name {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"name cannot change on update; use /api/stakeholders/%s/rename", name))
		return
	}
	if err := s.sess.Update(r.Context(), x); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state())
}

type renameRequest struct {
	NewName string `json:"newName"`
}

func (s *Server) renameStakeholder(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sess.Rename(r.Context(), chi.URLParam(r, "name"), req.NewName); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) tooltip(w http.ResponseWriter, r *http.Request) {
	tip, err := s.sess.Tooltip(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tip)
}

// =============================================================================
// History
// =============================================================================

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, s.sess.Undo)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.step(w, r, s.sess.Redo)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, move func(context.Context) (bool, error)) {
	changed, err := move(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := s.state()
	st.Changed = &changed
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Reset(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state())
}

// =============================================================================
// Import / Export
// =============================================================================

// requestFormat picks the payload format from ?format=, then the content
// type, defaulting to JSON.
func requestFormat(r *http.Request, header string) (pkgio.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return pkgio.ParseFormat(f)
	}
	if strings.Contains(r.Header.Get(header), "yaml") {
		return pkgio.FormatYAML, nil
	}
	return pkgio.FormatJSON, nil
}

func (s *Server) importSet(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r, "Content-Type")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := s.sess.Import(r.Context(), body, format); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) exportSet(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r, "Accept")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="influence-map`+format.Ext()+`"`)
	if err := pkgio.Write(s.sess.Current(), w, format); err != nil {
		s.logger.Warn("export failed", "error", err)
	}
}

// =============================================================================
// Views
// =============================================================================

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sess.Stats())
}

// viewOptions overlays query parameters on the server defaults.
func (s *Server) viewOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = nil
	q := r.URL.Query()
	if v := q.Get("groupByDivision"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "groupByDivision: %q is not a boolean", v)
		}
		opts.GroupByDivision = b
	}
	for _, dim := range []struct {
		key string
		dst *float64
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		if v := q.Get(dim.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a positive number", dim.key, v)
			}
			*dim.dst = f
		}
	}
	opts.Filter = q.Get("filter")
	opts.SetLayoutDefaults()
	return opts, nil
}

func layoutOptions(opts pipeline.Options) layout.Options {
	return layout.Options{
		Width:           opts.Width,
		Height:          opts.Height,
		GroupByDivision: opts.GroupByDivision,
	}
}

// layout returns the session's view of the whole map, drawn under the
// current pan/zoom. With ?filter= the matching stakeholders are laid out on
// their own and fitted; a filtered view never goes stale, it fails instead.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Filter != "" {
		doc, err := s.runner.GenerateLayout(r.Context(), s.sess.Current(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, LayoutResponse{Document: doc, Transform: doc.Transform})
		return
	}

	v, err := s.sess.View(layoutOptions(opts))
	if v == nil {
		s.writeError(w, r, err)
		return
	}
	resp := LayoutResponse{Document: v.Document, Transform: v.Transform()}
	if err != nil {
		resp.Stale = true
		resp.Error = errorBody(err)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// renderSVG draws the map as an interactive SVG. The unfiltered map uses the
// session's pan/zoom; a filtered map is fitted to its own content.
func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Selected = r.URL.Query().Get("selected")
	if opts.Transform, err = queryTransform(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.VizType = pipeline.VizTypeTree
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Interactive = true

	var doc layout.Document
	if opts.Filter != "" {
		doc, err = s.runner.GenerateLayout(r.Context(), s.sess.Current(), opts)
	} else {
		var v *session.View
		if v, err = s.sess.View(layoutOptions(opts)); err == nil {
			doc = v.Document
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// queryTransform reads a one-off pan/zoom from ?x=&y=&k=. It is nil when
// none of them is given; the session viewport is left alone.
func queryTransform(r *http.Request) (*viewport.Transform, error) {
	q := r.URL.Query()
	if q.Get("x") == "" && q.Get("y") == "" && q.Get("k") == "" {
		return nil, nil
	}
	t := viewport.Identity
	for _, c := range []struct {
		key string
		dst *float64
	}{{"x", &t.X}, {"y", &t.Y}, {"k", &t.K}} {
		v := q.Get(c.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a number", c.key, v)
		}
		*c.dst = f
	}
	return &t, nil
}

// =============================================================================
// Viewport
// =============================================================================

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type zoomRequest struct {
	Factor float64 `json:"factor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (s *Server) getViewport(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sess.Transform())
}

// setViewport replaces the transform, as a drag or wheel gesture in a client
// does. The scale is clamped.
func (s *Server) setViewport(w http.ResponseWriter, r *http.Request) {
	var t viewport.Transform
	if err := decodeBody(w, r, &t); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.SetTransform(t))
}

func (s *Server) panViewport(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Pan(req.DX, req.DY))
}

func (s *Server) zoomViewport(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Factor <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "zoom factor must be positive, got %g", req.Factor))
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Zoom(req.Factor, req.X, req.Y))
}

// fitViewport drops pan and zoom and returns the fitted view.
func (s *Server) fitViewport(w http.ResponseWriter, r *http.Request) {
	s.sess.Refit()
	s.layout(w, r)
}
