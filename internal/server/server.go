package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jpalmerr/pulsecheck/internal/board"
	"github.com/jpalmerr/pulsecheck/internal/poller"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds the graceful HTTP shutdown.
	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "pulsecheck"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"
)

// RowSource is the read side of the display model.
type RowSource interface {
	// Rows returns all rows in target order.
	Rows() []board.Row

	// Subscribe returns a channel that receives row updates.
	// Caller must call Unsubscribe when done.
	Subscribe() <-chan board.Row

	// Unsubscribe removes a subscription and closes the channel.
	Unsubscribe(ch <-chan board.Row)
}

// Server handles HTTP requests for the web presenter.
//
// Server provides these routes:
//   - GET /: Serves the embedded dashboard HTML
//   - GET /api/rows: Returns all rows as JSON, in target order
//   - GET /api/sse: Server-Sent Events stream of row updates
//   - GET /api/interval: Returns the polling interval and its bounds
//   - PUT /api/interval: Changes the polling interval
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	rows       RowSource
	interval   *poller.Interval
	port       int
	httpServer *http.Server
	assets     fs.FS
	title      string
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - rows: the display model to serve
//   - interval: the polling interval exposed for reading and changing
//   - port: TCP port to listen on
//   - assets: Embedded filesystem containing dashboard assets (may be nil)
//   - title: Dashboard title (defaults to "pulsecheck" if empty)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(rows RowSource, interval *poller.Interval, port int, assets fs.FS, title string, logger *slog.Logger) *Server {
	return &Server{
		rows:     rows,
		interval: interval,
		port:     port,
		assets:   assets,
		title:    title,
		logger:   logger,
	}
}

// Handler returns the router serving all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.AllowAll().Handler)
		r.Get("/rows", s.handleRows)
		r.Get("/sse", s.handleSSE)
		r.Get("/interval", s.handleGetInterval)
		r.Put("/interval", s.handleSetInterval)
	})

	if s.assets != nil {
		r.Get("/", s.handleDashboard)
	}

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// request contexts derive from ctx so SSE handlers end on shutdown
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleRows returns all rows as JSON.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, http.StatusOK, s.rows.Rows())
}

// intervalResponse is the body of the interval endpoints.
type intervalResponse struct {
	IntervalSeconds int    `json:"interval_seconds"`
	MinSeconds      int    `json:"min_seconds"`
	MaxSeconds      int    `json:"max_seconds"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
}

// intervalRequest is the body accepted by PUT /api/interval.
type intervalRequest struct {
	IntervalSeconds *int `json:"interval_seconds"`
}

func (s *Server) intervalState() intervalResponse {
	return intervalResponse{
		IntervalSeconds: s.interval.Seconds(),
		MinSeconds:      poller.MinInterval,
		MaxSeconds:      poller.MaxInterval,
	}
}

// handleGetInterval returns the current polling interval.
func (s *Server) handleGetInterval(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.intervalState())
}

// handleSetInterval validates and applies a new polling interval.
//
// Values below the minimum are rejected with 422 and leave the interval
// unchanged; values above the maximum are clamped.
func (s *Server) handleSetInterval(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IntervalSeconds == nil {
		resp := s.intervalState()
		resp.Error = "body must be a JSON object with an integer interval_seconds"
		s.writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	applied, err := s.interval.Set(*req.IntervalSeconds)
	resp := s.intervalState()
	if err != nil {
		s.logger.Warn("interval rejected", "requested_s", *req.IntervalSeconds, "error", err)
		resp.Error = fmt.Sprintf("The minimum interval is %d seconds.", poller.MinInterval)
		s.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	s.logger.Info("interval updated", "interval_s", applied)
	resp.Message = fmt.Sprintf("New interval: %ds", applied)
	s.writeJSON(w, http.StatusOK, resp)
}

// writeJSON encodes v with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// handleSSE streams row updates via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// some ResponseWriter implementations do not support deadlines
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.rows.Subscribe()
	defer s.rows.Unsubscribe(ch)

	// send initial rows
	for _, row := range s.rows.Rows() {
		data, err := json.Marshal(row)
		if err != nil {
			continue
		}
		if err := writeAndFlush(data); err != nil {
			return
		}
	}

	for {
		select {
		case row, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(row)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on client disconnect and on server shutdown (BaseContext)
			return
		}
	}
}
