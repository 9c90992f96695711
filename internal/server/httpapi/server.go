// Package httpapi exposes the evidence service over HTTP with JSON
// responses and multipart uploads.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
)

const shutdownTimeout = 10 * time.Second

// EvidenceService is what the handlers need from the service layer.
type EvidenceService interface {
	Store(ctx context.Context, in *models.NewEvidence) (*models.EvidenceFile, error)
	List(ctx context.Context, reportID string) ([]*models.EvidenceFile, error)
	Access(ctx context.Context, id string, intent models.Intent) (*models.Access, error)
	Delete(ctx context.Context, id string) error
}

type HTTPServer struct {
	address       string
	evidence      EvidenceService
	logger        logging.Logger
	maxUploadSize int64
	mux           *http.ServeMux
}

func NewHTTPServer(a string, l logging.Logger, es EvidenceService, maxUploadSize int64) *HTTPServer {
	s := &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		evidence:      es,
		maxUploadSize: maxUploadSize,
		mux:           http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *HTTPServer) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/reports/{reportID}/evidence", s.handleUpload)
	s.mux.HandleFunc("GET /api/reports/{reportID}/evidence", s.handleList)

	s.mux.HandleFunc("GET /api/evidence/{id}/access", s.handleAccess)
	s.mux.HandleFunc("DELETE /api/evidence/{id}", s.handleDelete)
}

// Handle mounts an extra handler, e.g. the signed-URL endpoint of an
// in-memory object store.
func (s *HTTPServer) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logRequests(s.mux).ServeHTTP(w, r)
}

// Run serves on the configured address until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
