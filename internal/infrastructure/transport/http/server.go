package transporthttp

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/kvoloboi/staticinfo/internal/application/sink"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/codec"
)

const maxRequestBytes = 64 << 20

// Handler accepts CBOR encoded records on POST /reports.
type Handler struct {
	ingestor sink.RecordIngestor
	logger   *slog.Logger
	mux      *http.ServeMux
}

func NewHandler(ingestor sink.RecordIngestor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		ingestor: ingestor,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("POST "+ReportsPath, h.postReport)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) postReport(w http.ResponseWriter, r *http.Request) {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != codec.ContentType {
		http.Error(w, "expected "+codec.ContentType, http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := codec.UnmarshalRecord(body)
	if err != nil {
		h.logger.Error("received malformed record", "err", err)
		http.Error(w, "malformed record: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := sink.DecodeReport(record); err != nil {
		h.logger.Error("received malformed report", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ingestor.Ingest(r.Context(), sink.RecordItem{Record: record, Size: record.Size()}); err != nil {
		h.logger.Warn("failed to ingest report", "err", err)
		http.Error(w, "ingest failed", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type HTTPServer struct {
	server *http.Server
	lis    net.Listener
	logger *slog.Logger
}

func NewHTTPServer(
	addr string,
	handler http.Handler,
	tlsCfg *tls.Config,
	logger *slog.Logger,
) (*HTTPServer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		lis = tls.NewListener(lis, tlsCfg)
	}

	return &HTTPServer{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		lis:    lis,
		logger: logger,
	}, nil
}

func (s *HTTPServer) Run() error {
	err := s.server.Serve(s.lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *HTTPServer) Shutdown(timeout time.Duration) {
	s.logger.Info("initiating graceful shutdown of HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown timed out; forcing stop", "err", err)
		_ = s.server.Close()
		return
	}
	s.logger.Info("HTTP server stopped gracefully")
}
