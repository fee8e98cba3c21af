// Package server exposes the upload service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/williamokano/img_uploader/pkg/storage"
	"github.com/williamokano/img_uploader/pkg/upload"
)

const (
	formField       = "file"
	shutdownTimeout = 10 * time.Second
)

// Uploader is the part of upload.Service the server needs
type Uploader interface {
	Upload(ctx context.Context, req upload.Request) (upload.Result, error)
}

// Server handles image upload requests
type Server struct {
	uploader Uploader
	maxBytes int64
	logger   zerolog.Logger
}

// New creates a server that rejects request bodies larger than maxBytes
func New(uploader Uploader, maxBytes int64, logger zerolog.Logger) *Server {
	return &Server{uploader: uploader, maxBytes: maxBytes, logger: logger}
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload-image", s.uploadImageHandler)
	mux.HandleFunc("GET /healthz", healthHandler)
	return logRequests(s.logger, mux)
}

// Run listens on addr and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	req, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		default:
			writeError(w, http.StatusBadRequest, "No file uploaded")
		}
		return
	}

	res, err := s.uploader.Upload(r.Context(), req)
	if err != nil {
		log := s.logger.Error().Err(err).Str("file_name", req.FileName)
		var rejected *storage.UploadError
		if errors.As(err, &rejected) {
			log = log.Int("status", rejected.StatusCode)
		}
		log.Msg("image upload failed")

		if errors.Is(err, storage.ErrInvalidConfig) || errors.Is(err, storage.ErrAuthFailed) {
			writeError(w, http.StatusInternalServerError, "Missing S3 configuration")
			return
		}
		writeError(w, http.StatusBadGateway, "Failed to upload image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": res.URL})
}

// readUpload extracts the file part from a multipart request
func readUpload(r *http.Request) (upload.Request, error) {
	file, header, err := r.FormFile(formField)
	if err != nil {
		return upload.Request{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload.Request{}, err
	}

	return upload.Request{
		Data:        data,
		FileName:    header.Filename,
		ContentType: partContentType(header),
	}, nil
}

func partContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return storage.DefaultContentType
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
