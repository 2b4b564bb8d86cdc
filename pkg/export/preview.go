package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Preview port range.
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

// PreviewServer serves a chart bundle locally with caching disabled.
type PreviewServer struct {
	bundlePath string
	port       int
	server     *http.Server
	logger     *log.Logger
}

// NewPreviewServer creates a preview server for the given bundle.
func NewPreviewServer(bundlePath string, port int, logger *log.Logger) *PreviewServer {
	if logger == nil {
		logger = log.Default()
	}
	p := &PreviewServer{
		bundlePath: bundlePath,
		port:       port,
		logger:     logger,
	}
	p.server = &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", port),
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return p
}

// Handler returns the HTTP handler serving the bundle and status endpoint.
func (p *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.FileServer(http.Dir(p.bundlePath))))
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	return mux
}

// Serve runs the server until ctx is cancelled, then shuts down gracefully.
func (p *PreviewServer) Serve(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(p.bundlePath, "index.html")); err != nil {
		return fmt.Errorf("no index.html found in bundle: %s", p.bundlePath)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	p.logger.Info("preview server running", "url", p.URL(), "bundle", p.bundlePath)

	select {
	case <-ctx.Done():
		p.logger.Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Port returns the configured port.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the server's base URL.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

type previewStatus struct {
	Status     string `json:"status"`
	Port       int    `json:"port"`
	BundlePath string `json:"bundle_path"`
	HasChart   bool   `json:"has_chart"`
}

func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	_, err := os.Stat(filepath.Join(p.bundlePath, ChartFile))
	_ = json.NewEncoder(w).Encode(previewStatus{
		Status:     "running",
		Port:       p.port,
		BundlePath: p.bundlePath,
		HasChart:   err == nil,
	})
}

func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available localhost port in [start, end].
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}
