package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"voxmaati/internal/app"
	"voxmaati/internal/ratelimit"
	"voxmaati/internal/util"
)

const (
	serviceName = "vox-maati-voice-api"
	version     = "1.0.0"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                      *app.App
	AppName                  string
	Environment              string
	StorageEndpoint          string
	StorageBucket            string
	MaxAudioSizeMB           int
	RedisAddr                string
	RedisPassword            string
	UploadRateLimitPerMinute int
	TrustedProxyCIDRs        []string
}

// Server exposes the voice reporting HTTP endpoints.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	appName        string
	environment    string
	endpoint       string
	bucket         string
	maxUploadBytes int64
	uploadLimiter  *ratelimit.FixedWindowLimiter
	trustedProxies *util.TrustedProxies
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, err
	}
	s := &Server{
		app:         cfg.App,
		mux:         http.NewServeMux(),
		appName:     cfg.AppName,
		environment: cfg.Environment,
		endpoint:    cfg.StorageEndpoint,
		bucket:      cfg.StorageBucket,
		// Headroom above the audio policy so the validator, not the
		// transport, produces the canonical "too large" rejection.
		maxUploadBytes: int64(cfg.MaxAudioSizeMB+32) << 20,
		trustedProxies: trusted,
	}
	if cfg.UploadRateLimitPerMinute > 0 {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		limiter, err := ratelimit.NewFixedWindowLimiter(
			redisClient, "voxmaati:ratelimit:upload",
			cfg.UploadRateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, err
		}
		s.uploadLimiter = limiter
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(serviceName, s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/issues/voice/upload", s.handleVoiceUpload)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     s.appName,
		"status":      "active",
		"version":     version,
		"environment": s.environment,
		"endpoint":    s.endpoint,
		"bucket":      s.bucket,
		"docs":        "/docs",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	// The upload payload keeps the legacy gcs_uri field because mobile
	// clients parse it; health is unversioned and free to use the
	// backend-neutral name.
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"service":            serviceName,
		"storage_configured": s.endpoint != "" && s.bucket != "",
	})
}

func (s *Server) handleVoiceUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.uploadLimiter != nil && !s.uploadLimiter.Allow(util.ClientIP(r, s.trustedProxies)) {
		writeDetail(w, http.StatusTooManyRequests, "too many uploads, slow down")
		return
	}
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	category := r.FormValue("category")
	if category == "" {
		writeDetail(w, http.StatusBadRequest, "category is required")
		return
	}
	location := r.FormValue("location")
	if location == "" {
		writeDetail(w, http.StatusBadRequest, "location is required")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "could not read file")
		return
	}

	result, err := s.app.ProcessVoiceUpload(r.Context(), app.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Category:    category,
		Location:    location,
	})
	if err != nil {
		writeUploadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Audio uploaded and translated successfully",
		"data":    result,
	})
}

// writeUploadError maps pipeline error kinds to transport status codes.
// Validation rejections surface verbatim; everything else becomes a generic
// server failure with the cause interpolated, never a stack trace.
func writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	kind, ok := app.KindOf(err)
	if ok && kind == app.KindValidation {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	util.LoggerFromContext(r.Context()).Error("voice upload failed", "kind", string(kind), "err", err)
	writeDetail(w, http.StatusInternalServerError, "Upload failed: "+err.Error())
}

func methodNotAllowed(w http.ResponseWriter) {
	writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
