// Package server exposes facezoom's operations over HTTP for editor
// integration. A host editor runs `facezoom serve` against a shared registry
// backend and drives zooming with plain HTTP calls.
//
// # Endpoints
//
//	POST /api/scale/grow            apply one grow step
//	POST /api/scale/shrink          apply one shrink step
//	GET  /api/faces                 list faces with effective heights
//	GET  /api/faces/{name}          inspect one face
//	PUT  /api/faces/{name}/height   write an explicit height
//	GET  /healthz                   liveness check
package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/mbuehler/facezoom/pkg/errors"
	"github.com/mbuehler/facezoom/pkg/face"
	"github.com/mbuehler/facezoom/pkg/scale"
)

// Server handles HTTP requests against one scaler and its registry.
type Server struct {
	scaler *scale.Scaler
	reg    face.Registry
	logger *log.Logger
}

// New creates a server. A nil logger falls back to log.Default().
func New(scaler *scale.Scaler, reg face.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{scaler: scaler, reg: reg, logger: logger}
}

// Router builds the chi router with all routes and middleware registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/scale/grow", s.handleScale(scale.Grow))
		r.Post("/scale/shrink", s.handleScale(scale.Shrink))
		r.Get("/faces", s.handleListFaces)
		r.Get("/faces/{name}", s.handleGetFace)
		r.Put("/faces/{name}/height", s.handleSetHeight)
	})
	return r
}

// =============================================================================
// Response Types
// =============================================================================

// faceView is the JSON representation of one face.
type faceView struct {
	Name      string `json:"name"`
	Height    *int   `json:"height,omitempty"`
	Inherit   string `json:"inherit,omitempty"`
	Effective int    `json:"effective"`
	Excluded  bool   `json:"excluded"`
}

// scaleResponse summarizes one scaling run.
type scaleResponse struct {
	Direction  string `json:"direction"`
	Scaled     int    `json:"scaled"`
	Skipped    int    `json:"skipped"`
	DurationMS int64  `json:"duration_ms"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScale(dir scale.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.scaler.Scale(r.Context(), dir)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, scaleResponse{
			Direction:  dir.String(),
			Scaled:     res.Scaled,
			Skipped:    res.Skipped,
			DurationMS: res.Duration.Milliseconds(),
		})
	}
}

func (s *Server) handleListFaces(w http.ResponseWriter, r *http.Request) {
	faces, err := face.Snapshot(r.Context(), s.reg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]faceView, 0, len(faces))
	for _, f := range faces {
		v, err := s.view(r, f)
		if err != nil {
			s.writeError(w, err)
			return
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"faces": views})
}

func (s *Server) handleGetFace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, found, err := s.find(r, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		s.writeError(w, errors.New(errors.ErrCodeFaceNotFound, "no face named %q", name))
		return
	}

	v, err := s.view(r, f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSetHeight(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Height int `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidHeight, "invalid request body"))
		return
	}
	if body.Height <= 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidHeight, "height must be positive, got %d", body.Height))
		return
	}

	_, found, err := s.find(r, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		s.writeError(w, errors.New(errors.ErrCodeFaceNotFound, "no face named %q", name))
		return
	}

	if err := s.reg.SetHeight(r.Context(), name, body.Height); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "write face %s", name))
		return
	}

	f, _, err := s.find(r, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	v, err := s.view(r, f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// =============================================================================
// Helpers
// =============================================================================

// find locates one face by name. The registry adapter has no existence
// query, so membership comes from List.
func (s *Server) find(r *http.Request, name string) (face.Face, bool, error) {
	names, err := s.reg.List(r.Context())
	if err != nil {
		return face.Face{}, false, errors.Wrap(errors.ErrCodeStore, err, "list faces")
	}

	exists := false
	for _, n := range names {
		if n == name {
			exists = true
			break
		}
	}
	if !exists {
		return face.Face{}, false, nil
	}

	f := face.Face{Name: name}
	if h, ok, err := s.reg.Height(r.Context(), name); err != nil {
		return face.Face{}, false, errors.Wrap(errors.ErrCodeStore, err, "read face %s", name)
	} else if ok {
		f.Height = &h
	}
	if p, ok, err := s.reg.Parent(r.Context(), name); err != nil {
		return face.Face{}, false, errors.Wrap(errors.ErrCodeStore, err, "read face %s", name)
	} else if ok {
		f.Inherit = p
	}
	return f, true, nil
}

func (s *Server) view(r *http.Request, f face.Face) (faceView, error) {
	effective, err := s.scaler.EffectiveHeight(r.Context(), f.Name)
	if err != nil {
		return faceView{}, err
	}
	return faceView{
		Name:      f.Name,
		Height:    f.Height,
		Inherit:   f.Inherit,
		Effective: effective,
		Excluded:  s.scaler.Excluded(f.Name),
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeFaceNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidHeight, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeStore:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		s.logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}})
}
