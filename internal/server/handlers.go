package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphweave/pkg/engine/group"
	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/pipeline"
	"github.com/matzehuels/graphweave/pkg/store"
)

// layoutRequest is the body of POST /v1/layout.
type layoutRequest struct {
	Document model.Document `json:"document"`
	Grouping group.Config   `json:"grouping"`
	Filter   []string       `json:"filter,omitempty"`
	Width    float64        `json:"width,omitempty"`
	Height   float64        `json:"height,omitempty"`
	MaxTicks int            `json:"max_ticks,omitempty"`
	Seed     int64          `json:"seed,omitempty"`
}

func (req *layoutRequest) options() pipeline.Options {
	opts := pipeline.Options{
		Grouping: req.Grouping,
		Width:    req.Width,
		Height:   req.Height,
		MaxTicks: req.MaxTicks,
		Seed:     req.Seed,
	}
	if len(req.Filter) > 0 {
		opts.Filter = make(map[string]bool, len(req.Filter))
		for _, id := range req.Filter {
			opts.Filter[id] = true
		}
	}
	return opts
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout computes a full layout for an inline document.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	g := model.ToGraph(req.Document)
	result, err := s.runner.ComputeLayout(r.Context(), g, req.options())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGroup runs grouping only, without simulating. The UI uses this to
// preview meta-nodes while the user edits layer configuration.
func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	metas := group.Generate(req.Document.Nodes, req.Grouping)
	writeJSON(w, http.StatusOK, map[string]any{"meta_nodes": metas})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p store.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if p.Name == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "project name is required"))
		return
	}
	if err := s.store.Create(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var p store.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	p.ID = chi.URLParam(r, "projectID")
	if err := s.store.Update(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProjectLayout computes a layout from a stored project's document and
// settings. Request-body options override the stored ones field by field.
func (s *Server) handleProjectLayout(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	req := layoutRequest{
		Document: p.Document,
		Grouping: p.Grouping,
		Width:    p.Width,
		Height:   p.Height,
	}
	if r.ContentLength > 0 {
		var override layoutRequest
		if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
			return
		}
		if override.Grouping.Enabled || len(override.Grouping.Layers) > 0 {
			req.Grouping = override.Grouping
		}
		if override.Width > 0 {
			req.Width = override.Width
		}
		if override.Height > 0 {
			req.Height = override.Height
		}
		req.Filter = override.Filter
		req.MaxTicks = override.MaxTicks
		req.Seed = override.Seed
	}

	g := model.ToGraph(req.Document)
	result, err := s.runner.ComputeLayout(r.Context(), g, req.options())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
