package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/schema"
)

type specimenView struct {
	ID         uuid.UUID               `json:"id"`
	Name       string                  `json:"name"`
	Properties map[string]schema.Value `json:"properties"`
}

type projectView struct {
	Name       string            `json:"name"`
	Path       string            `json:"path"`
	Title      string            `json:"title"`
	Dirty      bool              `json:"dirty"`
	WeightSum  int               `json:"weight_sum"`
	Properties []schema.Property `json:"properties"`
	Specimens  []specimenView    `json:"specimens"`
}

func viewSpecimen(s *schema.Specimen) specimenView {
	return specimenView{ID: s.ID, Name: s.Name, Properties: s.Values}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

func specimenID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, badRequest(fmt.Errorf("invalid specimen id: %w", err))
	}
	return id, nil
}

// getProject handles GET /api/v1/project
func (s *Server) getProject(w http.ResponseWriter, _ *http.Request) {
	view := s.read(func(p *core.Project) any {
		v := projectView{
			Name:       p.Name(),
			Path:       p.Path(),
			Title:      p.Title(),
			Dirty:      p.IsDirty(),
			WeightSum:  p.WeightSum(),
			Properties: p.Properties(),
			Specimens:  []specimenView{},
		}
		for _, sp := range p.Specimens() {
			v.Specimens = append(v.Specimens, viewSpecimen(sp.Clone()))
		}
		return v
	})
	writeJSON(w, http.StatusOK, view)
}

// getRanking handles GET /api/v1/ranking?limit=N
func (s *Server) getRanking(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, badRequest(fmt.Errorf("invalid limit %q", raw)))
			return
		}
		limit = n
	}
	result := s.read(func(p *core.Project) any {
		return core.BuildRankingResult(p, limit, nil)
	})
	writeJSON(w, http.StatusOK, result)
}

// saveProject handles POST /api/v1/save. An empty body saves to the current path.
func (s *Server) saveProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	s.mutate(w, "save", http.StatusOK, func(p *core.Project) (any, error) {
		if err := p.Save(req.Path); err != nil {
			return nil, err
		}
		return map[string]any{"path": p.Path(), "title": p.Title(), "dirty": p.IsDirty()}, nil
	})
}

// listProperties handles GET /api/v1/properties
func (s *Server) listProperties(w http.ResponseWriter, _ *http.Request) {
	props := s.read(func(p *core.Project) any { return p.Properties() })
	writeJSON(w, http.StatusOK, props)
}

// addProperty handles POST /api/v1/properties
func (s *Server) addProperty(w http.ResponseWriter, r *http.Request) {
	var prop schema.Property
	if err := decodeBody(r, &prop); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, "property.add", http.StatusCreated, func(p *core.Project) (any, error) {
		if err := p.AddProperty(prop); err != nil {
			return nil, err
		}
		added, _ := p.Property(prop.Name)
		return added, nil
	})
}

// updateProperty handles PATCH /api/v1/properties/{name}. Every field is
// optional; a rename and a retype in one request apply together or not at all.
func (s *Server) updateProperty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Type     *string `json:"type"`
		Weight   *int    `json:"weight"`
		Strategy *string `json:"normalizationStrategy"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := chi.URLParam(r, "name")

	s.mutate(w, "property.update", http.StatusOK, func(p *core.Project) (any, error) {
		draft, err := p.EditProperty(name)
		if err != nil {
			return nil, err
		}
		if req.Name != nil {
			draft.Name = *req.Name
		}
		if req.Type != nil {
			t, err := schema.ParsePropertyType(*req.Type)
			if err != nil {
				return nil, badRequest(err)
			}
			draft.Type = t
		}
		if req.Weight != nil {
			draft.Weight = *req.Weight
		}
		if req.Strategy != nil {
			strategy, err := schema.ParseStrategy(*req.Strategy)
			if err != nil {
				return nil, badRequest(err)
			}
			draft.Strategy = strategy
		}
		if err := p.CommitProperty(draft); err != nil {
			return nil, err
		}
		updated, _ := p.Property(draft.Original())
		return updated, nil
	})
}

// removeProperty handles DELETE /api/v1/properties/{name}
func (s *Server) removeProperty(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mutate(w, "property.remove", http.StatusNoContent, func(p *core.Project) (any, error) {
		return nil, p.RemoveProperty(name)
	})
}

// addSpecimen handles POST /api/v1/specimens
func (s *Server) addSpecimen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string                  `json:"name"`
		Properties map[string]schema.Value `json:"properties"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, "specimen.add", http.StatusCreated, func(p *core.Project) (any, error) {
		sp, err := p.AddSpecimen(req.Name, req.Properties)
		if err != nil {
			return nil, err
		}
		return viewSpecimen(sp.Clone()), nil
	})
}

// updateSpecimen handles PATCH /api/v1/specimens/{id}. Properties left out of
// the body keep their value.
func (s *Server) updateSpecimen(w http.ResponseWriter, r *http.Request) {
	id, err := specimenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Name       *string                 `json:"name"`
		Properties map[string]schema.Value `json:"properties"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mutate(w, "specimen.update", http.StatusOK, func(p *core.Project) (any, error) {
		draft, err := p.EditSpecimen(id)
		if err != nil {
			return nil, err
		}
		if req.Name != nil {
			draft.Name = *req.Name
		}
		draft.Values = req.Properties
		if err := p.CommitSpecimen(draft); err != nil {
			return nil, err
		}
		sp, _ := p.Specimen(id)
		return viewSpecimen(sp.Clone()), nil
	})
}

// removeSpecimen handles DELETE /api/v1/specimens/{id}
func (s *Server) removeSpecimen(w http.ResponseWriter, r *http.Request) {
	id, err := specimenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, "specimen.remove", http.StatusNoContent, func(p *core.Project) (any, error) {
		return nil, p.RemoveSpecimen(id)
	})
}
