package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/store"
)

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.tables.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if tables == nil {
		tables = []store.SavedTable{}
	}
	writeJSON(w, http.StatusOK, tables)
}

type createTableRequest struct {
	Name   string          `json:"name"`
	Data   gridconv.Grid   `json:"data"`
	Format gridconv.Format `json:"format"`
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	f, err := formatOrDefault(req.Format, gridconv.CSV)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	t, err := s.tables.Add(r.Context(), req.Name, req.Data, f)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.TableSaved(t.ID, t.Name)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.tables.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type updateTableRequest struct {
	Name   *string         `json:"name"`
	Data   gridconv.Grid   `json:"data"`
	Format gridconv.Format `json:"format"`
}

// handleUpdateTable renames a table and/or replaces its data.
func (s *Server) handleUpdateTable(w http.ResponseWriter, r *http.Request) {
	var req updateTableRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	t, err := s.tables.Get(ctx, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if req.Name != nil {
		if t, err = s.tables.Rename(ctx, id, *req.Name); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	if req.Data != nil {
		f, err := formatOrDefault(req.Format, t.Format)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		if t, err = s.tables.Update(ctx, id, req.Data, f); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.tables.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.TableDeleted(t.ID)
	w.WriteHeader(http.StatusNoContent)
}
