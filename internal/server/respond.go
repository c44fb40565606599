package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/store"
)

type errorResponse struct {
	Error  string          `json:"error"`
	Format gridconv.Format `json:"format,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeErr maps domain errors onto status codes. Parse failures are 422 and
// name the format that failed.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var perr *gridconv.ParseError
	switch {
	case errors.As(err, &perr):
		s.log.ParseFailed(string(perr.Format), perr.Err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Format: perr.Format})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNameRequired),
		errors.Is(err, store.ErrEmptyTable),
		errors.Is(err, gridconv.ErrUnsupportedFormat),
		errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

var errBadRequest = errors.New("bad request")

// decode reads a JSON body of at most MaxBodyBytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// formatOrDefault parses a format id, treating an empty one as def.
func formatOrDefault(id gridconv.Format, def gridconv.Format) (gridconv.Format, error) {
	if strings.TrimSpace(string(id)) == "" {
		return def, nil
	}
	return gridconv.ParseFormat(string(id))
}
