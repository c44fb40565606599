package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/diff"
	"github.com/bjaus/gridconv/internal/share"
	"github.com/bjaus/gridconv/internal/templates"
	"github.com/bjaus/gridconv/internal/xlsx"
)

type gridResponse struct {
	Data   gridconv.Grid  `json:"data"`
	Stats  gridconv.Stats `json:"stats"`
	Output string         `json:"output,omitempty"`
}

func newGridResponse(g gridconv.Grid) gridResponse {
	if g == nil {
		g = gridconv.Grid{}
	}
	return gridResponse{Data: g, Stats: g.Stats()}
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, gridconv.Infos())
}

type parseRequest struct {
	Text   string          `json:"text"`
	Format gridconv.Format `json:"format"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	f, err := formatOrDefault(req.Format, gridconv.CSV)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	g, err := gridconv.Parse(req.Text, f)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGridResponse(g))
}

type generateRequest struct {
	Data   gridconv.Grid   `json:"data"`
	Format gridconv.Format `json:"format"`
}

type outputResponse struct {
	Output string          `json:"output"`
	Format gridconv.Format `json:"format"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	f, err := formatOrDefault(req.Format, gridconv.CSV)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outputResponse{Output: gridconv.Generate(f, req.Data), Format: f})
}

type convertRequest struct {
	Text string          `json:"text"`
	From gridconv.Format `json:"from"`
	To   gridconv.Format `json:"to"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	from, err := formatOrDefault(req.From, gridconv.CSV)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	to, err := formatOrDefault(req.To, gridconv.JSON)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	start := time.Now()
	g, err := gridconv.Parse(req.Text, from)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	resp := newGridResponse(g)
	resp.Output = gridconv.Generate(to, g)
	s.log.Converted(string(from), string(to), g.Len(), time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}

type downloadRequest struct {
	Data   gridconv.Grid   `json:"data"`
	Format gridconv.Format `json:"format"`
	Name   string          `json:"name"`
}

// handleDownload returns the grid as a file in the requested format.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	f, err := formatOrDefault(req.Format, gridconv.CSV)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	info := f.Info()
	w.Header().Set("Content-Type", info.MIMEType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(req.Name, "table", info.Extension))
	_ = gridconv.Write(w, f, req.Data)
}

type xlsxRequest struct {
	Data  gridconv.Grid `json:"data"`
	Name  string        `json:"name"`
	Sheet string        `json:"sheet"`
}

func (s *Server) handleXLSXWrite(w http.ResponseWriter, r *http.Request) {
	var req xlsxRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WriteGrid(&buf, req.Data, req.Sheet); err != nil {
		s.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsx.MIMEType)
	w.Header().Set("Content-Disposition", attachment(req.Name, "table", "xlsx"))
	_, _ = w.Write(buf.Bytes())
}

// handleXLSXRead reads a workbook from the request body.
func (s *Server) handleXLSXRead(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := xlsx.ReadGrid(bytes.NewReader(data), r.URL.Query().Get("sheet"))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newGridResponse(g))
}

type diffRequest struct {
	Before gridconv.Grid   `json:"before"`
	After  gridconv.Grid   `json:"after"`
	Format gridconv.Format `json:"format"`
}

type diffResponse struct {
	Unified string        `json:"unified"`
	Changes []diff.Change `json:"changes"`
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	f, err := formatOrDefault(req.Format, gridconv.CSV)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	changes := diff.Cells(req.Before, req.After)
	if changes == nil {
		changes = []diff.Change{}
	}
	writeJSON(w, http.StatusOK, diffResponse{
		Unified: diff.Unified("before."+f.Info().Extension, "after."+f.Info().Extension, req.Before, req.After, f),
		Changes: changes,
	})
}

type shareRequest struct {
	Data   gridconv.Grid   `json:"data"`
	Format gridconv.Format `json:"format"`
	Base   string          `json:"base"`
}

type shareResponse struct {
	ID       string `json:"id"`
	Link     string `json:"link,omitempty"`
	Embed    string `json:"embed,omitempty"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	if req.Data.Empty() {
		writeError(w, http.StatusBadRequest, "no table data to share")
		return
	}
	f, err := formatOrDefault(req.Format, gridconv.CSV)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	msg := share.Message(gridconv.Generate(f, req.Data))
	resp := shareResponse{
		ID:       share.NewID(),
		Email:    share.EmailURL("", msg),
		WhatsApp: share.WhatsAppURL(msg),
	}
	if req.Base != "" {
		resp.Link = share.Link(req.Base, resp.ID)
		resp.Embed = share.Embed(req.Base, resp.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list := templates.All()
	if r.URL.Query().Get("popular") == "true" {
		list = templates.Popular()
	}
	if c := r.URL.Query().Get("category"); c != "" {
		var filtered []templates.Template
		for _, t := range list {
			if strings.EqualFold(t.Category, c) {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}
	if list == nil {
		list = []templates.Template{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := templates.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type sampleResponse struct {
	Format gridconv.Format `json:"format"`
	Text   string          `json:"text"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	f, err := gridconv.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sampleResponse{Format: f, Text: templates.Sample(f)})
}

// attachment builds a Content-Disposition header for name.ext, falling back
// to def when name is empty.
func attachment(name, def, ext string) string {
	name = strings.TrimSpace(path.Base("/" + name))
	if name == "/" || name == "" || name == "." {
		name = def
	}
	name = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(name)
	if !strings.HasSuffix(strings.ToLower(name), "."+ext) {
		name += "." + ext
	}
	return fmt.Sprintf(`attachment; filename="%s"`, name)
}
