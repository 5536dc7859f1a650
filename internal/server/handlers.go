package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/handiism/f1rdf/internal/export"
	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/logging"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/session"
)

// Response headers describing a batch outcome.
const (
	headerFailed = "X-F1RDF-Failed-Sections"
	headerEmpty  = "X-F1RDF-Empty-Sections"
)

type sectionJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Shape string `json:"shape"`
}

type sessionJSON struct {
	Name    string    `json:"name"`
	Start   time.Time `json:"start"`
	HasTime bool      `json:"has_time"`
}

type eventJSON struct {
	Season   int           `json:"season"`
	Round    int           `json:"round"`
	Name     string        `json:"name"`
	Circuit  string        `json:"circuit"`
	Locality string        `json:"locality"`
	Country  string        `json:"country"`
	Date     time.Time     `json:"date"`
	Format   string        `json:"format"`
	Sessions []sessionJSON `json:"sessions"`
}

func toEventJSON(e model.Event) eventJSON {
	out := eventJSON{
		Season:   e.Season,
		Round:    e.Round,
		Name:     e.Name,
		Circuit:  e.Circuit,
		Locality: e.Locality,
		Country:  e.Country,
		Date:     e.Date,
		Format:   "conventional",
		Sessions: make([]sessionJSON, 0, len(e.Sessions)),
	}
	if e.IsSprint() {
		out.Format = "sprint"
	}
	for _, s := range e.Sessions {
		out.Sessions = append(out.Sessions, sessionJSON{Name: s.Name, Start: s.Start, HasTime: s.HasTime})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	all := s.registry.All()
	out := make([]sectionJSON, 0, len(all))
	for _, d := range all {
		out = append(out, sectionJSON{ID: d.ID, Label: d.Label, Icon: d.Icon, Shape: d.Shape.String()})
	}
	writeJSON(w, r, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	season, ok := s.parseSeason(w, r)
	if !ok {
		return
	}
	events, err := s.calendar.Schedule(r.Context(), season)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, codeUpstream, err.Error())
		return
	}
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, toEventJSON(e))
	}
	writeJSON(w, r, out)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	key, ok := s.parseKey(w, r)
	if !ok {
		return
	}
	cache, ok := s.runBatch(w, r, key, s.registry.ParseList(r.URL.Query().Get("sections")))
	if !ok {
		return
	}

	archive, err := export.SerializeArchive(cache, s.registry)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}

	setReportHeaders(w, archive.Report)
	writeDownload(w, r, s.archiveName(r, key), archive.MIMEType(), archive.Data)
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	key, ok := s.parseKey(w, r)
	if !ok {
		return
	}
	cache, ok := s.runBatch(w, r, key, s.registry.ParseList(r.URL.Query().Get("sections")))
	if !ok {
		return
	}

	file, report, err := export.SerializeWorkbook(cache, s.registry)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	setReportHeaders(w, report)
	if file == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	name := strings.TrimSuffix(s.archiveName(r, key), ".zip") + export.WorkbookExtension
	writeDownload(w, r, name, file.MIMEType, file.Data)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	key, ok := s.parseKey(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "section")
	desc, known := s.registry.Get(id)
	if !known {
		writeError(w, r, http.StatusNotFound, codeUnknownSection, fmt.Sprintf("unknown section %q", id))
		return
	}

	cache, ok := s.runBatch(w, r, key, []string{id})
	if !ok {
		return
	}

	o, _ := cache.Get(id)
	switch o.Status {
	case model.StatusFailure:
		writeErrorBody(w, r, http.StatusBadGateway, errorBody{Error: o.Message, Code: codeUpstream, Section: id})
		return
	case model.StatusEmpty:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	file, err := export.SerializeOne(id, o, desc)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	if file == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeDownload(w, r, file.Name, file.MIMEType, file.Data)
}

// runBatch fetches ids for key, writing a 400 response for an empty or
// invalid selection.
func (s *Server) runBatch(w http.ResponseWriter, r *http.Request, key model.SelectionKey, ids []string) (*session.Cache, bool) {
	cache, err := s.orchestrator.RunBatch(r.Context(), ids, key, nil)
	switch {
	case errors.Is(err, fetch.ErrNothingSelected):
		writeError(w, r, http.StatusBadRequest, codeNoSections, "no sections selected")
		return nil, false
	case errors.Is(err, fetch.ErrUnknownSection):
		writeError(w, r, http.StatusBadRequest, codeUnknownSection, err.Error())
		return nil, false
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return nil, false
	}
	return cache, true
}

// archiveName names the download after the event, falling back to the
// round number when the calendar lookup fails.
func (s *Server) archiveName(r *http.Request, key model.SelectionKey) string {
	if s.calendar != nil {
		e, err := s.calendar.EventByRound(r.Context(), key)
		if err == nil {
			return export.ArchiveName(key.Season, e.Name)
		}
		logging.FromContext(r.Context()).Warn("event lookup failed", "key", key.String(), "error", err)
	}
	return export.ArchiveName(key.Season, fmt.Sprintf("Round %d", key.Round))
}

func (s *Server) parseSeason(w http.ResponseWriter, r *http.Request) (int, bool) {
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil || season < 1950 {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("invalid season %q", chi.URLParam(r, "season")))
		return 0, false
	}
	return season, true
}

func (s *Server) parseKey(w http.ResponseWriter, r *http.Request) (model.SelectionKey, bool) {
	season, ok := s.parseSeason(w, r)
	if !ok {
		return model.SelectionKey{}, false
	}
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	key := model.SelectionKey{Season: season, Round: round}
	if err != nil || !key.Valid() {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("invalid round %q", chi.URLParam(r, "round")))
		return model.SelectionKey{}, false
	}
	return key, true
}

func setReportHeaders(w http.ResponseWriter, report export.Report) {
	if len(report.Failed) > 0 {
		ids := make([]string, len(report.Failed))
		for i, f := range report.Failed {
			ids[i] = f.ID
		}
		w.Header().Set(headerFailed, strings.Join(ids, ","))
	}
	if len(report.Empty) > 0 {
		w.Header().Set(headerEmpty, strings.Join(report.Empty, ","))
	}
}

func writeDownload(w http.ResponseWriter, r *http.Request, name, mimeType string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		logging.FromContext(r.Context()).Warn("download write failed", "file", name, "error", err)
	}
}
