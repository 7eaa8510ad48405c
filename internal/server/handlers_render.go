package server

import (
	"encoding/json"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/types"
)

// handleExportResume renders a stored résumé in the requested format.
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ownedResume(r.Context(), middleware.IdentityFrom(r), r.PathValue("id"))
	if err != nil {
		failure(w, err)
		return
	}
	s.writeExport(w, r, rec)
}

// handleRender renders the record in the body without storing it, so the
// editor can export unsaved changes.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := readResumeBody(r, w)
	if err != nil {
		failure(w, err)
		return
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(body, &record); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	record.Reconcile()
	s.writeExport(w, r, &record)
}

// exportLocale picks the label language: ?locale=, then the configured
// default, then Accept-Language. ResolveLocale falls back to French.
func (s *Server) exportLocale(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	if s.export.Locale != "" {
		return s.export.Locale
	}
	return r.Header.Get("Accept-Language")
}

// writeExport renders rec per the ?format=, ?locale= and ?page= query
// parameters and sends it as an attachment.
func (s *Server) writeExport(w http.ResponseWriter, r *http.Request, rec *types.ResumeRecord) {
	q := r.URL.Query()
	format, err := rendering.ParseFormat(q.Get("format"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := rendering.ParsePageSize(q.Get("page"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	doc := rendering.Render(rec, rendering.Options{Locale: s.exportLocale(r), Page: page})
	data, err := rendering.Export(r.Context(), doc, format, rendering.ExportOptions{
		PDF: rendering.PDFOptions{
			ChromePath: s.export.ChromePath,
			Engine:     s.export.PDFEngine,
			Verbose:    s.export.Verbose,
		},
		LaTeXTemplate: s.export.LaTeXTemplate,
	})
	if err != nil {
		log.Printf("[export] %s export of %q failed: %v", format, rec.Title, err)
		failure(w, err)
		return
	}

	filename := rendering.Filename(rec.Title, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[export] failed to write %s: %v", filename, err)
		return
	}
	log.Printf("[export] %s (%d bytes, %s) in %v", filename, len(data), doc.Locale, time.Since(start))
}
