package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-layout/internal/rendering"
	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/jonathan/resume-layout/internal/validation"
	"gopkg.in/yaml.v3"
)

// RenderRequest is the body of /render, /validate and POST /documents
type RenderRequest struct {
	Record json.RawMessage `json:"record"`
	// Style names a built-in profile; Profile overrides fields of it
	Style   string          `json:"style,omitempty"`
	Profile json.RawMessage `json:"profile,omitempty"`
	Format  string          `json:"format,omitempty"`
	// MaxPages is the page budget for /validate
	MaxPages int `json:"max_pages,omitempty"`
}

// renderJob is a decoded and checked RenderRequest
type renderJob struct {
	raw      json.RawMessage
	record   *types.ResumeRecord
	profile  *style.Profile
	format   rendering.Format
	maxPages int
}

// StyleSummary describes a built-in profile in /styles
type StyleSummary struct {
	Name       string             `json:"name"`
	PageWidth  float64            `json:"page_width"`
	PageHeight float64            `json:"page_height"`
	HeaderBand bool               `json:"header_band"`
	Timeline   style.TimelineMode `json:"timeline,omitempty"`
}

// decodeRenderRequest reads and checks the request body. The record is
// validated against the record schema before it is decoded.
func (s *Server) decodeRenderRequest(r *http.Request) (*renderJob, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	var req RenderRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if len(req.Record) == 0 || string(req.Record) == "null" {
		return nil, &ErrValidation{Field: "record", Message: "is required"}
	}
	if req.MaxPages < 0 {
		return nil, &ErrValidation{Field: "max_pages", Message: "must not be negative"}
	}

	if err := schemas.ValidateRecord(req.Record); err != nil {
		return nil, err
	}
	var record types.ResumeRecord
	if err := json.Unmarshal(req.Record, &record); err != nil {
		return nil, &ErrValidation{Field: "record", Message: err.Error()}
	}

	format, err := rendering.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	profile, err := style.Resolve(req.Style, "")
	if err != nil {
		return nil, err
	}
	if len(req.Profile) > 0 && string(req.Profile) != "null" {
		if profile, err = style.Parse(req.Profile, profile); err != nil {
			return nil, err
		}
	}

	maxPages := req.MaxPages
	if maxPages == 0 {
		maxPages = s.maxPages
	}

	return &renderJob{raw: req.Record, record: &record, profile: profile, format: format, maxPages: maxPages}, nil
}

// handleRender returns the rendered document bytes.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	job, err := s.decodeRenderRequest(r)
	if err != nil {
		s.failure(w, err)
		return
	}

	result, err := rendering.Render(job.record, job.profile, job.format)
	if err != nil {
		s.failure(w, err)
		return
	}

	writeDocument(w, result.Format.ContentType(), rendering.FileName(job.record.Basics.Name, result.Format), result.Bytes, result)
}

// handleValidate renders the record and returns the layout violations.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	job, err := s.decodeRenderRequest(r)
	if err != nil {
		s.failure(w, err)
		return
	}

	result, err := rendering.Render(job.record, job.profile, job.format)
	if err != nil {
		s.failure(w, err)
		return
	}

	violations, err := validation.ValidateResult(r.Context(), result, validation.Options{MaxPages: job.maxPages})
	if err != nil {
		s.failure(w, err)
		return
	}

	status := http.StatusOK
	if violations.HasErrors() {
		status = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, status, map[string]any{
		"format":     result.Format,
		"pages":      result.PageCount(),
		"violations": violations.Violations,
	})
}

// handleListStyles lists the built-in profiles.
func (s *Server) handleListStyles(w http.ResponseWriter, _ *http.Request) {
	summaries := []StyleSummary{}
	for _, name := range style.Names() {
		p, err := style.Builtin(name)
		if err != nil {
			s.failure(w, err)
			return
		}
		summaries = append(summaries, StyleSummary{
			Name:       p.Name,
			PageWidth:  p.Page.Width,
			PageHeight: p.Page.Height,
			HeaderBand: p.HeaderBand,
			Timeline:   p.Timeline,
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"styles": summaries, "default": style.DefaultName})
}

// handleGetStyle returns a full built-in profile, as YAML when asked for.
func (s *Server) handleGetStyle(w http.ResponseWriter, r *http.Request) {
	p, err := style.Builtin(r.PathValue("name"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "yaml" {
		out, err := yaml.Marshal(p)
		if err != nil {
			s.failure(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// writeDocument writes document bytes as an attachment. result may be nil
// for stored documents.
func writeDocument(w http.ResponseWriter, contentType, fileName string, content []byte, result *rendering.Result) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	if result != nil {
		if result.Format.Fixed() {
			w.Header().Set("X-Page-Count", strconv.Itoa(result.PageCount()))
		}
		dropped := 0
		for _, d := range result.Drops {
			dropped += len(d.Dropped)
		}
		w.Header().Set("X-Dropped-Characters", strconv.Itoa(dropped))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
