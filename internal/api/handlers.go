package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/nexusedu/studygen/internal/notes"
	"github.com/nexusedu/studygen/internal/pipeline"
	"github.com/nexusedu/studygen/internal/render"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "online",
		"mode":   "PDF Processing Ready",
	})
}

func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		jsonError(w, "file must be a PDF", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	record, err := s.processor.Process(r.Context(), filename, data)
	if err != nil {
		var rej *pipeline.RejectedError
		if errors.As(err, &rej) {
			jsonError(w, rej.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("document analysis failed", "filename", filename, "error", err)
		jsonError(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename": filename,
		"analysis": record,
	})
}

type exportRequest struct {
	Data     notes.MasterRecord `json:"data"`
	Filename string             `json:"filename"`
}

func (s *Server) handleGenerateExcel(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExport(w, r)
	if !ok {
		return
	}

	data, err := render.Excel(req.Data)
	if err != nil {
		s.log.Error("excel render failed", "error", err)
		jsonError(w, "failed to generate spreadsheet", http.StatusInternalServerError)
		return
	}

	name := exportName(req.Filename, "_Analysis.xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExport(w, r)
	if !ok {
		return
	}

	data, err := render.PDF(req.Data, time.Now())
	if err != nil {
		s.log.Error("pdf render failed", "error", err)
		jsonError(w, "failed to generate document", http.StatusInternalServerError)
		return
	}

	name := exportName(req.Filename, "_StudyGuide.pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.List(r.Context())
	if err != nil {
		s.log.Error("history list failed", "error", err)
		jsonError(w, "failed to read history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		s.log.Error("history clear failed", "error", err)
		jsonError(w, "failed to clear history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeExport(w http.ResponseWriter, r *http.Request) (exportRequest, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid export request: "+err.Error(), http.StatusBadRequest)
		return exportRequest{}, false
	}
	if req.Filename == "" {
		req.Filename = "document.pdf"
	}
	return req, true
}

func exportName(uploadName, suffix string) string {
	base := sanitizeFilename(uploadName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "document"
	}
	return base + suffix
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes the one error shape used across the API.
func jsonError(w http.ResponseWriter, detail string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error":  true,
		"detail": detail,
	})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
