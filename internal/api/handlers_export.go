package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/whatwouldciwdo/tor-sub000/internal/export"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)

	var req export.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Assemble fully before touching the response so a failure can still
	// produce a clean JSON error.
	var buf bytes.Buffer
	if err := s.exporter.Export(r.Context(), &req, &buf); err != nil {
		s.log.Error("export failed", "document", req.Number, "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("response write interrupted", "document", req.Number, "error", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
