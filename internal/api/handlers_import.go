package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/freewrite/internal/importer"
)

// handleImport replaces the document with an uploaded draft.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !importer.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds maximum size of %d bytes", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	imp, err := importer.ForFile(filename, importer.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	draft, err := imp.Import(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("draft import failed", "filename", filename, "error", err)
		jsonError(w, "failed to import draft: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if int64(len(draft.Markup)) > s.cfg.MaxDocumentBytes {
		jsonError(w, "imported draft is too large", http.StatusRequestEntityTooLarge)
		return
	}
	if err := s.session.SetMarkup(r.Context(), draft.Markup); err != nil {
		s.editorError(w, err)
		return
	}

	s.log.Info("draft imported", "filename", filename, "title", draft.Title, "bytes", len(data))
	writeJSON(w, http.StatusOK, map[string]any{
		"filename": filename,
		"title":    draft.Title,
		"document": s.session.Snapshot(),
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
