package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handlePutDocument replaces the document. Exactly one of text and markup
// must be set.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   *string `json:"text"`
		Markup *string `json:"markup"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case body.Text != nil && body.Markup != nil:
		jsonError(w, "set either text or markup, not both", http.StatusBadRequest)
		return
	case body.Text != nil:
		err = s.session.SetContent(r.Context(), *body.Text)
	case body.Markup != nil:
		err = s.session.SetMarkup(r.Context(), *body.Markup)
	default:
		jsonError(w, "text or markup is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.editorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleGetInstructions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"instructions": s.session.Instructions()})
}

func (s *Server) handlePutInstructions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Instructions string `json:"instructions"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.session.SetInstructions(r.Context(), body.Instructions); err != nil {
		s.log.Error("failed to save instructions", "error", err)
		jsonError(w, "failed to save instructions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"instructions": body.Instructions})
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	sel, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	text, err := s.session.Copy(sel)
	if err != nil {
		s.editorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sel, ok := decodeSelection(w, r)
	if !ok {
		return
	}
	if err := s.session.Delete(r.Context(), sel); err != nil {
		s.editorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}
