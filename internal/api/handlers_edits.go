package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/freewrite/internal/editor"
	"github.com/dgallion1/freewrite/internal/suggest"
)

const noEditsNotice = "No edits needed"

func (s *Server) handleRequestEdits(w http.ResponseWriter, r *http.Request) {
	rep, err := s.session.RequestEdits(withCredential(r))
	s.writeReport(w, rep, err)
}

func (s *Server) handleSpanEdits(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Highlighted string `json:"highlighted"`
		Instruction string `json:"instruction"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	rep, err := s.session.RequestSpanEdits(withCredential(r), body.Highlighted, body.Instruction)
	s.writeReport(w, rep, err)
}

func (s *Server) writeReport(w http.ResponseWriter, rep editor.Report, err error) {
	switch {
	case errors.Is(err, editor.ErrNoEdits):
		writeJSON(w, http.StatusOK, map[string]any{
			"staged": []editor.StagedEdit{},
			"notice": noEditsNotice,
		})
	case err != nil:
		s.editorError(w, err)
	default:
		if rep.Staged == nil {
			rep.Staged = []editor.StagedEdit{}
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	e, err := s.session.Accept(r.Context(), chi.URLParam(r, "id"))
	s.writeResolved(w, e, err)
}

func (s *Server) handleDecline(w http.ResponseWriter, r *http.Request) {
	e, err := s.session.Decline(r.Context(), chi.URLParam(r, "id"))
	s.writeResolved(w, e, err)
}

func (s *Server) writeResolved(w http.ResponseWriter, e editor.StagedEdit, err error) {
	if err != nil {
		s.editorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"edit":     e,
		"document": s.session.Snapshot(),
	})
}

func (s *Server) handleAcceptAll(w http.ResponseWriter, r *http.Request) {
	writeBatch(w, s.session.AcceptAll(r.Context()), s.session.Snapshot())
}

func (s *Server) handleDeclineAll(w http.ResponseWriter, r *http.Request) {
	writeBatch(w, s.session.DeclineAll(r.Context()), s.session.Snapshot())
}

func writeBatch(w http.ResponseWriter, edits []editor.StagedEdit, snap editor.Snapshot) {
	if edits == nil {
		edits = []editor.StagedEdit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"edits":    edits,
		"count":    len(edits),
		"document": snap,
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	undone, err := s.session.Undo(r.Context())
	if err != nil {
		s.editorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"undone":   undone,
		"document": s.session.Snapshot(),
	})
}

func decodeSelection(w http.ResponseWriter, r *http.Request) (editor.Selection, bool) {
	var sel editor.Selection
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&sel); err != nil {
		jsonError(w, "invalid selection: "+err.Error(), http.StatusBadRequest)
		return sel, false
	}
	return sel, true
}

// editorError maps session errors onto HTTP statuses. Source failures
// carry the notice meant for the user.
func (s *Server) editorError(w http.ResponseWriter, err error) {
	var srcErr *editor.SourceError
	switch {
	case errors.Is(err, suggest.ErrMissingAPIKey):
		jsonError(w, suggest.MissingKeyNotice, http.StatusBadRequest)
	case errors.As(err, &srcErr):
		jsonError(w, srcErr.Notice(), http.StatusBadGateway)
	case errors.Is(err, editor.ErrConcurrentEdit), errors.Is(err, editor.ErrBusy),
		errors.Is(err, editor.ErrInvalidTransition):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, editor.ErrEditNotFound), errors.Is(err, editor.ErrSpanNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, editor.ErrInvalidSelection), errors.Is(err, editor.ErrMissingInstruction),
		errors.Is(err, editor.ErrEmptyDocument):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled):
		jsonError(w, "request canceled", http.StatusServiceUnavailable)
	default:
		s.log.Error("editor operation failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
