package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dgallion1/freewrite/internal/suggest"
)

const (
	apiKeyCookie = "anthropic_api_key"
	apiKeyMaxAge = 365 * 24 * 60 * 60
)

// handleSetAPIKey stores the caller's model key in an HttpOnly cookie.
// A blank key clears it.
func (s *Server) handleSetAPIKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey *string `json:"apiKey"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&body); err != nil || body.APIKey == nil || *body.APIKey == "" {
		jsonError(w, "API key is required", http.StatusBadRequest)
		return
	}

	cookie := &http.Cookie{
		Name:     apiKeyCookie,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: http.SameSiteStrictMode,
	}
	key := strings.TrimSpace(*body.APIKey)
	if key == "" {
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
		writeJSON(w, http.StatusOK, map[string]string{"message": "API key cleared"})
		return
	}
	cookie.Value = url.QueryEscape(key)
	cookie.MaxAge = apiKeyMaxAge
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, map[string]string{"message": "API key saved successfully"})
}

// handleCheckAPIKey reports whether a key cookie is present without
// revealing it.
func (s *Server) handleCheckAPIKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"hasApiKey": cookieKey(r) != ""})
}

func cookieKey(r *http.Request) string {
	c, err := r.Cookie(apiKeyCookie)
	if err != nil {
		return ""
	}
	key, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return key
}

// withCredential carries the cookie key, if any, to the suggestion source.
func withCredential(r *http.Request) context.Context {
	return suggest.WithAPIKey(r.Context(), cookieKey(r))
}
