package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/polyglot/middlewares"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

type languagesResponse struct {
	Default   i18n.Lang   `json:"default"`
	Supported []i18n.Lang `json:"supported"`
}

type messageResponse struct {
	Lang    i18n.Lang `json:"lang"`
	Key     string    `json:"key"`
	Message string    `json:"message"`
	Defined bool      `json:"defined"`
}

type firstMessageRequest struct {
	Lang string   `json:"lang"`
	Keys []string `json:"keys"`
	Args []any    `json:"args"`
}

type firstMessageResponse struct {
	Lang    i18n.Lang `json:"lang"`
	Keys    []string  `json:"keys"`
	Message string    `json:"message"`
	Defined bool      `json:"defined"`
}

type langResponse struct {
	Lang i18n.Lang `json:"lang"`
}

type reloadResponse struct {
	LoadedAt  time.Time   `json:"loaded_at"`
	Languages []i18n.Lang `json:"languages"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{
		Default:   s.api.DefaultLanguage(),
		Supported: s.api.Languages(),
	})
}

// handleMessage renders one key with ?arg= positional arguments.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	msgs := s.messages(r)
	key := chi.URLParam(r, "key")

	raw := r.URL.Query()["arg"]
	args := make([]any, len(raw))
	for i, v := range raw {
		args[i] = parseArg(v)
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Lang:    msgs.Lang(),
		Key:     key,
		Message: msgs.GetArgs(key, args),
		Defined: msgs.IsDefinedAt(key),
	})
}

// handleFirstMessage renders the first defined key of the body.
func (s *Server) handleFirstMessage(w http.ResponseWriter, r *http.Request) {
	var req firstMessageRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	msgs := s.messages(r)
	if req.Lang != "" {
		lang, err := i18n.ParseLang(req.Lang)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		msgs = s.api.Preferred(lang)
	}

	defined := false
	for _, k := range req.Keys {
		if msgs.IsDefinedAt(k) {
			defined = true
			break
		}
	}

	writeJSON(w, http.StatusOK, firstMessageResponse{
		Lang:    msgs.Lang(),
		Keys:    req.Keys,
		Message: msgs.GetFirstArgs(req.Keys, normalizeArgs(req.Args)),
		Defined: defined,
	})
}

// handleNegotiate picks the best supported language for ?candidates=a,b.
func (s *Server) handleNegotiate(w http.ResponseWriter, r *http.Request) {
	var tags []string
	for _, part := range strings.Split(r.URL.Query().Get("candidates"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}

	msgs, err := s.api.PreferredTags(tags...)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, langResponse{Lang: msgs.Lang()})
}

// handleSetLang stores an explicit, supported language choice in the cookie.
func (s *Server) handleSetLang(w http.ResponseWriter, r *http.Request) {
	lang, err := i18n.ParseLang(chi.URLParam(r, "tag"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !s.api.IsSupported(lang) {
		s.writeError(w, r, http.StatusUnprocessableEntity, "unsupported language: "+lang.String())
		return
	}

	s.cookie.Set(w, lang.String())
	writeJSON(w, http.StatusOK, langResponse{Lang: lang})
}

func (s *Server) handleClearLang(w http.ResponseWriter, _ *http.Request) {
	s.cookie.Delete(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Reload(r.Context()); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "reload failed")
		return
	}

	cat := s.api.Catalog()
	writeJSON(w, http.StatusOK, reloadResponse{
		LoadedAt:  cat.LoadedAt(),
		Languages: cat.Languages(),
	})
}

// messages returns the request-bound Messages, negotiating directly when
// the I18n middleware did not run.
func (s *Server) messages(r *http.Request) i18n.Messages {
	if msgs, ok := middlewares.GetMessages(r.Context()); ok {
		return msgs
	}
	return s.api.PreferredRequest(i18n.NewHTTPRequest(r))
}

// parseArg turns a query argument into an int64, a float64 or a string.
func parseArg(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

func normalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if n, ok := a.(json.Number); ok {
			out[i] = parseArg(n.String())
			continue
		}
		out[i] = a
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.Int("status", status),
			slog.String("error", msg),
		)
	}
	writeJSON(w, status, errorResponse{Error: msg, RequestID: middlewares.GetRequestID(r.Context())})
}
