package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"real_estate/internal/domain"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}

// send writes a success envelope. GET responses carry a weak ETag and answer
// a matching If-None-Match with 304.
func send(w http.ResponseWriter, r *http.Request, data any) {
	etag, body := calcETagAndBody(envelope{Success: true, Data: data})
	if body == nil {
		writeBody(w, http.StatusInternalServerError, []byte(`{"success":false,"message":"Internal server error"}`))
		return
	}
	if r.Method == http.MethodGet && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	writeBody(w, http.StatusOK, body)
}

func created(w http.ResponseWriter, message string, data any) {
	_, body := calcETagAndBody(envelope{Success: true, Message: message, Data: data})
	writeBody(w, http.StatusCreated, body)
}

func done(w http.ResponseWriter, message string, data any) {
	_, body := calcETagAndBody(envelope{Success: true, Message: message, Data: data})
	writeBody(w, http.StatusOK, body)
}

// fail maps err to its HTTP status. Internal error text only leaves the
// process when exposeErrors is set.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := domain.StatusOf(err)
	env := envelope{Success: false, Message: message}
	switch {
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("path", r.URL.Path).Msg(message)
		if h.ExposeErrors {
			env.Error = err.Error()
		}
	default:
		env.Message = publicMessage(err, message)
		env.Error = err.Error()
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			env.Fields = ve.Fields
		}
	}
	_, body := calcETagAndBody(env)
	writeBody(w, status, body)
}

// publicMessage prefers the domain error's own text for client errors.
func publicMessage(err error, fallback string) string {
	var (
		ve *domain.ValidationError
		pe *domain.PermissionError
		ne *domain.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &pe):
		return pe.Message
	case errors.As(err, &ne):
		return ne.Error()
	case errors.Is(err, domain.ErrDuplicateReview):
		return "You have already reviewed this property"
	}
	return fallback
}
