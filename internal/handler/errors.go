package handler

import (
	"errors"
	"net/http"

	"techdocs/internal/domain"
	"techdocs/internal/httputil"
)

// respondError maps domain errors to HTTP responses. Validation errors
// carry their specific message; not-found and storage failures get the
// fixed external messages, with the storage cause logged server-side.
func (h *DocumentHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "Document not found")

	case errors.Is(err, domain.ErrStorage):
		h.logger.Error("database error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "Database operation failed")

	default:
		var httpErr domain.HTTPError
		if errors.As(err, &httpErr) {
			httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
			return
		}

		h.logger.Error("unexpected error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
