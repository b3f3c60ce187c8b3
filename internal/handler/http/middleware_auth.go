package http

import (
	"net/http"
	"strings"
)

// checkToken rejects requests whose bearer token does not match the
// configured one. An unconfigured (empty) token disables the check, which is
// the usual mode for local development.
func (h *Handler) checkToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			h.logger.Err(err).Str("func", "*Handler.checkToken").Msg("credential rejected")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Bad credentials"})
			return
		}
		if token != h.token {
			h.logger.Err(ErrWrongToken).Str("func", "*Handler.checkToken").Msg("credential rejected")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Bad credentials"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	return parts[1], nil
}
