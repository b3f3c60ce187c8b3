package http

import "net/http"

// getUser answers the authenticated probe. Reaching this handler means the
// token middleware already accepted the credential.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Login string `json:"login"`
	}{Login: "ledger-keeper-stub"})
}
