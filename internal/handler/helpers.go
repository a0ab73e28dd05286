package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hearthfam/hearth/internal/auth"
)

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func parseIDQuery(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireIdentity resolves the caller, failing closed with 401 when the
// middleware did not authenticate the request.
func requireIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return auth.Identity{}, false
	}
	return ident, true
}

// requireFamily resolves the caller and additionally requires a family
// association. Data operations are meaningless without one, so its absence
// is a request-level error rather than an empty success.
func requireFamily(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return auth.Identity{}, false
	}
	if !ident.InFamily() {
		writeError(w, http.StatusBadRequest, "user not in a family")
		return auth.Identity{}, false
	}
	return ident, true
}
