package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hearthfam/hearth/internal/auth"
	"github.com/hearthfam/hearth/internal/store"
)

const sessionCookieName = "hearth_session"

// RequireAuth validates the session cookie, resolves the caller's user and
// family, and populates auth.Identity. Requests without a valid session get
// a 401 JSON error before any handler or storage code runs.
func RequireAuth(sessionStore *store.SessionStore, userStore *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			user, err := userStore.GetByID(sess.UserID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			ident := auth.Identity{UserID: user.ID}
			if user.FamilyID != nil {
				ident.FamilyID = *user.FamilyID
			}

			ctx := auth.WithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
