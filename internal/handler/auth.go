package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfam/hearth/internal/family"
	"github.com/hearthfam/hearth/internal/googleauth"
	"github.com/hearthfam/hearth/internal/model"
	"github.com/hearthfam/hearth/internal/store"
)

const (
	sessionCookieName = "hearth_session"
	stateCookieName   = "hearth_oauth_state"
	sessionCookieAge  = 90 * 24 * 60 * 60 // seconds
	stateCookieAge    = 10 * 60
)

type AuthHandler struct {
	google    *googleauth.Service
	bootstrap *family.Bootstrap
	users     *store.UserStore
	families  *store.FamilyStore
	sessions  *store.SessionStore
	logger    *slog.Logger
}

func NewAuthHandler(
	google *googleauth.Service,
	bootstrap *family.Bootstrap,
	us *store.UserStore,
	fs *store.FamilyStore,
	ss *store.SessionStore,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		google:    google,
		bootstrap: bootstrap,
		users:     us,
		families:  fs,
		sessions:  ss,
		logger:    logger,
	}
}

// Login starts the Google OAuth flow: a state nonce goes into a short-lived
// cookie and the browser is sent to the consent screen.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "google sign-in is not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// Callback completes the OAuth flow: state check, code exchange, userinfo
// fetch, family bootstrap, token persistence, session creation.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}
	clearCookie(w, stateCookieName)

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	tok, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth exchange", "error", err)
		writeError(w, http.StatusBadGateway, "sign-in failed")
		return
	}

	profile, err := h.google.Userinfo(r.Context(), tok)
	if err != nil {
		h.logger.Error("fetch userinfo", "error", err)
		writeError(w, http.StatusBadGateway, "sign-in failed")
		return
	}

	user, err := h.bootstrap.SignIn(profile.Email, profile.Name)
	if err != nil {
		h.logger.Error("bootstrap sign-in", "error", err, "email", profile.Email)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var expiry *time.Time
	if !tok.Expiry.IsZero() {
		expiry = &tok.Expiry
	}
	if err := h.users.UpdateGoogleToken(user.ID, tok.AccessToken, tok.RefreshToken, expiry); err != nil {
		// Sign-in still succeeds; only the calendar adapter is affected.
		h.logger.Warn("store google token", "error", err, "user_id", user.ID)
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionCookieAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessions.GetByToken(cookie.Value); err == nil && sess != nil {
			if err := h.sessions.Delete(sess.ID); err != nil {
				h.logger.Error("delete session", "error", err)
			}
		}
	}

	clearCookie(w, sessionCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user and their family.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(ident.UserID)
	if err != nil || user == nil {
		h.logger.Error("load current user", "error", err, "user_id", ident.UserID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var fam *model.Family
	if user.FamilyID != nil {
		fam, err = h.families.GetByID(*user.FamilyID)
		if err != nil {
			h.logger.Error("load family", "error", err, "family_id", *user.FamilyID)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":   user,
		"family": fam,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
