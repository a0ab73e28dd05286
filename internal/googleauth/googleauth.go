// Package googleauth wraps the Google OAuth 2.0 web flow used for sign-in
// and supplies token sources for the calendar adapter.
package googleauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type Config struct {
	ClientID     string
	ClientSecret string
	// BaseURL is the externally visible origin, e.g. http://localhost:8080.
	// The callback is registered at <BaseURL>/auth/google/callback.
	BaseURL string
}

// Profile is the subset of the Google userinfo response the bootstrap needs.
type Profile struct {
	Email string
	Name  string
}

type Service struct {
	conf *oauth2.Config
}

func NewService(cfg Config) *Service {
	return &Service{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     googleoauth.Endpoint,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes: []string{
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
				calendar.CalendarReadonlyScope,
			},
		},
	}
}

// Enabled reports whether Google credentials are configured.
func (s *Service) Enabled() bool {
	return s.conf.ClientID != "" && s.conf.ClientSecret != ""
}

// AuthURL returns the consent-screen URL for the given state nonce.
// Offline access is requested so a refresh token is issued for the
// calendar adapter.
func (s *Service) AuthURL(state string) string {
	return s.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange auth code: %w", err)
	}
	return tok, nil
}

// Userinfo fetches the signed-in user's email and display name.
func (s *Service) Userinfo(ctx context.Context, tok *oauth2.Token) (*Profile, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(s.conf.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create oauth2 service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}
	return &Profile{Email: info.Email, Name: info.Name}, nil
}

// TokenSource returns a self-refreshing token source for a stored token.
func (s *Service) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return s.conf.TokenSource(ctx, tok)
}
