package google

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/rest"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

var ErrUnauthenticated = errors.New("google calendar is not connected, authentication is required")

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type googleAuthStatus struct {
	Connected bool `json:"connected"`
}

// Auth holds the OAuth2 token used to read the team calendar. It starts from
// the configured refresh token and can be replaced through the consent flow.
type Auth struct {
	oauthConfig *oauth2.Config

	mu     sync.Mutex
	token  *oauth2.Token
	nonces map[string]string
}

func NewAuth(cfg config.Application) *Auth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/integrations/google/auth/callback",
		Scopes:       []string{calendar.CalendarReadonlyScope},
	}
	auth := &Auth{oauthConfig: oauthConfig, nonces: make(map[string]string)}
	if cfg.Google.RefreshToken != "" {
		auth.token = &oauth2.Token{RefreshToken: cfg.Google.RefreshToken}
	}
	return auth
}

func (g *Auth) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != nil
}

// TokenSource refreshes the access token from the stored refresh token when
// it is missing or expired.
func (g *Auth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == nil {
		return nil, ErrUnauthenticated
	}
	return g.oauthConfig.TokenSource(ctx, g.token), nil
}

func (g *Auth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	g.mu.Lock()
	g.nonces[stateNonce] = finalUrl
	g.mu.Unlock()

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	rest.WriteJSON(w, http.StatusOK, googleAuthRedirect{RedirectUrl: u})
}

func (g *Auth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	nonce := r.FormValue("state")

	g.mu.Lock()
	finalUrl, ok := g.nonces[nonce]
	delete(g.nonces, nonce)
	g.mu.Unlock()
	if !ok {
		rest.WriteError(w, http.StatusBadRequest, "Invalid authentication state", "unknown or already used state")
		return
	}

	token, err := g.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
	log.Info("Connected Google Calendar")
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

func (g *Auth) OAuthStatus(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, googleAuthStatus{Connected: g.Authenticated()})
}

func (g *Auth) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.token = nil
	g.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}
