package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"fitfam/internal/apperror"
	"fitfam/internal/security"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateTTL     = 10 * time.Minute
)

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// NewGoogleConfig returns the OAuth2 config for Google sign-in, or nil when
// the client credentials are missing
func NewGoogleConfig(clientID, clientSecret string) *oauth2.Config {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// StartGoogle redirects to the Google consent page
func (h *AuthHandler) StartGoogle(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil {
		respondWithAppError(w, r, apperror.BadRequest("Google sign-in is not configured"))
		return
	}

	state := security.GenerateState()
	h.setTempCookie(w, r, oauthStateCookie, state, oauthStateTTL)

	config := *h.googleConfig
	config.RedirectURL = h.oauthRedirectURL(r)

	http.Redirect(w, r, config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleCallback exchanges the authorization code and returns a token for
// the matching user, creating one on first sign-in
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil {
		respondWithAppError(w, r, apperror.BadRequest("Google sign-in is not configured"))
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithAppError(w, r, apperror.BadRequest("Missing authorization code"))
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithAppError(w, r, apperror.BadRequest("Invalid OAuth state"))
		return
	}
	h.clearTempCookie(w, r, oauthStateCookie)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.googleConfig
	config.RedirectURL = h.oauthRedirectURL(r)

	token, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithAppError(w, r, apperror.New(apperror.ErrUnauthorized, "Failed to exchange OAuth code", err))
		return
	}

	info, err := fetchGoogleUser(ctx, token)
	if err != nil {
		respondWithAppError(w, r, apperror.New(apperror.ErrUnauthorized, "Failed to fetch Google user info", err))
		return
	}
	if !info.VerifiedEmail {
		respondWithAppError(w, r, apperror.Unauthorized("Google email is not verified"))
		return
	}

	jwtToken, user, err := h.authService.OAuthLogin(r.Context(), info.Email, info.GivenName, info.FamilyName)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: jwtToken, User: user})
}

func fetchGoogleUser(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to parse Google user info: %w", err)
	}
	return info, nil
}

func (h *AuthHandler) oauthRedirectURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.oauthRedirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/google/callback"
}

func (h *AuthHandler) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearTempCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
