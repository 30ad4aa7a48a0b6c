package handlers

import (
	"net/http"

	"golang.org/x/oauth2"

	"fitfam/internal/models"
	"fitfam/internal/service"
)

// AuthHandler handles registration, login and Google sign-in
type AuthHandler struct {
	authService          *service.AuthService
	googleConfig         *oauth2.Config
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler. googleConfig may be nil when
// Google sign-in is not configured.
func NewAuthHandler(authService *service.AuthService, googleConfig *oauth2.Config, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		googleConfig:         googleConfig,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and returns a token for it
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	token, user, err := h.authService.Register(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// Login checks credentials and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	token, user, err := h.authService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}
