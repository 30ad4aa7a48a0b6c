package handlers

import (
	"net/http"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Middleware  *Middleware
	Auth        *AuthHandler
	Users       *UserHandler
	Families    *FamilyHandler
	Memberships *MembershipHandler
	Workouts    *WorkoutHandler
	Postings    *PostingHandler
	Results     *ResultHandler
	Metrics     http.Handler
}

// RegisterRoutes mounts the API on mux
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	m := h.Middleware

	mux.HandleFunc("GET /health", Health)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Public routes
	mux.HandleFunc("POST /auth/register", m.RateLimit(h.Auth.Register))
	mux.HandleFunc("POST /auth/login", m.RateLimit(h.Auth.Login))
	mux.HandleFunc("GET /auth/google/start", m.RateLimit(h.Auth.StartGoogle))
	mux.HandleFunc("GET /auth/google/callback", m.RateLimit(h.Auth.GoogleCallback))

	// Users
	mux.HandleFunc("GET /users", m.RequireAdmin(h.Users.List))
	mux.HandleFunc("POST /users", m.RequireAdmin(h.Users.Create))
	mux.HandleFunc("GET /users/{id}", m.RequireAuth(h.Users.Get))
	mux.HandleFunc("PATCH /users/{id}", m.RequireAuth(h.Users.Update))
	mux.HandleFunc("DELETE /users/{id}", m.RequireAuth(h.Users.Delete))

	// Families
	mux.HandleFunc("GET /families", m.RequireAuth(h.Families.List))
	mux.HandleFunc("POST /families", m.RequireAuth(h.Families.Create))
	mux.HandleFunc("POST /families/join", m.RequireAuth(h.Families.Join))
	mux.HandleFunc("GET /families/{id}", m.RequireAuth(h.Families.Get))
	mux.HandleFunc("PATCH /families/{id}", m.RequireAuth(h.Families.Update))
	mux.HandleFunc("DELETE /families/{id}", m.RequireAuth(h.Families.Delete))

	// Memberships
	mux.HandleFunc("GET /memberships", m.RequireAuth(h.Memberships.List))
	mux.HandleFunc("POST /memberships", m.RequireAuth(h.Memberships.Create))
	mux.HandleFunc("GET /memberships/{userId}/{familyId}", m.RequireAuth(h.Memberships.Get))
	mux.HandleFunc("PATCH /memberships/{userId}/{familyId}", m.RequireAuth(h.Memberships.Update))
	mux.HandleFunc("DELETE /memberships/{userId}/{familyId}", m.RequireAuth(h.Memberships.Delete))

	// Workouts and movements
	mux.HandleFunc("GET /workouts", m.RequireAuth(h.Workouts.List))
	mux.HandleFunc("POST /workouts", m.RequireAuth(h.Workouts.Create))
	mux.HandleFunc("GET /workouts/{id}", m.RequireAuth(h.Workouts.Get))
	mux.HandleFunc("PATCH /workouts/{id}", m.RequireAuth(h.Workouts.Update))
	mux.HandleFunc("DELETE /workouts/{id}", m.RequireAuth(h.Workouts.Delete))
	mux.HandleFunc("GET /movements", m.RequireAuth(h.Workouts.ListMovements))

	// Postings
	mux.HandleFunc("GET /postings", m.RequireAuth(h.Postings.List))
	mux.HandleFunc("POST /postings", m.RequireAuth(h.Postings.Create))
	mux.HandleFunc("GET /postings/{id}", m.RequireAuth(h.Postings.Get))
	mux.HandleFunc("PATCH /postings/{id}", m.RequireAuth(h.Postings.Update))
	mux.HandleFunc("DELETE /postings/{id}", m.RequireAuth(h.Postings.Delete))

	// Results and comments
	mux.HandleFunc("GET /results", m.RequireAuth(h.Results.List))
	mux.HandleFunc("POST /results", m.RequireAuth(h.Results.Create))
	mux.HandleFunc("GET /results/{id}", m.RequireAuth(h.Results.Get))
	mux.HandleFunc("PATCH /results/{id}", m.RequireAuth(h.Results.Update))
	mux.HandleFunc("DELETE /results/{id}", m.RequireAuth(h.Results.Delete))
	mux.HandleFunc("GET /comments", m.RequireAuth(h.Results.ListComments))
	mux.HandleFunc("POST /comments", m.RequireAuth(h.Results.CreateComment))
	mux.HandleFunc("GET /comments/{id}", m.RequireAuth(h.Results.GetComment))
	mux.HandleFunc("PATCH /comments/{id}", m.RequireAuth(h.Results.UpdateComment))
	mux.HandleFunc("DELETE /comments/{id}", m.RequireAuth(h.Results.DeleteComment))
}
