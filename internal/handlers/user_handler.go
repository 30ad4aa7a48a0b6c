package handlers

import (
	"net/http"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/service"
	"fitfam/internal/validation"
)

// UserHandler serves /users
type UserHandler struct {
	users *repository.UserRepository
	authz *service.AuthzService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *repository.UserRepository, authz *service.AuthzService) *UserHandler {
	return &UserHandler{users: users, authz: authz}
}

// Create adds a user. Admin only.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	in.Bio = validation.StripHTMLPtr(in.Bio)

	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// List returns users matching the query filters. Admin only.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := models.UserFilter{
		Email:      q.String("email"),
		FirstName:  q.String("firstName"),
		LastName:   q.String("lastName"),
		Bio:        q.String("bio"),
		IsAdmin:    q.Bool("isAdmin"),
		UserStatus: q.String("userStatus"),
	}
	if q.err != nil {
		respondWithAppError(w, r, q.err)
		return
	}

	users, err := h.users.FindAll(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizedID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Find(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Update applies a partial update. Only admins may change userStatus.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizedID(w, r)
	if !ok {
		return
	}

	var in models.UserUpdate
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if in.UserStatus != nil && !GetActorFromContext(r.Context()).IsAdmin {
		respondWithAppError(w, r, apperror.Forbidden("Only admins can change userStatus"))
		return
	}
	in.Bio = validation.StripHTMLPtr(in.Bio)

	user, err := h.users.Update(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizedID(w, r)
	if !ok {
		return
	}

	if err := h.users.Remove(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// authorizedID parses {id} and checks the actor is that user or an admin
func (h *UserHandler) authorizedID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "id")
	if err == nil {
		err = h.authz.RequireSelfOrAdmin(GetActorFromContext(r.Context()), id)
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return 0, false
	}
	return id, true
}
