package handlers

import (
	"net/http"

	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/service"
	"fitfam/internal/validation"
)

// FamilyHandler serves /families
type FamilyHandler struct {
	families      *repository.FamilyRepository
	familyService *service.FamilyService
	authz         *service.AuthzService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(families *repository.FamilyRepository, familyService *service.FamilyService, authz *service.AuthzService) *FamilyHandler {
	return &FamilyHandler{families: families, familyService: familyService, authz: authz}
}

type joinFamilyRequest struct {
	JoinCode string `json:"joinCode" validate:"required"`
}

// Create adds a family with the actor as its first admin member
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewFamily
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	in.Bio = validation.StripHTMLPtr(in.Bio)

	actor := GetActorFromContext(r.Context())
	family, err := h.familyService.CreateFamily(r.Context(), in, actor.UserID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"family": family})
}

func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := models.FamilyFilter{
		FamilyName: q.String("familyName"),
		Bio:        q.String("bio"),
	}

	families, err := h.families.FindAll(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"families": families})
}

// Get returns a family with its members. Members and admins only.
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err == nil {
		err = h.authz.RequireMemberOrAdmin(ctx, GetActorFromContext(ctx), id)
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	family, err := h.families.Find(ctx, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"family": family})
}

func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	var in models.FamilyUpdate
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	in.Bio = validation.StripHTMLPtr(in.Bio)

	family, err := h.familyService.UpdateFamily(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"family": family})
}

func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	if err := h.families.Remove(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Join adds the actor to the family owning the posted join code
func (h *FamilyHandler) Join(w http.ResponseWriter, r *http.Request) {
	var in joinFamilyRequest
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	actor := GetActorFromContext(r.Context())
	membership, err := h.familyService.JoinFamilyByCode(r.Context(), actor.UserID, in.JoinCode)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"membership": membership})
}

// adminID parses {id} and checks the actor administers that family
func (h *FamilyHandler) adminID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err == nil {
		err = h.authz.RequireFamilyAdminOrAdmin(ctx, GetActorFromContext(ctx), id)
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return 0, false
	}
	return id, true
}
