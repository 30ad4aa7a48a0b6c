package handlers

import (
	"net/http"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/service"
)

// PostingHandler serves /postings
type PostingHandler struct {
	postings *repository.PostingRepository
	authz    *service.AuthzService
}

// NewPostingHandler creates a new posting handler
func NewPostingHandler(postings *repository.PostingRepository, authz *service.AuthzService) *PostingHandler {
	return &PostingHandler{postings: postings, authz: authz}
}

// Create posts a workout to a family the actor belongs to
func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := GetActorFromContext(ctx)

	var in models.NewPosting
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := h.authz.RequireMemberOrAdmin(ctx, actor, in.FamilyID); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	switch {
	case in.PostBy == nil:
		in.PostBy = &actor.UserID
	case *in.PostBy != actor.UserID && !actor.IsAdmin:
		respondWithAppError(w, r, apperror.Forbidden("postBy must be the current user"))
		return
	}

	posting, err := h.postings.Create(ctx, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"posting": posting})
}

// List returns postings. Non-admins must filter by a family they belong to.
func (h *PostingHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := GetActorFromContext(ctx)

	q := newQueryParams(r)
	filter := models.PostingFilter{
		FamilyID:  q.Int64("familyId"),
		WorkoutID: q.Int64("workoutId"),
		PostBy:    q.Int64("postBy"),
		PostDate:  q.Date("postDate"),
	}
	if q.err != nil {
		respondWithAppError(w, r, q.err)
		return
	}

	if !actor.IsAdmin {
		if filter.FamilyID == nil {
			respondWithAppError(w, r, apperror.BadRequest("familyId is required"))
			return
		}
		if err := h.authz.RequireMemberOrAdmin(ctx, actor, *filter.FamilyID); err != nil {
			respondWithAppError(w, r, err)
			return
		}
	}

	postings, err := h.postings.FindAll(ctx, filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"postings": postings})
}

func (h *PostingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	posting, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.authz.RequireMemberOrAdmin(ctx, GetActorFromContext(ctx), posting.FamilyID); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"posting": posting})
}

func (h *PostingHandler) Update(w http.ResponseWriter, r *http.Request) {
	posting, ok := h.loadForChange(w, r)
	if !ok {
		return
	}

	var in models.PostingUpdate
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	updated, err := h.postings.Update(r.Context(), posting.ID, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"posting": updated})
}

func (h *PostingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	posting, ok := h.loadForChange(w, r)
	if !ok {
		return
	}

	if err := h.postings.Remove(r.Context(), posting.ID); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": posting.ID})
}

func (h *PostingHandler) load(w http.ResponseWriter, r *http.Request) (*models.Posting, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	posting, err := h.postings.Find(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	return posting, true
}

// loadForChange allows the poster, an admin of the posting's family, or a global admin
func (h *PostingHandler) loadForChange(w http.ResponseWriter, r *http.Request) (*models.Posting, bool) {
	ctx := r.Context()
	posting, ok := h.load(w, r)
	if !ok {
		return nil, false
	}

	actor := GetActorFromContext(ctx)
	if posting.PostBy != nil && *posting.PostBy == actor.UserID {
		if err := h.authz.RequireMemberOrAdmin(ctx, actor, posting.FamilyID); err != nil {
			respondWithAppError(w, r, err)
			return nil, false
		}
		return posting, true
	}
	if err := h.authz.RequireFamilyAdminOrAdmin(ctx, actor, posting.FamilyID); err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	return posting, true
}
