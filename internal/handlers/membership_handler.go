package handlers

import (
	"net/http"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/service"
)

// MembershipHandler serves /memberships
type MembershipHandler struct {
	memberships       *repository.MembershipRepository
	membershipService *service.MembershipService
	authz             *service.AuthzService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(memberships *repository.MembershipRepository, membershipService *service.MembershipService, authz *service.AuthzService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, membershipService: membershipService, authz: authz}
}

// Create links a user to a family. Users adding themselves without family
// admin rights get a pending, non-admin membership.
func (h *MembershipHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := GetActorFromContext(ctx)

	var in models.NewMembership
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := h.authz.RequireSelfOrFamilyAdmin(ctx, actor, in.UserID, in.FamilyID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	familyAdmin, err := h.authz.FamilyAdminOrAdmin(ctx, actor, in.FamilyID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !familyAdmin {
		pending := models.MemStatusPending
		in.MemStatus = &pending
		in.IsAdmin = nil
	}

	membership, err := h.membershipService.Create(ctx, actor, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"membership": membership})
}

// List returns memberships. Non-admins see their own rows, or the rows of a
// family they belong to when filtering by familyId.
func (h *MembershipHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := GetActorFromContext(ctx)

	q := newQueryParams(r)
	filter := models.MembershipFilter{
		UserID:        q.Int64("userId"),
		FamilyID:      q.Int64("familyId"),
		MemStatus:     q.String("memStatus"),
		IsAdmin:       q.Bool("isAdmin"),
		PrimaryFamily: q.Bool("primaryFamily"),
	}
	if q.err != nil {
		respondWithAppError(w, r, q.err)
		return
	}

	if !actor.IsAdmin {
		switch {
		case filter.FamilyID != nil:
			if err := h.authz.RequireMemberOrAdmin(ctx, actor, *filter.FamilyID); err != nil {
				respondWithAppError(w, r, err)
				return
			}
		case filter.UserID != nil && *filter.UserID != actor.UserID:
			respondWithAppError(w, r, apperror.Forbidden("You do not have access to this resource"))
			return
		default:
			filter.UserID = &actor.UserID
		}
	}

	memberships, err := h.memberships.FindAll(ctx, filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"memberships": memberships})
}

func (h *MembershipHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, familyID, ok := h.authorizedKey(w, r)
	if !ok {
		return
	}

	membership, err := h.memberships.Find(r.Context(), userID, familyID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"membership": membership})
}

// Update changes a membership. Without family admin rights only
// primaryFamily may change.
func (h *MembershipHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, familyID, ok := h.authorizedKey(w, r)
	if !ok {
		return
	}

	var in models.MembershipUpdate
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if in.MemStatus != nil || in.IsAdmin != nil {
		if err := h.authz.RequireFamilyAdminOrAdmin(ctx, GetActorFromContext(ctx), familyID); err != nil {
			respondWithAppError(w, r, err)
			return
		}
	}

	membership, err := h.memberships.Update(ctx, userID, familyID, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"membership": membership})
}

func (h *MembershipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, familyID, ok := h.authorizedKey(w, r)
	if !ok {
		return
	}

	if err := h.memberships.Remove(r.Context(), userID, familyID); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": models.MembershipKey(userID, familyID)})
}

// authorizedKey parses {userId}/{familyId} and checks the actor is that
// user, an admin of that family, or a global admin
func (h *MembershipHandler) authorizedKey(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	ctx := r.Context()
	userID, err := pathID(r, "userId")
	if err != nil {
		respondWithAppError(w, r, err)
		return 0, 0, false
	}
	familyID, err := pathID(r, "familyId")
	if err == nil {
		err = h.authz.RequireSelfOrFamilyAdmin(ctx, GetActorFromContext(ctx), userID, familyID)
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return 0, 0, false
	}
	return userID, familyID, true
}
