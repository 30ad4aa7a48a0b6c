package handlers

import (
	"net/http"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/service"
	"fitfam/internal/validation"
)

// ResultHandler serves /results and /comments
type ResultHandler struct {
	results  *repository.ResultRepository
	comments *repository.CommentRepository
	authz    *service.AuthzService
}

// NewResultHandler creates a new result handler
func NewResultHandler(results *repository.ResultRepository, comments *repository.CommentRepository, authz *service.AuthzService) *ResultHandler {
	return &ResultHandler{results: results, comments: comments, authz: authz}
}

// Create records a result in a family the actor belongs to
func (h *ResultHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := GetActorFromContext(ctx)

	var in models.NewResult
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if in.UserID == 0 {
		in.UserID = actor.UserID
	}
	if err := validation.Struct(&in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if in.UserID != actor.UserID && !actor.IsAdmin {
		respondWithAppError(w, r, apperror.Forbidden("userId must be the current user"))
		return
	}
	if err := h.authz.RequireMemberOrAdmin(ctx, actor, in.FamilyID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.results.Create(ctx, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"result": result})
}

func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := models.ResultFilter{
		UserID:       q.Int64("userId"),
		FamilyID:     q.Int64("familyId"),
		WorkoutID:    q.Int64("workoutId"),
		Score:        q.String("score"),
		Notes:        q.String("notes"),
		CompleteDate: q.Date("completeDate"),
	}
	if q.err != nil {
		respondWithAppError(w, r, q.err)
		return
	}

	results, err := h.results.FindAll(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.results.Find(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"result": result})
}

func (h *ResultHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedResultID(w, r)
	if !ok {
		return
	}

	var in models.ResultUpdate
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.results.Update(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"result": result})
}

func (h *ResultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedResultID(w, r)
	if !ok {
		return
	}

	if err := h.results.Remove(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// CreateComment adds a comment on a result. Content is stored as plain text.
func (h *ResultHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())

	var in models.NewComment
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if in.UserID == 0 {
		in.UserID = actor.UserID
	}
	in.Content = validation.StripHTML(in.Content)
	if err := validation.Struct(&in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if in.UserID != actor.UserID && !actor.IsAdmin {
		respondWithAppError(w, r, apperror.Forbidden("userId must be the current user"))
		return
	}

	comment, err := h.comments.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

func (h *ResultHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := models.CommentFilter{
		ResultID: q.Int64("resultId"),
		UserID:   q.Int64("userId"),
		Content:  q.String("content"),
	}
	if q.err != nil {
		respondWithAppError(w, r, q.err)
		return
	}

	comments, err := h.comments.FindAll(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (h *ResultHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	comment, err := h.comments.Find(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"comment": comment})
}

func (h *ResultHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedCommentID(w, r)
	if !ok {
		return
	}

	var in models.CommentUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	in.Content = validation.StripHTMLPtr(in.Content)
	if err := validation.Struct(&in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"comment": comment})
}

func (h *ResultHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedCommentID(w, r)
	if !ok {
		return
	}

	if err := h.comments.Remove(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *ResultHandler) ownedResultID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "id")
	if err == nil {
		var result *models.Result
		if result, err = h.results.Find(r.Context(), id); err == nil {
			err = h.authz.RequireSelfOrAdmin(GetActorFromContext(r.Context()), result.UserID)
		}
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return 0, false
	}
	return id, true
}

func (h *ResultHandler) ownedCommentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "id")
	if err == nil {
		var comment *models.Comment
		if comment, err = h.comments.Find(r.Context(), id); err == nil {
			err = h.authz.RequireSelfOrAdmin(GetActorFromContext(r.Context()), comment.UserID)
		}
	}
	if err != nil {
		respondWithAppError(w, r, err)
		return 0, false
	}
	return id, true
}
