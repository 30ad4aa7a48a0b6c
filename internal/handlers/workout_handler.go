package handlers

import (
	"net/http"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/service"
)

// WorkoutHandler serves /workouts and /movements
type WorkoutHandler struct {
	workouts       *repository.WorkoutRepository
	movements      *repository.MovementRepository
	workoutService *service.WorkoutService
}

// NewWorkoutHandler creates a new workout handler
func NewWorkoutHandler(workouts *repository.WorkoutRepository, movements *repository.MovementRepository, workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts, movements: movements, workoutService: workoutService}
}

// Create adds a workout. createBy is the actor unless an admin sets it.
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewWorkout
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	actor := GetActorFromContext(r.Context())
	if !actor.IsAdmin || in.CreateBy == nil {
		in.CreateBy = &actor.UserID
	}

	workout, err := h.workouts.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"workout": workout})
}

// List searches workouts. keyword matches name or description and every
// movementIds entry must be tagged on a match.
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	filter := models.WorkoutFilter{
		SwID:         q.String("swId"),
		Name:         q.String("name"),
		Description:  q.String("description"),
		Category:     q.String("category"),
		ScoreType:    q.String("scoreType"),
		FeaturedDate: q.Date("featuredDate"),
		CreateBy:     q.Int64("createBy"),
		MovementIDs:  q.List("movementIds"),
	}
	if keyword := q.String("keyword"); keyword != nil {
		filter.Keyword = *keyword
	}
	if q.err != nil {
		respondWithAppError(w, r, q.err)
		return
	}

	workouts, err := h.workoutService.FindAll(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
}

func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	workout, err := h.workouts.Find(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"workout": workout})
}

func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedID(w, r)
	if !ok {
		return
	}

	var in models.WorkoutUpdate
	if err := readBody(w, r, &in); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	workout, err := h.workouts.Update(r.Context(), id, in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"workout": workout})
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ownedID(w, r)
	if !ok {
		return
	}

	if err := h.workouts.Remove(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// ListMovements returns the movement catalogue, optionally narrowed by name
func (h *WorkoutHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.movements.FindAll(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"movements": movements})
}

// ownedID parses {id} and checks the actor created the workout or is an admin
func (h *WorkoutHandler) ownedID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return 0, false
	}

	actor := GetActorFromContext(r.Context())
	if !actor.IsAdmin {
		workout, err := h.workouts.Find(r.Context(), id)
		if err != nil {
			respondWithAppError(w, r, err)
			return 0, false
		}
		if workout.CreateBy == nil || *workout.CreateBy != actor.UserID {
			respondWithAppError(w, r, apperror.Forbidden("Only the creator can change this workout"))
			return 0, false
		}
	}
	return id, true
}
