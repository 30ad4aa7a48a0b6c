package models

import "fitfam/internal/querybuilder"

// Result is a score a user logged for a workout within a family
type Result struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	FamilyID     int64   `json:"familyId"`
	WorkoutID    int64   `json:"workoutId"`
	WorkoutName  string  `json:"workoutName,omitempty"`
	Score        *string `json:"score"`
	Notes        *string `json:"notes"`
	CreateDate   Date    `json:"createDate"`
	ModifyDate   Date    `json:"modifyDate"`
	CompleteDate Date    `json:"completeDate"`
}

type NewResult struct {
	UserID       int64   `json:"userId" validate:"required,gt=0"`
	FamilyID     int64   `json:"familyId" validate:"required,gt=0"`
	WorkoutID    int64   `json:"workoutId" validate:"required,gt=0"`
	Score        *string `json:"score" validate:"omitempty,max=255"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
	CompleteDate *Date   `json:"completeDate"`
}

func (r NewResult) Values() querybuilder.Values {
	var v querybuilder.Values
	v.Set("userId", r.UserID)
	v.Set("familyId", r.FamilyID)
	v.Set("workoutId", r.WorkoutID)
	setIf(&v, "score", r.Score)
	setIf(&v, "notes", r.Notes)
	setIf(&v, "completeDate", r.CompleteDate)
	return v
}

type ResultUpdate struct {
	Score        *string `json:"score" validate:"omitempty,max=255"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
	CompleteDate *Date   `json:"completeDate"`
}

func (r ResultUpdate) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "score", r.Score)
	setIf(&v, "notes", r.Notes)
	setIf(&v, "completeDate", r.CompleteDate)
	return v
}

type ResultFilter struct {
	UserID       *int64
	FamilyID     *int64
	WorkoutID    *int64
	Score        *string
	Notes        *string
	CompleteDate *Date
}

func (f ResultFilter) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "userId", f.UserID)
	setIf(&v, "familyId", f.FamilyID)
	setIf(&v, "workoutId", f.WorkoutID)
	setIf(&v, "score", f.Score)
	setIf(&v, "notes", f.Notes)
	setDateFilter(&v, "completeDate", f.CompleteDate)
	return v
}
