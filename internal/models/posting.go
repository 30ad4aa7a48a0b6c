package models

import "fitfam/internal/querybuilder"

// Posting schedules a workout for a family on a date
type Posting struct {
	ID                 int64   `json:"id"`
	FamilyID           int64   `json:"familyId"`
	WorkoutID          int64   `json:"workoutId"`
	CreateDate         Date    `json:"createDate"`
	ModifyDate         Date    `json:"modifyDate"`
	PostDate           Date    `json:"postDate"`
	PostBy             *int64  `json:"postBy"`
	WorkoutName        string  `json:"workoutName"`
	WorkoutDescription *string `json:"workoutDescription"`
	ScoreType          *string `json:"scoreType"`
}

type NewPosting struct {
	FamilyID  int64  `json:"familyId" validate:"required,gt=0"`
	WorkoutID int64  `json:"workoutId" validate:"required,gt=0"`
	PostDate  *Date  `json:"postDate"`
	PostBy    *int64 `json:"postBy"`
}

func (p NewPosting) Values() querybuilder.Values {
	var v querybuilder.Values
	v.Set("familyId", p.FamilyID)
	v.Set("workoutId", p.WorkoutID)
	setIf(&v, "postDate", p.PostDate)
	setIf(&v, "postBy", p.PostBy)
	return v
}

type PostingUpdate struct {
	PostDate *Date `json:"postDate"`
}

func (p PostingUpdate) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "postDate", p.PostDate)
	return v
}

type PostingFilter struct {
	FamilyID  *int64
	WorkoutID *int64
	PostBy    *int64
	PostDate  *Date
}

func (f PostingFilter) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "familyId", f.FamilyID)
	setIf(&v, "workoutId", f.WorkoutID)
	setIf(&v, "postBy", f.PostBy)
	setDateFilter(&v, "postDate", f.PostDate)
	return v
}
