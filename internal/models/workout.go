package models

import "fitfam/internal/querybuilder"

const (
	CategoryWOD      = "wod"
	CategoryFeatured = "featured"
	CategoryGirls    = "girls"
	CategoryHeroes   = "heroes"
	CategoryGames    = "games"
	CategoryCustom   = "custom"
)

type Workout struct {
	ID           int64      `json:"id"`
	SwID         *string    `json:"swId"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Category     string     `json:"category"`
	ScoreType    *string    `json:"scoreType"`
	CreateDate   Date       `json:"createDate"`
	ModifyDate   Date       `json:"modifyDate"`
	FeaturedDate Date       `json:"featuredDate"`
	CreateBy     *int64     `json:"createBy"`
	Movements    []Movement `json:"movements,omitempty"`
}

// Movement is an exercise a workout can be tagged with. IDs come from SugarWOD.
type Movement struct {
	ID        string  `json:"movementId"`
	Name      string  `json:"movementName"`
	YoutubeID *string `json:"youtubeId"`
}

type NewWorkout struct {
	SwID         *string  `json:"swId" validate:"omitempty,max=64"`
	Name         string   `json:"name" validate:"required,max=255"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category" validate:"omitempty,oneof=wod featured girls heroes games custom"`
	ScoreType    *string  `json:"scoreType" validate:"omitempty,max=64"`
	FeaturedDate *Date    `json:"featuredDate"`
	CreateBy     *int64   `json:"createBy"`
	MovementIDs  []string `json:"movementIds" validate:"omitempty,dive,required"`
}

func (w NewWorkout) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "swId", w.SwID)
	v.Set("name", w.Name)
	setIf(&v, "description", w.Description)
	setIf(&v, "category", w.Category)
	setIf(&v, "scoreType", w.ScoreType)
	setIf(&v, "featuredDate", w.FeaturedDate)
	setIf(&v, "createBy", w.CreateBy)
	return v
}

type WorkoutUpdate struct {
	SwID         *string `json:"swId" validate:"omitempty,max=64"`
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description"`
	Category     *string `json:"category" validate:"omitempty,oneof=wod featured girls heroes games custom"`
	ScoreType    *string `json:"scoreType" validate:"omitempty,max=64"`
	FeaturedDate *Date   `json:"featuredDate"`
}

func (w WorkoutUpdate) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "swId", w.SwID)
	setIf(&v, "name", w.Name)
	setIf(&v, "description", w.Description)
	setIf(&v, "category", w.Category)
	setIf(&v, "scoreType", w.ScoreType)
	setIf(&v, "featuredDate", w.FeaturedDate)
	return v
}

// WorkoutFilter narrows FindAll. Keyword matches name or description;
// every id in MovementIDs must be tagged on the workout.
type WorkoutFilter struct {
	SwID         *string
	Name         *string
	Description  *string
	Category     *string
	ScoreType    *string
	FeaturedDate *Date
	CreateBy     *int64
	Keyword      string
	MovementIDs  []string
}

func (f WorkoutFilter) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "swId", f.SwID)
	setIf(&v, "name", f.Name)
	setIf(&v, "description", f.Description)
	setIf(&v, "category", f.Category)
	setIf(&v, "scoreType", f.ScoreType)
	setDateFilter(&v, "featuredDate", f.FeaturedDate)
	setIf(&v, "createBy", f.CreateBy)
	return v
}
