package models

import "fitfam/internal/querybuilder"

// Comment is attached to exactly one result
type Comment struct {
	ID         int64  `json:"id"`
	ResultID   int64  `json:"resultId"`
	UserID     int64  `json:"userId"`
	Content    string `json:"content"`
	CreateDate Date   `json:"createDate"`
	ModifyDate Date   `json:"modifyDate"`
}

type NewComment struct {
	ResultID int64  `json:"resultId" validate:"required,gt=0"`
	UserID   int64  `json:"userId" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required,max=2000"`
}

func (c NewComment) Values() querybuilder.Values {
	var v querybuilder.Values
	v.Set("resultId", c.ResultID)
	v.Set("userId", c.UserID)
	v.Set("content", c.Content)
	return v
}

type CommentUpdate struct {
	Content *string `json:"content" validate:"omitempty,min=1,max=2000"`
}

func (c CommentUpdate) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "content", c.Content)
	return v
}

type CommentFilter struct {
	ResultID *int64
	UserID   *int64
	Content  *string
}

func (f CommentFilter) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "resultId", f.ResultID)
	setIf(&v, "userId", f.UserID)
	setIf(&v, "content", f.Content)
	return v
}
