package models

import "fitfam/internal/querybuilder"

// Family is a group of users who share postings and results
type Family struct {
	ID         int64          `json:"id"`
	FamilyName string         `json:"familyName"`
	JoinCode   *string        `json:"joinCode,omitempty"`
	ImageURL   *string        `json:"imageUrl"`
	Bio        *string        `json:"bio"`
	CreateDate Date           `json:"createDate"`
	ModifyDate Date           `json:"modifyDate"`
	Users      []FamilyMember `json:"users,omitempty"`
}

// FamilyMember is a member as listed on a family
type FamilyMember struct {
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	MemStatus string `json:"memStatus"`
	IsAdmin   bool   `json:"isAdmin"`
}

type NewFamily struct {
	FamilyName string  `json:"familyName" validate:"required,max=255"`
	ImageURL   *string `json:"imageUrl" validate:"omitempty,url"`
	Bio        *string `json:"bio" validate:"omitempty,max=2000"`
}

func (f NewFamily) Values() querybuilder.Values {
	var v querybuilder.Values
	v.Set("familyName", f.FamilyName)
	setIf(&v, "imageUrl", f.ImageURL)
	setIf(&v, "bio", f.Bio)
	return v
}

type FamilyUpdate struct {
	FamilyName *string `json:"familyName" validate:"omitempty,min=1,max=255"`
	ImageURL   *string `json:"imageUrl" validate:"omitempty,url"`
	Bio        *string `json:"bio" validate:"omitempty,max=2000"`
}

func (f FamilyUpdate) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "familyName", f.FamilyName)
	setIf(&v, "imageUrl", f.ImageURL)
	setIf(&v, "bio", f.Bio)
	return v
}

type FamilyFilter struct {
	FamilyName *string
	Bio        *string
	JoinCode   *string
}

func (f FamilyFilter) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "familyName", f.FamilyName)
	setIf(&v, "bio", f.Bio)
	setIf(&v, "joinCode", f.JoinCode)
	return v
}
