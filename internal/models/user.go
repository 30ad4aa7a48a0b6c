package models

import "fitfam/internal/querybuilder"

const (
	UserStatusActive  = "active"
	UserStatusPending = "pending"
	UserStatusBlocked = "blocked"
)

// User represents an account. The password hash never leaves the server.
type User struct {
	ID         int64        `json:"id"`
	Email      string       `json:"email"`
	Password   string       `json:"-"`
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	IsAdmin    bool         `json:"isAdmin"`
	UserStatus string       `json:"userStatus"`
	ImageURL   *string      `json:"imageUrl"`
	Bio        *string      `json:"bio"`
	CreateDate Date         `json:"createDate"`
	ModifyDate Date         `json:"modifyDate"`
	Families   []UserFamily `json:"families,omitempty"`
}

// UserFamily is a family the user belongs to, as listed on the user
type UserFamily struct {
	FamilyID      int64  `json:"familyId"`
	FamilyName    string `json:"familyName"`
	MemStatus     string `json:"memStatus"`
	IsAdmin       bool   `json:"isAdmin"`
	PrimaryFamily bool   `json:"primaryFamily"`
}

type NewUser struct {
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	FirstName  string  `json:"firstName" validate:"required,max=100"`
	LastName   string  `json:"lastName" validate:"required,max=100"`
	IsAdmin    bool    `json:"isAdmin"`
	UserStatus *string `json:"userStatus" validate:"omitempty,oneof=active pending blocked"`
	ImageURL   *string `json:"imageUrl" validate:"omitempty,url"`
	Bio        *string `json:"bio" validate:"omitempty,max=2000"`
}

func (u NewUser) Values() querybuilder.Values {
	var v querybuilder.Values
	v.Set("email", u.Email)
	v.Set("password", u.Password)
	v.Set("firstName", u.FirstName)
	v.Set("lastName", u.LastName)
	v.Set("isAdmin", u.IsAdmin)
	setIf(&v, "userStatus", u.UserStatus)
	setIf(&v, "imageUrl", u.ImageURL)
	setIf(&v, "bio", u.Bio)
	return v
}

type UserUpdate struct {
	Password   *string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName  *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	UserStatus *string `json:"userStatus" validate:"omitempty,oneof=active pending blocked"`
	ImageURL   *string `json:"imageUrl" validate:"omitempty,url"`
	Bio        *string `json:"bio" validate:"omitempty,max=2000"`
}

func (u UserUpdate) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "password", u.Password)
	setIf(&v, "firstName", u.FirstName)
	setIf(&v, "lastName", u.LastName)
	setIf(&v, "userStatus", u.UserStatus)
	setIf(&v, "imageUrl", u.ImageURL)
	setIf(&v, "bio", u.Bio)
	return v
}

type UserFilter struct {
	Email      *string
	FirstName  *string
	LastName   *string
	Bio        *string
	IsAdmin    *bool
	UserStatus *string
}

func (f UserFilter) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "email", f.Email)
	setIf(&v, "firstName", f.FirstName)
	setIf(&v, "lastName", f.LastName)
	setIf(&v, "bio", f.Bio)
	setIf(&v, "isAdmin", f.IsAdmin)
	setIf(&v, "userStatus", f.UserStatus)
	return v
}
