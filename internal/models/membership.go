package models

import (
	"fmt"

	"fitfam/internal/querybuilder"
)

const (
	MemStatusActive   = "active"
	MemStatusPending  = "pending"
	MemStatusInactive = "inactive"
)

// Membership links a user to a family. (UserID, FamilyID) is unique.
type Membership struct {
	UserID        int64  `json:"userId"`
	FamilyID      int64  `json:"familyId"`
	MemStatus     string `json:"memStatus"`
	IsAdmin       bool   `json:"isAdmin"`
	PrimaryFamily bool   `json:"primaryFamily"`
	CreateDate    Date   `json:"createDate"`
	ModifyDate    Date   `json:"modifyDate"`
}

// Key renders the composite id, e.g. "3-7"
func (m Membership) Key() string {
	return MembershipKey(m.UserID, m.FamilyID)
}

func MembershipKey(userID, familyID int64) string {
	return fmt.Sprintf("%d-%d", userID, familyID)
}

type NewMembership struct {
	UserID        int64   `json:"userId" validate:"required,gt=0"`
	FamilyID      int64   `json:"familyId" validate:"required,gt=0"`
	MemStatus     *string `json:"memStatus" validate:"omitempty,oneof=active pending inactive"`
	IsAdmin       *bool   `json:"isAdmin"`
	PrimaryFamily *bool   `json:"primaryFamily"`
}

func (m NewMembership) Values() querybuilder.Values {
	var v querybuilder.Values
	v.Set("userId", m.UserID)
	v.Set("familyId", m.FamilyID)
	setIf(&v, "memStatus", m.MemStatus)
	setIf(&v, "isAdmin", m.IsAdmin)
	setIf(&v, "primaryFamily", m.PrimaryFamily)
	return v
}

type MembershipUpdate struct {
	MemStatus     *string `json:"memStatus" validate:"omitempty,oneof=active pending inactive"`
	IsAdmin       *bool   `json:"isAdmin"`
	PrimaryFamily *bool   `json:"primaryFamily"`
}

func (m MembershipUpdate) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "memStatus", m.MemStatus)
	setIf(&v, "isAdmin", m.IsAdmin)
	setIf(&v, "primaryFamily", m.PrimaryFamily)
	return v
}

type MembershipFilter struct {
	UserID        *int64
	FamilyID      *int64
	MemStatus     *string
	IsAdmin       *bool
	PrimaryFamily *bool
}

func (f MembershipFilter) Values() querybuilder.Values {
	var v querybuilder.Values
	setIf(&v, "userId", f.UserID)
	setIf(&v, "familyId", f.FamilyID)
	setIf(&v, "memStatus", f.MemStatus)
	setIf(&v, "isAdmin", f.IsAdmin)
	setIf(&v, "primaryFamily", f.PrimaryFamily)
	return v
}
