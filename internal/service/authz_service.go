package service

import (
	"context"
	"fmt"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID  int64
	IsAdmin bool
}

type membershipLister interface {
	FindAll(ctx context.Context, filter models.MembershipFilter) ([]models.Membership, error)
}

// AuthzService answers whether an actor may touch a user or family
type AuthzService struct {
	memberships membershipLister
}

// NewAuthzService creates a new authorization service
func NewAuthzService(memberships membershipLister) *AuthzService {
	return &AuthzService{memberships: memberships}
}

// IsMember reports whether userID has an active membership in familyID.
// Pending and inactive rows grant nothing until a family admin activates them.
func (s *AuthzService) IsMember(ctx context.Context, userID, familyID int64) (bool, error) {
	m, err := s.membership(ctx, userID, familyID)
	return m != nil && m.MemStatus == models.MemStatusActive, err
}

// SelfOrAdmin reports whether actor is userID or a global admin
func SelfOrAdmin(actor Actor, userID int64) bool {
	return actor.IsAdmin || actor.UserID == userID
}

// MemberOrAdmin reports whether actor belongs to familyID or is a global admin
func (s *AuthzService) MemberOrAdmin(ctx context.Context, actor Actor, familyID int64) (bool, error) {
	if actor.IsAdmin {
		return true, nil
	}
	return s.IsMember(ctx, actor.UserID, familyID)
}

// FamilyAdminOrAdmin reports whether actor administers familyID or is a global admin
func (s *AuthzService) FamilyAdminOrAdmin(ctx context.Context, actor Actor, familyID int64) (bool, error) {
	if actor.IsAdmin {
		return true, nil
	}
	m, err := s.membership(ctx, actor.UserID, familyID)
	if err != nil {
		return false, err
	}
	return m != nil && m.IsAdmin && m.MemStatus == models.MemStatusActive, nil
}

func (s *AuthzService) RequireSelfOrAdmin(actor Actor, userID int64) error {
	if !SelfOrAdmin(actor, userID) {
		return forbidden()
	}
	return nil
}

func (s *AuthzService) RequireMemberOrAdmin(ctx context.Context, actor Actor, familyID int64) error {
	return require(s.MemberOrAdmin(ctx, actor, familyID))
}

func (s *AuthzService) RequireFamilyAdminOrAdmin(ctx context.Context, actor Actor, familyID int64) error {
	return require(s.FamilyAdminOrAdmin(ctx, actor, familyID))
}

// RequireSelfOrFamilyAdmin allows userID themselves, an admin of familyID, or a global admin
func (s *AuthzService) RequireSelfOrFamilyAdmin(ctx context.Context, actor Actor, userID, familyID int64) error {
	if SelfOrAdmin(actor, userID) {
		return nil
	}
	return s.RequireFamilyAdminOrAdmin(ctx, actor, familyID)
}

func (s *AuthzService) membership(ctx context.Context, userID, familyID int64) (*models.Membership, error) {
	memberships, err := s.memberships.FindAll(ctx, models.MembershipFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	for _, m := range memberships {
		if m.FamilyID == familyID {
			return &m, nil
		}
	}
	return nil, nil
}

func require(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return forbidden()
	}
	return nil
}

func forbidden() error {
	return apperror.Forbidden("You do not have access to this resource")
}
