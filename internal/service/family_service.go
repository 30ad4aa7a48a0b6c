package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitfam/internal/apperror"
	"fitfam/internal/credentials"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/validation"
)

const joinCodeAttempts = 5

// FamilyService handles family creation and joining by code
type FamilyService struct {
	familyRepo     *repository.FamilyRepository
	membershipRepo *repository.MembershipRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, membershipRepo *repository.MembershipRepository) *FamilyService {
	return &FamilyService{
		familyRepo:     familyRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateFamily creates a family with a fresh join code and makes the creator its admin
func (s *FamilyService) CreateFamily(ctx context.Context, in models.NewFamily, creatorUserID int64) (*models.Family, error) {
	in.Bio = validation.StripHTMLPtr(in.Bio)

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := credentials.GenerateJoinCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate join code: %w", err)
		}

		family, err := s.familyRepo.Create(ctx, in, code, creatorUserID)
		if errors.Is(err, apperror.ErrDuplicate) {
			// join code collision, try another
			continue
		}
		if err != nil {
			return nil, err
		}
		return family, nil
	}
	return nil, fmt.Errorf("failed to generate a unique join code after %d attempts", joinCodeAttempts)
}

// UpdateFamily applies a partial update
func (s *FamilyService) UpdateFamily(ctx context.Context, familyID int64, in models.FamilyUpdate) (*models.Family, error) {
	in.Bio = validation.StripHTMLPtr(in.Bio)
	return s.familyRepo.Update(ctx, familyID, in)
}

// JoinFamilyByCode adds userID to the family using familyCode as an active member
func (s *FamilyService) JoinFamilyByCode(ctx context.Context, userID int64, familyCode string) (*models.Membership, error) {
	familyCode = strings.ToLower(strings.TrimSpace(familyCode))
	if familyCode == "" {
		return nil, apperror.BadRequest("Join code is required")
	}

	if !credentials.IsJoinCode(familyCode) {
		return nil, apperror.New(apperror.ErrNotFound, "Invalid join code", nil)
	}

	family, err := s.familyRepo.FindByJoinCode(ctx, familyCode)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, apperror.New(apperror.ErrNotFound, "Invalid join code", nil)
	}

	status := models.MemStatusActive

	// a pending or inactive row is activated by a valid code
	existing, err := s.membershipRepo.Find(ctx, userID, family.ID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.MemStatus != models.MemStatusActive {
		return s.membershipRepo.Update(ctx, userID, family.ID, models.MembershipUpdate{MemStatus: &status})
	}

	return s.membershipRepo.Create(ctx, models.NewMembership{
		UserID:    userID,
		FamilyID:  family.ID,
		MemStatus: &status,
	})
}
