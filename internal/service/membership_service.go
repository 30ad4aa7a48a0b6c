package service

import (
	"context"
	"log"

	"fitfam/internal/models"
	"fitfam/internal/repository"
)

// MembershipService creates memberships and notifies users added by someone else
type MembershipService struct {
	membershipRepo *repository.MembershipRepository
	userRepo       *repository.UserRepository
	familyRepo     *repository.FamilyRepository
	emailService   *EmailService
}

// NewMembershipService creates a new membership service. emailService may be nil.
func NewMembershipService(membershipRepo *repository.MembershipRepository, userRepo *repository.UserRepository,
	familyRepo *repository.FamilyRepository, emailService *EmailService) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		familyRepo:     familyRepo,
		emailService:   emailService,
	}
}

// Create links in.UserID to in.FamilyID on behalf of actor
func (s *MembershipService) Create(ctx context.Context, actor Actor, in models.NewMembership) (*models.Membership, error) {
	membership, err := s.membershipRepo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	if actor.UserID != in.UserID {
		s.notifyAdded(ctx, in.UserID, in.FamilyID)
	}
	return membership, nil
}

func (s *MembershipService) notifyAdded(ctx context.Context, userID, familyID int64) {
	if s.emailService == nil || !s.emailService.IsEnabled() {
		return
	}

	user, err := s.userRepo.Find(ctx, userID)
	if err != nil {
		log.Printf("Warning: membership notification skipped, user %d: %v", userID, err)
		return
	}
	family, err := s.familyRepo.Find(ctx, familyID)
	if err != nil {
		log.Printf("Warning: membership notification skipped, family %d: %v", familyID, err)
		return
	}

	if err := s.emailService.SendFamilyAddedEmail(ctx, user.Email, user.FirstName, family.FamilyName); err != nil {
		log.Printf("Warning: failed to send membership email to user %d: %v", userID, err)
	}
}
