package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"fitfam/internal/apperror"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/security"
	"fitfam/internal/validation"
)

// AuthService handles registration, login and token issuing
type AuthService struct {
	userRepo     *repository.UserRepository
	tokens       *security.TokenManager
	emailService *EmailService
}

// NewAuthService creates a new auth service. emailService may be nil.
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenManager, emailService *EmailService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokens:       tokens,
		emailService: emailService,
	}
}

// Register creates a regular user account and returns a token for it.
// Self-registered users are never admins.
func (s *AuthService) Register(ctx context.Context, in models.NewUser) (string, *models.User, error) {
	in.IsAdmin = false
	in.UserStatus = nil
	in.Bio = validation.StripHTMLPtr(in.Bio)

	user, err := s.userRepo.Create(ctx, in)
	if err != nil {
		return "", nil, err
	}

	s.sendWelcome(ctx, user)

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks credentials and returns a token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// OAuthLogin signs in the user with a verified provider email, creating the
// account on first sign-in
func (s *AuthService) OAuthLogin(ctx context.Context, email, firstName, lastName string) (string, *models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if user == nil {
		if firstName == "" {
			firstName, _, _ = strings.Cut(email, "@")
		}
		if lastName == "" {
			lastName = "-"
		}
		// the account can only be used through the provider until a password is set
		user, err = s.userRepo.Create(ctx, models.NewUser{
			Email:     email,
			Password:  uuid.NewString(),
			FirstName: firstName,
			LastName:  lastName,
		})
		if err != nil {
			return "", nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
		s.sendWelcome(ctx, user)
	}

	if user.UserStatus == models.UserStatusBlocked {
		return "", nil, apperror.Unauthorized("Account is blocked")
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyToken resolves a bearer token to the actor it was issued for
func (s *AuthService) VerifyToken(token string) (Actor, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Actor{}, apperror.New(apperror.ErrUnauthorized, "Invalid or expired token", err)
	}
	return Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	if s.emailService == nil {
		return
	}
	if err := s.emailService.SendWelcomeEmail(ctx, user.Email, user.FirstName); err != nil {
		log.Printf("Warning: failed to send welcome email to user %d: %v", user.ID, err)
	}
}
