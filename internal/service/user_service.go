package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"pricehunt/internal/auth"
	"pricehunt/internal/model"
	"pricehunt/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenIssuer, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "user").Logger(),
		now:      time.Now,
	}
}

// Register creates an account and signs the user in.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "email and password are required")
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return nil, model.ErrWeakPassword
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return nil, model.ErrPasswordTooLong
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, model.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return s.signIn(user)
}

// Login verifies credentials and issues an access token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" || len(req.Password) > auth.MaxPasswordBytes {
		return nil, model.ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil {
		s.logger.Debug().Msg("login for unknown email")
		return nil, model.ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to check password")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if !ok {
		s.logger.Info().Str("user_id", user.ID.String()).Msg("login with wrong password")
		return nil, model.ErrInvalidCredentials
	}

	return s.signIn(user)
}

// Get retrieves a user by ID.
func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) signIn(user *model.User) (*model.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	}, nil
}

// normalizeEmail lower-cases a bare address and rejects display names and
// anything net/mail cannot parse.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", model.NewDomainError(model.ErrCodeMissingField, "email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", model.ErrInvalidEmail
	}
	return email, nil
}
