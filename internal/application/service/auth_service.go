package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	"github.com/xgym/backoffice-api/internal/domain/enum"
	"github.com/xgym/backoffice-api/internal/domain/repository"
	"github.com/xgym/backoffice-api/pkg/apperror"
	"github.com/xgym/backoffice-api/pkg/oauth"
	"github.com/xgym/backoffice-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff authentication.
type AuthService struct {
	users  repository.UserRepository
	jwt    *utils.JWTManager
	google *oauth.GoogleOAuthService
}

// NewAuthService creates the auth service.
func NewAuthService(users repository.UserRepository, jwt *utils.JWTManager, google *oauth.GoogleOAuthService) *AuthService {
	return &AuthService{users: users, jwt: jwt, google: google}
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterInput holds a new staff account. Admin-only operation.
type RegisterInput struct {
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required,min=8"`
	Role     enum.Role `json:"role" binding:"required"`
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is a successful authentication.
type AuthResult struct {
	User   *entity.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// Login authenticates a staff account with email and password.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Register creates a new staff account.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	if !input.Role.Valid() {
		return nil, apperror.NewBadRequestError("invalid role")
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GoogleAuthURL returns the Google consent URL for staff sign-in.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", oauth.ErrOAuthNotConfigured
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleCallback finishes the Google sign-in flow. Only existing staff
// accounts may sign in this way; there is no self-service signup.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*AuthResult, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, oauth.ErrOAuthNotConfigured
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	info, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrForbidden
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrUnauthorized
	}
	return s.issueTokens(user)
}

// Profile returns a staff account by ID.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ListStaff returns all staff accounts.
func (s *AuthService) ListStaff(ctx context.Context) ([]entity.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) issueTokens(user *entity.User) (*AuthResult, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:   user,
		Tokens: TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}
