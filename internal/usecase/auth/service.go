package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domuser "example.com/food-storefront/internal/domain/user"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*domuser.Identity, error)
}

type Service struct {
	userRepo domuser.Repository
	checker  PasswordHasher
	tokens   TokenService
}

func NewService(
	userRepo domuser.Repository,
	checker PasswordHasher,
	tokens TokenService,
) *Service {
	return &Service{
		userRepo: userRepo,
		checker:  checker,
		tokens:   tokens,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domuser.User
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domuser.ErrUnauthorized
	}

	if err := s.checker.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domuser.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User:  u,
	}, nil
}

type CreateAccountInput struct {
	Email    string
	Password string
	FullName string
	Role     domuser.Role
}

func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*domuser.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || len(in.Password) < 6 {
		return nil, domuser.ErrInvalidCredential
	}
	role := in.Role
	if role == "" {
		role = domuser.RoleCustomer
	}
	if !role.IsValid() {
		return nil, domuser.ErrInvalidRole
	}

	hash, err := s.checker.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Create(ctx, &domuser.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role,
	})
}
