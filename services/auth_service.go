package services

import (
	"cool-chat/auth"
	"cool-chat/errors"
	"cool-chat/repositories"
	"fmt"
)

type IAuthService interface {
	Login(login, password string) (Token, error)
	Register(login, password string) (Token, error)
	Authenticate(token string) (*auth.CustomClaims, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	issuer         *auth.TokenIssuer
	hashParams     auth.Params
}

type Token string

func (t Token) String() string {
	return string(t)
}

var defaultRoles = []string{"user"}

func NewAuthService(repo repositories.IUserRepository, issuer *auth.TokenIssuer, hashParams auth.Params) *AuthService {
	return &AuthService{userRepository: repo, issuer: issuer, hashParams: hashParams}
}

func (s *AuthService) Register(login, password string) (Token, error) {
	// Validation runs before any expensive cryptographic operation.
	if err := auth.ValidateRegister(auth.RegisterRequest{Login: login, Password: password}); err != nil {
		return "", err
	}

	hashedPassword, err := auth.HashPasswordWith(password, s.hashParams)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// Propagates ErrUserAlreadyExists if the login is taken
	userID, err := s.userRepository.CreateUser(login, hashedPassword)
	if err != nil {
		return "", err
	}

	token, err := s.issuer.GenerateToken(userID, login, defaultRoles)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return Token(token), nil
}

func (s *AuthService) Login(login, password string) (Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Login: login, Password: password}); err != nil {
		return "", errors.ErrInvalidCredentials
	}

	// Generic error to prevent user enumeration
	user, err := s.userRepository.GetUserByLogin(login)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(user.ID, user.Login, user.Roles)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return Token(token), nil
}

func (s *AuthService) Authenticate(token string) (*auth.CustomClaims, error) {
	return s.issuer.ValidateToken(token)
}
