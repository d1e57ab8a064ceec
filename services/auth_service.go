package services

import (
	"context"
	"time"

	"github.com/szymekpro/ztpai-mfs/utils"
)

type TokenConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthService struct {
	users *UserService
	cfg   TokenConfig
}

func NewAuthService(users *UserService, cfg TokenConfig) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login checks the password and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || !user.IsActive || !utils.CheckPasswordHash(password, user.Password) {
		return nil, AuthFailed("No active account found with the given credentials")
	}
	access, err := utils.GenerateAccessToken(s.cfg.Secret, user.Email, string(user.Role), s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(s.cfg.Secret, user.Email, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh trades a refresh token for a new access token carrying the user's current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := utils.ParseToken(s.cfg.Secret, refreshToken, utils.TokenRefresh)
	if err != nil {
		return "", AuthFailed("Token is invalid or expired")
	}
	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil || !user.IsActive {
		return "", AuthFailed("User not found")
	}
	return utils.GenerateAccessToken(s.cfg.Secret, user.Email, string(user.Role), s.cfg.AccessTTL)
}

// Authenticate resolves an access token to the principal it belongs to.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (Principal, error) {
	claims, err := utils.ParseToken(s.cfg.Secret, accessToken, utils.TokenAccess)
	if err != nil {
		return Principal{}, AuthFailed("invalid token")
	}
	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil || !user.IsActive {
		return Principal{}, AuthFailed("user not found")
	}
	return Principal{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}
